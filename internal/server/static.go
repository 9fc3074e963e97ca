package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Static assets never change between deploys, so the browser may cache
// them far into the future.
const staticCacheControl = "public, max-age=25920000"

func (s *Server) staticRoutes(r chi.Router) {
	mounts := []struct {
		prefix string
		dir    string
	}{
		{"/images", "img"},
		{"/dummy", "dummy"},
		{"/vendor", "vendor"},
		{"/fonts", "fonts"},
	}
	for _, m := range mounts {
		fileServer(r, m.prefix, http.Dir(filepath.Join(s.staticDir, m.dir)))
	}
}

// fileServer mounts a static directory under a path prefix with the
// far-future cache header.
func fileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("fileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		w.Header().Set("Cache-Control", staticCacheControl)
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}
