package main

import (
	"flag"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/FZX/DummyBlog/internal/db"
	"github.com/FZX/DummyBlog/internal/server"
)

func main() {
	var (
		addr        = flag.String("addr", getEnv("BLOG_ADDR", ":8080"), "listen address")
		dbPath      = flag.String("db", getEnv("BLOG_DB", "blog.db"), "sqlite database path")
		templateDir = flag.String("templates", getEnv("BLOG_TEMPLATES", "web/templates"), "template directory")
		staticDir   = flag.String("static", getEnv("BLOG_STATIC", "web/static"), "static asset directory")
		secret      = flag.String("cookie-secret", os.Getenv("BLOG_COOKIE_SECRET"), "session cookie signing secret")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	database, err := db.Open(*dbPath)
	if err != nil {
		sugar.Fatalw("open database", "path", *dbPath, "err", err)
	}

	srv, err := server.New(database, sugar, server.Config{
		TemplateDir:  *templateDir,
		StaticDir:    *staticDir,
		CookieSecret: *secret,
	})
	if err != nil {
		sugar.Fatalw("server setup", "err", err)
	}

	sugar.Infow("listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		sugar.Fatalw("serve", "err", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
