package server

import (
	"net/http"
)

// StatusResponse is the JSON payload for the form-submit endpoints. The
// status strings match what the admin frontend scripts key on.
type StatusResponse struct {
	Status string `json:"status"`
}

func (sr *StatusResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

var (
	statusOK       = &StatusResponse{Status: "OK"}
	statusFail     = &StatusResponse{Status: "FAIL"}
	statusSuccess  = &StatusResponse{Status: "success"}
	statusNoID     = &StatusResponse{Status: "fail"}
	statusNoRights = &StatusResponse{Status: "you do not have rights!"}
)

// contactForm is the validated contact submission.
type contactForm struct {
	Name    string
	Email   string
	Message string
}

func (f *contactForm) bind(r *http.Request) bool {
	f.Name = r.FormValue("name")
	f.Email = r.FormValue("email")
	f.Message = r.FormValue("message")
	return f.Name != "" && f.Email != "" && f.Message != ""
}
