package utils

import (
	"encoding/json"
	"net/http"

	"tableside/internal/models"
)

// Envelope is the wire shape every backend endpoint answers with. Code is a
// business-level code (see models codes), independent of the HTTP status.
type Envelope struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg,omitempty"`
	Body interface{} `json:"body,omitempty"`
}

func WriteOK(w http.ResponseWriter, body interface{}) {
	WriteEnvelope(w, http.StatusOK, Envelope{Code: models.CodeOK, Body: body})
}

func WriteCode(w http.ResponseWriter, code int, msg string, body interface{}) {
	WriteEnvelope(w, http.StatusOK, Envelope{Code: code, Msg: msg, Body: body})
}

func WriteError(w http.ResponseWriter, httpStatus int, msg string) {
	WriteEnvelope(w, httpStatus, Envelope{Code: httpStatus, Msg: msg})
}

func WriteEnvelope(w http.ResponseWriter, httpStatus int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(env)
}
