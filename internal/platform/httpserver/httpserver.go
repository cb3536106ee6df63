package httpserver

import (
	"net/http"
	"time"
)

// New wires a http.Server with sane defaults for the certificate API.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
