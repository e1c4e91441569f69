package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. The write timeout leaves headroom for document
// rendering, which holds the response open while chromium produces the PDF.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
