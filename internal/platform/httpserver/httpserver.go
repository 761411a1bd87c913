package httpserver

import (
	"net/http"
	"time"
)

// New builds the server hosting the catalog read API and the metrics
// endpoint. Only the header read is bounded here; request deadlines belong to
// the handlers.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
