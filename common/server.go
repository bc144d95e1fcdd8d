package common

import (
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
)

// NewServer serves handler on cfg.Port with gzip compression for clients
// that accept it.
func NewServer(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gzhttp.GzipHandler(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
