package api

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// StartServer serves the extraction API on the given port. The returned
// server is shut down by the caller.
func StartServer(port int, handler *Handler, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/extract-ylocations", handler.HandleExtract)
	mux.HandleFunc("/healthz", handler.HandleHealthz)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logger.Info("http server starting", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	return srv
}
