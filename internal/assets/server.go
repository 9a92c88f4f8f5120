package assets

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/heightview/internal/logger"
)

// Handler serves the files under dir with permissive CORS so that any local
// viewer can fetch them. Only GET, HEAD and OPTIONS are allowed.
func Handler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	log := logger.Named("assets")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		rec.Header().Set("Access-Control-Allow-Origin", "*")
		rec.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")

		switch r.Method {
		case http.MethodGet, http.MethodHead:
			files.ServeHTTP(rec, r)
		case http.MethodOptions:
			rec.WriteHeader(http.StatusNoContent)
		default:
			rec.Header().Set("Allow", "GET, HEAD, OPTIONS")
			http.Error(rec, "method not allowed", http.StatusMethodNotAllowed)
		}

		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Mount serves dir under the path of baseURL, so a viewer configured with the
// same base URL resolves every asset.
func Mount(baseURL, dir string) (http.Handler, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing asset base url %q: %w", baseURL, err)
	}
	prefix := strings.TrimSuffix(u.Path, "/")
	if prefix == "" {
		return Handler(dir), nil
	}
	return http.StripPrefix(prefix, Handler(dir)), nil
}
