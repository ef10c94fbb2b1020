// Package dashboard is the HTTP status dashboard collaborator
// (spec.md §6): GET /api/status and GET /, both read-only clients of
// internal/queue. Routed with chi, matching the routing style of
// every pack repo that exposes an HTTP surface
// (_examples/SirClappington-enq, _examples/ramiqadoumi-go-task-flow,
// _examples/scarson-CVErt-Ops).
package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"queuectl/internal/queue"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><title>queuectl</title></head>
<body>
<h1>queuectl</h1>
<pre id="status">loading...</pre>
<script>
async function poll() {
  const res = await fetch('/api/status');
  const body = await res.json();
  document.getElementById('status').textContent = JSON.stringify(body, null, 2);
}
poll();
setInterval(poll, 2000);
</script>
</body>
</html>`

// NewRouter builds the dashboard's chi router over q.
func NewRouter(q *queue.Queue, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(zapRequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		status, err := q.Status()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexPage))
	})

	return r
}

// zapRequestLogger adapts chi's middleware.Logger pattern to the
// shared zap logger instead of stdlib log.
func zapRequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
