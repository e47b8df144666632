package middleware

import (
	"net/http"
	"strings"
	"time"

	"carrental/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HTTPMetrics records request counts, latency and in-flight requests.
// Object ids in the path are collapsed so routes stay low-cardinality.
func HTTPMetrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.InFlight(1)
			defer m.InFlight(-1)

			wrapped := wrapWriter(w)
			next.ServeHTTP(wrapped, r)

			m.ObserveHTTP(r.Method, routeLabel(r.URL.Path), wrapped.statusCode, time.Since(start).Seconds())
		})
	}
}

func routeLabel(path string) string {
	if strings.HasPrefix(path, "/uploads/") {
		return "/uploads/:file"
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if primitive.IsValidObjectID(s) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
