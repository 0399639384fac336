package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// norm keeps label values bounded and lowercase.
func norm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "unknown"
	}
	return s
}

// Handler exposes the default Prometheus registry.
func Handler() http.Handler { return promhttp.Handler() }
