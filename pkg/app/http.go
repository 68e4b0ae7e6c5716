package app

import (
	"net/http"
	"sort"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/franRappazzini/boltick-contracts/pkg/metrics"
)

// newHTTPMux installs the handlers, each traced as a New Relic transaction
// when a metrics provider is configured
func newHTTPMux(handlers map[string]http.HandlerFunc, metricsProvider *newrelic.Application) *http.ServeMux {
	paths := make([]string, 0, len(handlers))
	for path := range handlers {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	mux := http.NewServeMux()
	for _, path := range paths {
		handler := handlers[path]
		if metricsProvider == nil {
			mux.HandleFunc(path, handler)
			continue
		}

		mux.HandleFunc(newrelic.WrapHandleFunc(metricsProvider, path, func(w http.ResponseWriter, r *http.Request) {
			handler(w, r.WithContext(metrics.NewContext(r.Context(), metricsProvider)))
		}))
	}
	return mux
}
