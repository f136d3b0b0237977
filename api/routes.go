package api

import (
	"net/http"

	"GroundwaterDash/internal/logger"
	"GroundwaterDash/pkg/loadbalancer"

	"github.com/gorilla/mux"
)

// NewGatewayRouter routes /reports/ to the reports instances at
// reportsTargets, spreading requests round-robin.
func NewGatewayRouter(reportsTargets ...string) (*mux.Router, error) {
	var proxies []http.Handler
	for _, target := range reportsTargets {
		proxy, err := createReverseProxy(target)
		if err != nil {
			return nil, err
		}
		proxies = append(proxies, proxy)
	}
	lb, err := loadbalancer.NewLoadBalancer(proxies...)
	if err != nil {
		return nil, err
	}
	router := mux.NewRouter()
	router.PathPrefix("/reports/").Handler(lb)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	}).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Audit("[Gateway] [Error] %s from %s (route not found)", r.URL.Path, r.RemoteAddr)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("404 - Route not found"))
	})
	return router, nil
}
