package loadbalancer

import (
	"errors"
	"net/http"
	"sync"
)

var ErrNoBackends = errors.New("load balancer needs at least one backend")

// LoadBalancer hands requests to its backends in round-robin order.
type LoadBalancer struct {
	backends []http.Handler
	mu       sync.Mutex
	current  int
}

func NewLoadBalancer(backends ...http.Handler) (*LoadBalancer, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}
	return &LoadBalancer{
		backends: backends,
		current:  0,
	}, nil
}

func (lb *LoadBalancer) GetNextBackend() http.Handler {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	backend := lb.backends[lb.current]
	lb.current = (lb.current + 1) % len(lb.backends)
	return backend
}

func (lb *LoadBalancer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lb.GetNextBackend().ServeHTTP(w, r)
}
