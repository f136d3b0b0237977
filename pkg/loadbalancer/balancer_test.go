package loadbalancer

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name))
	})
}

func TestRoundRobin(t *testing.T) {
	lb, err := NewLoadBalancer(named("a"), named("b"))
	require.NoError(t, err)

	var got []string
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		lb.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/health", nil))
		got = append(got, rec.Body.String())
	}
	assert.Equal(t, []string{"a", "b", "a", "b"}, got)
}

func TestNoBackends(t *testing.T) {
	_, err := NewLoadBalancer()
	assert.ErrorIs(t, err, ErrNoBackends)
}
