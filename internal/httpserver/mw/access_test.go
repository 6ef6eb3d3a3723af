package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/chronos/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAllowOnlyCIDRS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		remoteAddr string
		xff        string
		trustProxy bool
		want       int
	}{
		{name: "empty list passes everything", allowed: nil, remoteAddr: "8.8.8.8:1", want: http.StatusOK},
		{name: "inside cidr", allowed: []string{"10.0.0.0/8"}, remoteAddr: "10.1.2.3:1", want: http.StatusOK},
		{name: "outside cidr", allowed: []string{"10.0.0.0/8"}, remoteAddr: "8.8.8.8:1", want: http.StatusForbidden},
		{name: "forwarded ip trusted", allowed: []string{"1.2.3.4"}, remoteAddr: "127.0.0.1:1", xff: "1.2.3.4", trustProxy: true, want: http.StatusOK},
		{name: "forwarded ip untrusted", allowed: []string{"1.2.3.4"}, remoteAddr: "127.0.0.1:1", xff: "1.2.3.4", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AllowOnlyCIDRS(tt.allowed, tt.trustProxy, logger.NewNop())(okHandler)

			r := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestEnforceHost(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		host    string
		want    int
	}{
		{name: "empty list passes everything", host: "anything.example", want: http.StatusOK},
		{name: "exact", allowed: []string{"chronos.example.com"}, host: "chronos.example.com", want: http.StatusOK},
		{name: "case insensitive", allowed: []string{"Chronos.Example.com"}, host: "chronos.example.COM", want: http.StatusOK},
		{name: "port ignored when pattern has none", allowed: []string{"localhost"}, host: "localhost:8080", want: http.StatusOK},
		{name: "port must match when pattern has one", allowed: []string{"localhost:9090"}, host: "localhost:8080", want: http.StatusForbidden},
		{name: "wildcard subdomain", allowed: []string{"*.example.com"}, host: "app.example.com", want: http.StatusOK},
		{name: "wildcard not apex", allowed: []string{"*.example.com"}, host: "example.com", want: http.StatusForbidden},
		{name: "unknown host", allowed: []string{"chronos.example.com"}, host: "evil.example.net", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := EnforceHost(tt.allowed, logger.NewNop())(okHandler)

			r := httptest.NewRequest(http.MethodGet, "/api/resources", nil)
			r.Host = tt.host
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(okHandler)

	r := httptest.NewRequest(http.MethodOptions, "/api/topics", nil)
	r.Header.Set("Origin", "https://app.example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/api/resources", nil)
	r.Header.Set("Origin", "https://other.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisabledWithoutOrigins(t *testing.T) {
	h := CORS(nil)(okHandler)

	r := httptest.NewRequest(http.MethodGet, "/api/resources", nil)
	r.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
