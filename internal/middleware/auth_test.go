package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestAPIKey(t *testing.T) {
	logger := zerolog.Nop()
	handler := APIKey(AuthConfig{
		APIKey:      "secret",
		PublicPaths: []string{"/swagger-ui/", "/swagger/swagger.json"},
	}, &logger)(okHandler())

	tests := []struct {
		name   string
		path   string
		header string
		value  string
		want   int
	}{
		{"missing key", "/todos", "", "", http.StatusUnauthorized},
		{"wrong key", "/todos", "X-API-Key", "nope", http.StatusUnauthorized},
		{"header key", "/todos", "X-API-Key", "secret", http.StatusOK},
		{"bearer key", "/todos", "Authorization", "Bearer secret", http.StatusOK},
		{"public prefix", "/swagger-ui/index.html", "", "", http.StatusOK},
		{"public path", "/swagger/swagger.json", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestAPIKey_Disabled(t *testing.T) {
	logger := zerolog.Nop()
	handler := APIKey(AuthConfig{}, &logger)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/todos", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with auth disabled, got %d", w.Code)
	}
}
