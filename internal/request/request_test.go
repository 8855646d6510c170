package request

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "10.0.0.1:54321",
			want:       "10.0.0.1:54321",
		},
		{
			name:       "x-real-ip wins over remote addr",
			headers:    map[string]string{"X-Real-IP": "203.0.113.7"},
			remoteAddr: "10.0.0.1:54321",
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for wins over x-real-ip",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.4", "X-Real-IP": "203.0.113.7"},
			remoteAddr: "10.0.0.1:54321",
			want:       "198.51.100.4",
		},
		{
			name:       "first forwarded hop is used",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.4, 203.0.113.7, 10.0.0.2"},
			remoteAddr: "10.0.0.1:54321",
			want:       "198.51.100.4",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			if got := ClientIP(req); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
