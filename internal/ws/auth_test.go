package ws

import (
	"net/http/httptest"
	"testing"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{"query parameter", "/socket.io/?EIO=4&token=abc", "", "abc"},
		{"bearer header", "/socket.io/", "Bearer xyz", "xyz"},
		{"query wins over header", "/socket.io/?token=abc", "Bearer xyz", "abc"},
		{"malformed header", "/socket.io/", "Token xyz", ""},
		{"nothing", "/socket.io/", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := extractToken(r); got != tt.want {
				t.Errorf("extractToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
