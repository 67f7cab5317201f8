package httpx

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without internal err",
			err:  NewAppError(http.StatusBadRequest, CodeParamMissing, "param missing", nil),
			want: "code=2001, message=param missing",
		},
		{
			name: "error with internal err",
			err:  NewAppError(http.StatusInternalServerError, CodeDatabaseError, "database error", errors.New("bad connection")),
			want: "code=5002, message=database error, err=bad connection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrNotFound(t *testing.T) {
	err := ErrNotFound("task not found")
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Code != CodeNotFound {
		t.Errorf("Expected code %d, got %d", CodeNotFound, err.Code)
	}
	if err.Message != "task not found" {
		t.Errorf("Expected custom message, got '%s'", err.Message)
	}
}

func TestErrAppendOnlyIsFixed(t *testing.T) {
	a, b := ErrAppendOnly(), ErrAppendOnly()
	if a.Message != b.Message {
		t.Error("append-only message must not vary")
	}
	if a.HTTPStatus != http.StatusConflict {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusConflict, a.HTTPStatus)
	}
	if a.Code != CodeAppendOnly {
		t.Errorf("Expected code %d, got %d", CodeAppendOnly, a.Code)
	}
}

func TestErrParamMissingDefaultMessage(t *testing.T) {
	err := ErrParamMissing("")
	if err.Message != "parameter missing" {
		t.Errorf("got message '%s'", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("got status %d", err.HTTPStatus)
	}
}

func TestErrorCodeRanges(t *testing.T) {
	tests := []struct {
		name string
		code int
		min  int
		max  int
	}{
		{"CodeSuccess", CodeSuccess, 0, 0},
		{"CodeUnauthorized", CodeUnauthorized, 1000, 1099},
		{"CodeInvalidToken", CodeInvalidToken, 1000, 1099},
		{"CodeTokenExpired", CodeTokenExpired, 1000, 1099},
		{"CodeForbidden", CodeForbidden, 1000, 1099},
		{"CodeParamMissing", CodeParamMissing, 2000, 2099},
		{"CodeParamInvalid", CodeParamInvalid, 2000, 2099},
		{"CodeNotFound", CodeNotFound, 3000, 3999},
		{"CodeAlreadyExists", CodeAlreadyExists, 3000, 3999},
		{"CodeAppendOnly", CodeAppendOnly, 3000, 3999},
		{"CodeInternalError", CodeInternalError, 5000, 5999},
		{"CodeDatabaseError", CodeDatabaseError, 5000, 5999},
		{"CodeExternalError", CodeExternalError, 5000, 5999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code < tt.min || tt.code > tt.max {
				t.Errorf("%s = %d, expected to be in range [%d, %d]", tt.name, tt.code, tt.min, tt.max)
			}
		})
	}
}
