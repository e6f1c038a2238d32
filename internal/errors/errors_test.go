package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pribylovaa/blog-engagement/internal/service"
	"github.com/stretchr/testify/require"
)

func TestToHTTP_BaseMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", fmt.Errorf("op: %w", service.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"parent_not_found", fmt.Errorf("op: %w", service.ErrParentNotFound), http.StatusNotFound, "parent_not_found"},
		{"not_found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"canceled", fmt.Errorf("op: %w: %w", service.ErrInternal, context.Canceled), StatusClientClosedRequest, "canceled"},
		{"deadline", fmt.Errorf("op: %w: %w", service.ErrInternal, context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"internal", fmt.Errorf("op: %w", service.ErrInternal), http.StatusInternalServerError, "internal"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

// TestToHTTP_DoesNotLeakDetails — текст исходной ошибки не попадает в ответ.
func TestToHTTP_DoesNotLeakDetails(t *testing.T) {
	_, resp := ToHTTP(fmt.Errorf("mongo: connection refused 10.0.0.5:27017: %w", service.ErrInternal))
	require.NotContains(t, resp.Error.Message, "10.0.0.5")
}

func TestWriteError_SetsHeadersAndRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/comments/hello", nil)
	r.Header.Set("X-Request-Id", "rid-123")
	w := httptest.NewRecorder()

	WriteError(w, r, service.ErrInvalidArgument)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "invalid_argument", body.Error.Code)
	require.Equal(t, "rid-123", body.Error.RequestID)
}

func TestWriteError_RequestIDFromResponseHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	w.Header().Set("X-Request-Id", "generated")

	WriteError(w, r, errors.New("x"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "generated", body.Error.RequestID)
}
