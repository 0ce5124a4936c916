package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-reader/internal/service"
)

func TestToHTTP_Mapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"wrapped_invalid_argument", fmt.Errorf("op: %w", service.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"deadline", fmt.Errorf("op: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "canceled"},
		{"internal", stderrors.New("disk on fire"), http.StatusInternalServerError, "internal"},
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

// TestWriteError_AddsRequestID_NoDetailsLeak — тело не содержит текста исходной ошибки.
func TestWriteError_AddsRequestID_NoDetailsLeak(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	rr := httptest.NewRecorder()

	WriteError(rr, req, stderrors.New("secret dsn postgres://user:pass@db"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.NotContains(t, rr.Body.String(), "secret")

	var env ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "internal", env.Error.Code)
	require.Equal(t, "rid-1", env.Error.RequestID)
}
