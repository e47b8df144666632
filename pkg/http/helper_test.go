package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "carrental/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOptionalJSON(t *testing.T) {
	type payload struct {
		Reason string `json:"reason"`
	}

	tests := []struct {
		name    string
		body    io.Reader
		length  int64
		want    string
		wantErr bool
	}{
		{"no body", nil, 0, "", false},
		{"empty body", strings.NewReader(""), 0, "", false},
		{"sized body", strings.NewReader(`{"reason":"late"}`), 17, "late", false},
		{"chunked body", io.NopCloser(strings.NewReader(`{"reason":"late"}`)), -1, "late", false},
		{"malformed body", strings.NewReader(`{"reason"`), -1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/bookings/b1/cancel", tt.body)
			req.ContentLength = tt.length

			var got payload
			err := DecodeOptionalJSON(req, &got)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Reason)
		})
	}
}
