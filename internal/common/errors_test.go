package common

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "not found", err: ErrNotFound, want: http.StatusNotFound},
		{name: "unauthorized", err: ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "forbidden", err: ErrForbidden, want: http.StatusForbidden},
		{name: "bad request", err: ErrBadRequest, want: http.StatusBadRequest},
		{name: "validation", err: ErrValidation, want: http.StatusBadRequest},
		{name: "conflict", err: ErrConflict, want: http.StatusConflict},
		{name: "upstream", err: ErrUpstream, want: http.StatusBadGateway},
		{name: "wrapped upstream", err: fmt.Errorf("check failed: %w", ErrUpstream), want: http.StatusBadGateway},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: http.StatusConflict},
		{name: "unknown", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromError(tt.err))
		})
	}
}
