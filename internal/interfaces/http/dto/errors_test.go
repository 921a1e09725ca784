package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"VALIDATION", http.StatusBadRequest},
		{"BUSINESS_RULE", http.StatusUnprocessableEntity},
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"ACCOUNT_INACTIVE", http.StatusForbidden},
		{"TOKEN_EXPIRED", http.StatusUnauthorized},
		{"DELIVERY", http.StatusBadGateway},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("VALIDATION", "bad amount", "req-1")
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION", resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestNewSuccessResponseWithMeta_TotalPages(t *testing.T) {
	resp := NewSuccessResponseWithMeta(nil, 45, 2, 20)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, int64(45), resp.Meta.Total)
}
