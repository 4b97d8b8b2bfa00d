package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := map[string]int{
		"NOT_FOUND":            http.StatusNotFound,
		"ALREADY_EXISTS":       http.StatusConflict,
		"INSUFFICIENT_STOCK":   http.StatusUnprocessableEntity,
		"INSUFFICIENT_PAYMENT": http.StatusUnprocessableEntity,
		"EMPTY_CART":           http.StatusUnprocessableEntity,
		"INVALID_TRANSITION":   http.StatusUnprocessableEntity,
		"STORE_FAILURE":        http.StatusInternalServerError,
		"INVALID_QUANTITY":     http.StatusBadRequest,
		"INVALID_COST":         http.StatusBadRequest,
		"BAD_REQUEST":          http.StatusBadRequest,
		"SOMETHING_UNKNOWN":    http.StatusInternalServerError,
	}

	for code, expected := range tests {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, expected, GetHTTPStatus(code))
		})
	}
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := []map[string]string{{"item_id": "abc"}}
	resp := NewErrorResponseWithDetails("INSUFFICIENT_STOCK", "Insufficient stock available", details)

	assert.False(t, resp.Success)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
