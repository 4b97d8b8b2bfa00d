package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type quantityPayload struct {
	Quantity string `json:"quantity" binding:"required,decimal"`
}

func TestSetupValidatorDecimalTag(t *testing.T) {
	SetupValidator()

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var payload quantityPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name string
		body string
		want int
	}{
		{"valid integer", `{"quantity":"3"}`, http.StatusOK},
		{"valid fraction", `{"quantity":"0.25"}`, http.StatusOK},
		{"valid negative", `{"quantity":"-1.5"}`, http.StatusOK},
		{"not a number", `{"quantity":"three"}`, http.StatusBadRequest},
		{"empty string", `{"quantity":""}`, http.StatusBadRequest},
		{"missing field", `{}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}
