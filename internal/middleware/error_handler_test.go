package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/chelseasymphony/donations/internal/model"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid amount", fmt.Errorf("%w: \"x\"", model.ErrInvalidAmount), http.StatusBadRequest},
		{"mail dispatch", fmt.Errorf("%w: relay down", model.ErrMailDispatch), http.StatusServiceUnavailable},
		{"postback unreachable", fmt.Errorf("%w: dial tcp: i/o timeout", model.ErrUpstreamUnavailable), http.StatusServiceUnavailable},
		{"no rows", pgx.ErrNoRows, http.StatusNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"check violation", fmt.Errorf("claim: %w", &pgconn.PgError{Code: "23514"}), http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Logger(), ErrorHandler())
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(model.ErrInvalidAmount)
	})
	router.GET("/written", func(c *gin.Context) {
		c.String(http.StatusOK, "OKAY")
		_ = c.Error(errors.New("after write"))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/fail", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid amount")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/written", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OKAY", w.Body.String())
}
