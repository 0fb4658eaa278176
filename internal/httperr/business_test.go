package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBusinessUnwraps(t *testing.T) {
	err := fmt.Errorf("create: %w", ErrConflict("time_conflict"))

	assert.True(t, IsBusiness(err, "time_conflict"))
	assert.False(t, IsBusiness(err, "too_soon"))

	be, ok := AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, KindConflict, be.Kind)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestFromErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", ErrNotFound("service_not_found"), http.StatusNotFound, "service_not_found"},
		{"conflict", ErrConflict("time_conflict"), http.StatusConflict, "time_conflict"},
		{"validation", ErrValidation("invalid_date"), http.StatusBadRequest, "invalid_date"},
		{"internal", errors.New("db down"), http.StatusInternalServerError, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err, "fallback")

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"error_code":"`+tt.code+`"`)
		})
	}
}
