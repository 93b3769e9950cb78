package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		context string
		code    string
		message string
	}{
		{"record not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), "fetch bundle", ResourceNotFound, "Bundle not found"},
		{"duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "bundles_pkey"`), "create bundle", ResourceAlreadyExists, "The record already exists"},
		{"foreign key", errors.New("violates foreign key constraint"), "delete bundle", ResourceConflict, "The record is referenced by other data"},
		{"connection", errors.New("dial tcp: connection refused"), "fetch cart", InternalExternalAPI, "A backing service is unavailable, please try again later"},
		{"fallback", errors.New("boom"), "update bundle", InternalServerError, "Failed to update, please try again later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, tt.message, info.Message)
		})
	}
}

func TestParseAndRespond_DetailsOnlyOutsideRelease(t *testing.T) {
	respond := func() ErrorResponse {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		ParseAndRespond(c, http.StatusInternalServerError, errors.New("pq: password authentication failed"), "fetch bundle")

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	gin.SetMode(gin.DebugMode)
	debug := respond()
	assert.Equal(t, InternalServerError, debug.Error)
	assert.Equal(t, "pq: password authentication failed", debug.Details)

	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)
	release := respond()
	assert.Nil(t, release.Details)
	assert.NotContains(t, release.Message, "password")
}
