package handlers

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

	"github.com/Seimmet/dolcie-salon/internal/httperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(err error) (int, map[string]string) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeError(c, err)

	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestWriteError(t *testing.T) {
	code, body := render(fmt.Errorf("reserve: %w", httperr.ErrSlotNoLongerAvailable))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, httperr.CodeSlotNoLongerAvailable, body["error_code"])
	assert.Equal(t, messages[httperr.CodeSlotNoLongerAvailable], body["message"])

	code, body = render(gorm.ErrRecordNotFound)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, httperr.CodeNotFound, body["error_code"])

	code, body = render(errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal_error", body["error_code"])
	assert.NotContains(t, body["message"], "connection reset")
}

func TestIDParam(t *testing.T) {
	for _, tc := range []struct {
		raw string
		ok  bool
	}{
		{"12", true},
		{"0", false},
		{"-1", false},
		{"abc", false},
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: tc.raw}}

		id, ok := idParam(c, "id")
		require.Equal(t, tc.ok, ok, tc.raw)
		if ok {
			assert.Equal(t, uint(12), id)
		} else {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}

func TestOptionalUint(t *testing.T) {
	v, ok := optionalUint("")
	assert.True(t, ok)
	assert.Nil(t, v)

	v, ok = optionalUint("7")
	require.True(t, ok)
	assert.Equal(t, uint(7), *v)

	_, ok = optionalUint("x")
	assert.False(t, ok)
}
