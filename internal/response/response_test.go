package response

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

	"github.com/gravadigital/fring-api/internal/domain/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	cases := map[common.ErrorKind]int{
		common.KindValidation:   http.StatusBadRequest,
		common.KindUnauthorized: http.StatusUnauthorized,
		common.KindForbidden:    http.StatusForbidden,
		common.KindNotFound:     http.StatusNotFound,
		common.KindConflict:     http.StatusConflict,
		common.KindUnavailable:  http.StatusServiceUnavailable,
		common.KindInternal:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, StatusFor(kind), kind)
	}
}

func write(err error) (*httptest.ResponseRecorder, ErrorResponse) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	FromError(c, err)

	var body ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestFromErrorUsesAppErrorMessage(t *testing.T) {
	w, body := write(fmt.Errorf("loading: %w", common.NewNotFoundError("ensemble", "42")))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "ensemble 42 not found", body.Error)
	assert.Equal(t, http.StatusNotFound, body.Code)
}

func TestFromErrorHidesInternalDetails(t *testing.T) {
	w, body := write(errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body.Error)
}

func TestFromErrorUnavailableOmitsCause(t *testing.T) {
	w, body := write(common.NewUnavailableError("weather provider unavailable", errors.New("dial tcp 10.0.0.1:443")))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "weather provider unavailable", body.Error)
}

func TestSuccessResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SuccessResponse(c, http.StatusCreated, "created", gin.H{"id": 1})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"created","data":{"id":1}}`, w.Body.String())
}
