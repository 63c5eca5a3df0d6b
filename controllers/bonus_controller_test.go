package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestValidator struct {
	validator *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &requestValidator{validator: validator.New()}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/bonus/matching", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestResolveWindow_EmptyBodyUsesLastClosedWindow(t *testing.T) {
	c, _ := newTestContext(t, "")

	window, err := resolveWindow(c)

	require.NoError(t, err)
	assert.True(t, window.End.Before(time.Now()), "default window must already be closed")
}

func TestResolveWindow_MalformedBodyFails(t *testing.T) {
	c, _ := newTestContext(t, `{"date": 123}`)

	_, err := resolveWindow(c)

	assert.Error(t, err)
}

func TestResolveWindow_Backfill(t *testing.T) {
	c, _ := newTestContext(t, `{"date": "2024-03-10", "slot": "pm"}`)

	window, err := resolveWindow(c)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC), window.Start)
}

func TestResolveWindow_InvalidDateRejected(t *testing.T) {
	c, _ := newTestContext(t, `{"date": "10-03-2024"}`)

	_, err := resolveWindow(c)

	assert.Error(t, err)
}

// A malformed body must surface as a 400 instead of silently running the
// pass against a default window.
func TestRunMatchingBonus_MalformedBodyReturnsBadRequest(t *testing.T) {
	bc := NewBonusController(nil, nil, nil)
	c, rec := newTestContext(t, `{"date": 123}`)

	err := bc.RunMatchingBonus(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
