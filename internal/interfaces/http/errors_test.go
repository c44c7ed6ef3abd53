package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/pkg/logger"
	"github.com/jhoicas/pdv-api/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.Nop())})
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, err) })
	return app
}

func call(t *testing.T, app *fiber.App) (int, dto.ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: producto x", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{fmt.Errorf("sales.create: %w", domain.ErrInsufficientStock), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrPaymentMismatch, http.StatusUnprocessableEntity, "PAYMENT_MISMATCH"},
		{domain.ErrSessionAlreadyOpen, http.StatusConflict, "SESSION_ALREADY_OPEN"},
		{domain.ErrSessionClosed, http.StatusConflict, "SESSION_CLOSED"},
		{domain.ErrJustificationRequired, http.StatusBadRequest, "JUSTIFICATION_REQUIRED"},
		{fmt.Errorf("%w: products_sku_key", domain.ErrDuplicate), http.StatusConflict, "DUPLICATE"},
		{domain.ErrReferenced, http.StatusConflict, "REFERENCED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		status, body := call(t, errorApp(tc.err))
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, body.Code)
		assert.Equal(t, tc.err.Error(), body.Message)
	}
}

func TestWriteError_Validacion(t *testing.T) {
	status, body := call(t, errorApp(&validate.Error{Fields: map[string]string{"quantity": "debe ser mayor que 0"}}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "debe ser mayor que 0", body.Fields["quantity"])
}

func TestErrorHandler_Desconocido500(t *testing.T) {
	status, body := call(t, errorApp(errors.New("conexión perdida")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "conexión")
}

func TestErrorHandler_FiberError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.Nop())})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/no-existe", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
