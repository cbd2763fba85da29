package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/domain"
)

// respond escribe el sobre {success:true, message, data}.
func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// fail escribe el sobre {success:false, code, message}.
func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.APIResponse{Success: false, Code: code, Message: message})
}

// respondError traduce errores de dominio a HTTP:
// no encontrado 404; validación y reglas de negocio 400; auth 401/403; el resto 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusBadRequest, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return fail(c, fiber.StatusBadRequest, "INVALID_TRANSACTION_TYPE", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusBadRequest, "DUPLICATE", err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusBadRequest, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", GetRequestID(c)).
		Msg("error interno")
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno del servidor")
}

// ErrorHandler es el fiber.Config.ErrorHandler de la app: errores de Fiber (404 de ruta, body
// demasiado grande) con su status, el resto pasa por respondError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fail(c, fe.Code, strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(fe.Code), " ", "_")), fe.Message)
	}
	return respondError(c, err)
}

// parseDateRange lee ?from=&to= (RFC3339 o YYYY-MM-DD). Una fecha sin hora en "to" cubre el día completo.
// present=false si no se envió ninguno de los dos.
func parseDateRange(c *fiber.Ctx) (from, to time.Time, present bool, err error) {
	var q dto.DateRangeQuery
	if err := c.QueryParser(&q); err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: query inválido", domain.ErrInvalidInput)
	}
	q.From, q.To = strings.TrimSpace(q.From), strings.TrimSpace(q.To)
	if q.From == "" && q.To == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if q.From == "" || q.To == "" {
		return time.Time{}, time.Time{}, true, fmt.Errorf("%w: from y to van juntos", domain.ErrInvalidInput)
	}
	from, _, err = parseDate(q.From)
	if err != nil {
		return time.Time{}, time.Time{}, true, err
	}
	to, dateOnly, err := parseDate(q.To)
	if err != nil {
		return time.Time{}, time.Time{}, true, err
	}
	if dateOnly {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, true, nil
}

func parseDate(s string) (t time.Time, dateOnly bool, err error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: fecha %q (use RFC3339 o YYYY-MM-DD)", domain.ErrInvalidInput, s)
}
