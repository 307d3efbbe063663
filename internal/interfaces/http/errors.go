package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/gofiber/fiber/v2"

	"github.com/jeffperkel/CPG-POD-TEST/internal/application/dto"
	"github.com/jeffperkel/CPG-POD-TEST/internal/domain"
)

// errorMapping traduce un error de dominio al status HTTP y al código de la respuesta.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidFormat, fiber.StatusBadRequest, "INVALID_FORMAT"},
	{domain.ErrInsufficientPODs, fiber.StatusConflict, "INSUFFICIENT_PODS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrStorage, fiber.StatusServiceUnavailable, "STORAGE"},
	{domain.ErrAIUnavailable, fiber.StatusServiceUnavailable, "AI_UNAVAILABLE"},
}

// writeError responde con dto.ErrorResponse según el sentinel que envuelve err.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, panics recuperados, body demasiado grande).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "INTERNAL"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = "PAYLOAD_TOO_LARGE"
		case fiber.StatusBadRequest:
			code = "INVALID_BODY"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}

// invalidBody responde al fallo de BodyParser. Un campo con tipo incorrecto es un error de validación con su nombre.
func invalidBody(c *fiber.Ctx, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return badRequest(c, "VALIDATION", fmt.Sprintf("campo '%s' inválido: se esperaba %s, se recibió %s", typeErr.Field, expectedKind(typeErr), typeErr.Value))
	}
	return badRequest(c, "INVALID_BODY", "cuerpo de la petición inválido")
}

func expectedKind(e *json.UnmarshalTypeError) string {
	switch e.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "un entero"
	case reflect.String:
		return "un texto"
	case reflect.Bool:
		return "un booleano"
	default:
		return e.Type.String()
	}
}
