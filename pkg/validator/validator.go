// Package validator envuelve go-playground/validator para validar DTOs de entrada por tags.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describe un campo que no pasó la validación.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

// Errors lista de campos inválidos; implementa error.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if fe.Param != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field, fe.Tag, fe.Param))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Tag))
	}
	return "campos inválidos (" + strings.Join(parts, ", ") + ")"
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Nombres de campo según el tag json, para que el mensaje coincida con el body recibido
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct valida data según sus tags `validate`. Devuelve Errors o nil.
func Struct(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Namespace(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}
