package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

var validate = validator.New()

// checkInput валидирует структуру запроса и превращает нарушения
// в человеко-читаемую ошибку на языке исходного приложения.
func checkInput(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	var msgs []string
	for _, ve := range errs {
		switch ve.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("el campo %s es obligatorio", ve.Field()))
		case "email":
			msgs = append(msgs, "el email no es válido")
		case "min":
			if ve.Field() == "Password" {
				msgs = append(msgs, "La contraseña debe tener al menos 6 caracteres")
			} else {
				msgs = append(msgs, fmt.Sprintf("el campo %s es demasiado corto", ve.Field()))
			}
		case "eqfield":
			msgs = append(msgs, "Las contraseñas no coinciden")
		default:
			msgs = append(msgs, fmt.Sprintf("el campo %s no es válido", ve.Field()))
		}
	}
	return errors.New(strings.Join(msgs, ", "))
}
