// Package validation wires custom rules into Gin's binding engine and turns
// validator failures into the structured field-error list returned in 400 bodies.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/william-rossi/pontocarro-api/internal/apperror"
)

// passwordSymbols is the fixed set of accepted password symbols.
const passwordSymbols = "!@#$%^&*()-_=+[]{};:,.<>?"

// RegisterCustomValidators installs the strongpassword and phonebr rules on
// Gin's shared validator. Call once at startup before binding any request.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator engine unavailable")
	}
	if err := v.RegisterValidation("strongpassword", validStrongPassword); err != nil {
		return err
	}
	return v.RegisterValidation("phonebr", validPhoneBR)
}

// validStrongPassword enforces 8-50 chars with at least one uppercase letter,
// one lowercase letter, one digit and one symbol from the fixed set.
func validStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 || len(password) > 50 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// validPhoneBR accepts 10 or 11 digit phone numbers, digits only.
func validPhoneBR(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if len(phone) != 10 && len(phone) != 11 {
		return false
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// AsAppError converts a binding error into a ValidationError carrying the
// field-path + message list. Non-validator errors (malformed JSON) become a
// single-message bad request.
func AsAppError(err error) *apperror.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   fieldPath(fe),
				Message: messageFor(fe),
			})
		}
		return apperror.NewValidation("Dados inválidos", fields)
	}
	return apperror.NewBadRequest("Corpo da requisição inválido")
}

// fieldPath strips the struct name and lowercases the leading segment so the
// path matches the JSON shape (e.g. "announcerEmail", not "CreateVehicleRequest.AnnouncerEmail").
func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx != -1 {
		path = path[idx+1:]
	}
	if path == "" {
		return fe.Field()
	}
	return strings.ToLower(path[:1]) + path[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório"
	case "email":
		return "E-mail inválido"
	case "min":
		return fmt.Sprintf("Valor mínimo: %s", fe.Param())
	case "max":
		return fmt.Sprintf("Valor máximo: %s", fe.Param())
	case "strongpassword":
		return "A senha deve ter entre 8 e 50 caracteres, com ao menos uma letra maiúscula, uma minúscula, um número e um símbolo"
	case "phonebr":
		return "Telefone deve conter 10 ou 11 dígitos numéricos"
	default:
		return fmt.Sprintf("Valor inválido (%s)", fe.Tag())
	}
}
