// Package validation содержит проверки входных данных форм.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var vpaPattern = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Registration содержит поля формы регистрации.
type Registration struct {
	Name     string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// CourseInput содержит обязательные поля формы создания курса.
type CourseInput struct {
	Title    string `validate:"notblank"`
	Price    int64  `validate:"gt=0"`
	Password string `validate:"required"`
}

// PaymentSubmission содержит поля формы подтверждения оплаты.
type PaymentSubmission struct {
	TransactionID string `validate:"notblank"`
}

// FieldError описывает список полей, не прошедших проверку.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// Struct проверяет структуру по тегам validate и возвращает *FieldError со списком полей.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &FieldError{Fields: fields}
}

// IsValidVPA проверяет формат платёжного адреса UPI (имя@банк).
func IsValidVPA(vpa string) bool {
	return vpaPattern.MatchString(vpa)
}
