package apperror

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestFormatFieldName(t *testing.T) {
	assert.Equal(t, "Pay Period", formatFieldName("payPeriod"))
	assert.Equal(t, "Pay Period", formatFieldName("pay_period"))
	assert.Equal(t, "Note", formatFieldName("note"))
}

func TestMapValidationError(t *testing.T) {
	type request struct {
		Note   string `json:"note" validate:"required"`
		Status string `json:"status" validate:"omitempty,oneof=DRAFT LOCKED"`
		Hours  int    `json:"hoursWorked" validate:"min=1"`
	}

	v := validator.New()
	v.RegisterTagNameFunc(jsonName)

	t.Run("required", func(t *testing.T) {
		err := MapValidationError(v.Struct(request{Hours: 1}))
		assert.EqualError(t, err, "Note is required")
	})

	t.Run("oneof", func(t *testing.T) {
		err := MapValidationError(v.Struct(request{Note: "x", Status: "PAID", Hours: 1}))
		assert.EqualError(t, err, "Status must be one of [DRAFT LOCKED]")
	})

	t.Run("min", func(t *testing.T) {
		err := MapValidationError(v.Struct(request{Note: "x"}))
		assert.EqualError(t, err, "Hours Worked must be at least 1")
	})

	t.Run("not a validation error", func(t *testing.T) {
		err := MapValidationError(errors.New("EOF"))
		var appErr *AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, CodeValidation, appErr.Code)
	})
}
