package validator

import (
	"railbook/pkg/logger"
	"railbook/pkg/model"
	"railbook/pkg/validation"
	"strings"

	"github.com/go-playground/validator/v10"
)

type AccountValidator struct {
	validate *validator.Validate
}

func NewAccountValidator(log *logger.Logger) *AccountValidator {
	return &AccountValidator{validate: validation.New(log)}
}

func (v *AccountValidator) ValidateRegistration(reg *model.Registration) error {
	if err := validation.Struct(v.validate, reg); err != nil {
		return err
	}

	if strings.EqualFold(reg.Password, reg.UserName) {
		return validation.ValidationErrors{{
			Field:   "password",
			Message: "password must differ from user_name",
		}}
	}

	return nil
}

func (v *AccountValidator) ValidateLogin(req *model.LoginRequest) error {
	return validation.Struct(v.validate, req)
}
