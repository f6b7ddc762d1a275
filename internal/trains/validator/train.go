package validator

import (
	"railbook/pkg/logger"
	"railbook/pkg/model"
	"railbook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type TrainValidator struct {
	validate *validator.Validate
}

func NewTrainValidator(log *logger.Logger) *TrainValidator {
	return &TrainValidator{validate: validation.New(log)}
}

func (v *TrainValidator) Validate(train *model.TrainSchedule) error {
	return validation.Struct(v.validate, train)
}
