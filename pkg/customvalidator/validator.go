package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"project-system/pkg/constants"
)

// RegisterCustomValidations регистрирует доменные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("priority_value", isKnownPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("steady_status", isSteadyStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("iso_date", isISODate); err != nil {
		return err
	}
	return nil
}

// Приоритеты хранятся персидскими литералами, oneof с ними не работает надёжно.
func isKnownPriority(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constants.PriorityLow, constants.PriorityMedium, constants.PriorityHigh:
		return true
	}
	return false
}

// steady_status допускает только устойчивые статусы: промежуточный
// "ارسال برای تایید" нельзя ни запросить, ни выставить напрямую.
func isSteadyStatus(fl validator.FieldLevel) bool {
	return constants.IsSteadyStatus(fl.Field().String())
}

var isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func isISODate(fl validator.FieldLevel) bool {
	return isoDateRegex.MatchString(fl.Field().String())
}
