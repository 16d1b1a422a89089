package transferdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/money-transfer/internal/domain"
)

// ValidConcurrencyMode validates whether the mode names a known strategy.
var ValidConcurrencyMode validator.Func = func(fl validator.FieldLevel) bool {
	if mode, ok := fl.Field().Interface().(string); ok {
		return domain.IsSupportedMode(mode)
	}
	return false
}
