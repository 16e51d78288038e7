package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// IsPhone 是一个自定义的校验函数，用于验证电话号码格式
func IsPhone(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(fl.Field().String())
}
