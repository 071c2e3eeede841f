package handlers

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Digits are any Unicode decimal digit; letters are ASCII only.
var passwordPattern = regexp.MustCompile(`^[A-Za-z\p{Nd}!@#$%^&*(),.?":{}|<>]{6,}$`)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// report fields by their JSON names
	v.RegisterTagNameFunc(jsonTagName)

	if err := v.RegisterValidation("password", validPassword); err != nil {
		panic(fmt.Sprintf("register password validator: %v", err))
	}
}

func jsonTagName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return sf.Name
	default:
		return name
	}
}

func validPassword(fl validator.FieldLevel) bool {
	return passwordPattern.MatchString(fl.Field().String())
}

func validateVar(value interface{}, tag string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("binding engine is %T, not *validator.Validate", binding.Validator.Engine())
	}

	return v.Var(value, tag)
}
