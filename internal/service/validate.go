package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"corpsite/internal/domain"
)

var validate = newValidator()

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{5,19}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		return domain.IsLocale(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// fieldPath turns "BlogInput.translations[en].title" into "translations.en.title".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	ns = strings.NewReplacer("[", ".", "]", "").Replace(ns)
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid url"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "locale":
		return "unsupported locale"
	case "phone":
		return "must be a valid phone number"
	case "gt", "gte", "lt", "lte":
		return "is out of range"
	}
	return "is invalid"
}

// validateStruct runs struct tags and returns a *ValidationError keyed by JSON path.
func validateStruct(v any) *ValidationError {
	ve := &ValidationError{}
	err := validate.Struct(v)
	if err == nil {
		return ve
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		ve.Add("_", err.Error())
		return ve
	}
	for _, fe := range errs {
		ve.Add(fieldPath(fe.Namespace()), message(fe))
	}
	return ve
}
