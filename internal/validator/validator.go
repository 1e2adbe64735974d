package validator

import (
	"errors"
	"reflect"
	"strings"

	"ecommerce/internal/usecase"

	"github.com/go-playground/validator/v10"
)

// echo.Validator 実装。タグ違反は項目ごとの400にする
type CustomValidator struct {
	v *validator.Validate
}

func New() *CustomValidator {
	v := validator.New()
	// エラーのキーはjsonタグ名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return toHTTPError(cv.v.Struct(i))
}

// 単一値のチェック（フィールド名を指定）
func (cv *CustomValidator) Var(field string, value interface{}, tag string) error {
	err := cv.v.Var(value, tag)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return usecase.FieldError(field, message(ves[0]))
	}
	return usecase.FieldError(field, "Invalid value.")
}

func toHTTPError(err error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return usecase.ValidationError(err.Error())
	}
	fields := map[string][]string{}
	for _, fe := range ves {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}
	return usecase.FieldsError(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return "Ensure this field has at least " + fe.Param() + " characters."
		}
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "max":
		if fe.Kind() == reflect.String {
			return "Ensure this field has no more than " + fe.Param() + " characters."
		}
		return "Ensure this value is less than or equal to " + fe.Param() + "."
	case "gte":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "oneof":
		return "\"" + toString(fe.Value()) + "\" is not a valid choice."
	case "e164", "numeric":
		return "Enter a valid phone number."
	}
	return "Invalid value."
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
