package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the board's value tags
// (item_status, item_priority, item_deadline) registered
func New() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)

	_ = v.RegisterValidation("item_status", parsesAs(func(s string) error {
		_, err := entities.ParseStatus(s)
		return err
	}))
	_ = v.RegisterValidation("item_priority", parsesAs(func(s string) error {
		_, err := entities.ParsePriority(s)
		return err
	}))
	_ = v.RegisterValidation("item_deadline", parsesAs(func(s string) error {
		_, err := entities.ParseDeadline(s)
		return err
	}))

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// FailedField returns the wire name of the first field that failed validation
func FailedField(err error) (string, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), true
	}
	return "", false
}

// fieldName reports fields by their json or query name
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "query", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func parsesAs(parse func(string) error) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return parse(fl.Field().String()) == nil
	}
}
