package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/blog-api/internal/domain/entity"
)

// Init configures the validator behind gin's binding: JSON field names in
// errors plus the password and role tags backed by the domain rules.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs the custom tags on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return entity.ValidatePassword(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := entity.ParseRole(fl.Field().String())
		return err == nil
	})
	v.RegisterAlias("nonzero", "required")
	// Tags on an OptionalString apply to its value; a null validates as empty.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		o, ok := f.Interface().(entity.OptionalString)
		if !ok || o.Value == nil {
			return ""
		}
		return *o.Value
	}, entity.OptionalString{})
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required", "nonzero":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "url", "http_url":
		return "must be a valid URL"
	case "password":
		return entity.ErrWeakPassword.Error()
	case "role":
		return entity.ErrInvalidRole.Error()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "min":
		if isLengthKind(fe.Kind()) {
			return "must be at least " + param + " characters"
		}
		return "must be at least " + param
	case "max":
		if isLengthKind(fe.Kind()) {
			return "must be at most " + param + " characters"
		}
		return "must be at most " + param
	case "len":
		return "must be exactly " + param + " characters"
	case "containsany":
		return "must contain at least one of: " + param
	case "excludesall":
		return "must not contain any of: " + param
	default:
		if param != "" {
			return "failed " + fe.Tag() + "=" + param
		}
		return "is invalid (" + fe.Tag() + ")"
	}
}

func isLengthKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
