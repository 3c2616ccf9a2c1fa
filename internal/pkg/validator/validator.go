package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonTagName)

	// gin binds request bodies with its own engine; it must report the same field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return Translate(err)
}

// Translate turns a binding or validation error into field level messages.
func Translate(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			if _, seen := out[fe.Field()]; !seen {
				out[fe.Field()] = message(fe)
			}
		}
		return out
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return map[string]string{"body": "Request body is too large"}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string]string{typeErr.Field: fmt.Sprintf("Expected %s", typeErr.Type.Kind())}
	}

	return map[string]string{"body": "Invalid JSON body"}
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return "Invalid email address"
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s%s", label, fe.Param(), unit(fe))
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s%s", label, fe.Param(), unit(fe))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func unit(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		if fe.Param() == "1" {
			return " item"
		}
		return " items"
	default:
		return ""
	}
}

// humanize turns "categoryId" into "Category id".
func humanize(field string) string {
	if field == "" {
		return "Value"
	}
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		if i == 0 && r >= 'a' && r <= 'z' {
			b.WriteRune(r - ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
