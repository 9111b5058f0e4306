package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

func ReadJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// FieldError describes the first failing rule of a validated struct.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (e *FieldError) Error() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("field %s is required", e.Field)
	case "len":
		return fmt.Sprintf("field %s must be exactly %s characters", e.Field, e.Param)
	case "min":
		return fmt.Sprintf("field %s must be at least %s", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("field %s must be at most %s", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("field %s must be one of [%s]", e.Field, e.Param)
	case "alphanum":
		return fmt.Sprintf("field %s must be alphanumeric", e.Field)
	default:
		return fmt.Sprintf("field %s failed rule %s", e.Field, e.Rule)
	}
}

// Validate runs the `validate` struct tags of v.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()}
	}
	return err
}
