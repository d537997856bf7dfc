// ==============================================================================
// VALIDATOR PACKAGE - pkg/validator/validator.go
// ==============================================================================
package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// customerIDPattern matches XX-XXXX-XXX groups of letters or digits, any case.
var customerIDPattern = regexp.MustCompile(`^(?i)[A-Z0-9]{2}-[A-Z0-9]{4}-[A-Z0-9]{3}$`)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := &Validator{
		validate: validator.New(),
	}
	v.registerCustomValidations()
	return v
}

// ValidateStructured returns a map of field path -> error message for API responses.
func (v *Validator) ValidateStructured(i interface{}) map[string]string {
	errs := make(map[string]string)
	if err := v.validate.Struct(i); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				errs[fieldPath(e)] = message(e)
			}
		} else {
			errs["_global"] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "customer_id":
		return "Customer id must match pattern 'XX-XXXX-XXX'"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s items", e.Param())
		}
		return fmt.Sprintf("Must be at least %s characters", e.Param())
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at most %s items", e.Param())
		}
		return fmt.Sprintf("Must be at most %s characters", e.Param())
	case "distinct_max":
		return fmt.Sprintf("Must contain at most %s distinct items", e.Param())
	case "notblank":
		return "This field cannot be blank"
	}
	return fmt.Sprintf("failed validation on '%s'", e.Tag())
}

// fieldPath drops the top-level struct name so keys read like "requests[0].customerId".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func (v *Validator) registerCustomValidations() {
	// Report JSON names in field errors.
	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Register decimal.Decimal to be validated as float64 for gt/lt checks
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := val.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.validate.RegisterValidation("customer_id", func(fl validator.FieldLevel) bool {
		return customerIDPattern.MatchString(fl.Field().String())
	})

	// distinct_max bounds a string slice by its number of distinct entries.
	_ = v.validate.RegisterValidation("distinct_max", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		field := fl.Field()
		if field.Kind() != reflect.Slice {
			return false
		}
		seen := make(map[string]struct{}, field.Len())
		for i := 0; i < field.Len(); i++ {
			seen[field.Index(i).String()] = struct{}{}
		}
		return len(seen) <= limit
	})

	_ = v.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
