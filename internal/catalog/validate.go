package catalog

import (
	"errors"
	"reflect"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal dibandingkan sebagai float untuk tag gt/gte.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Normalize trims text fields in place.
func (in *ProductInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Image = strings.TrimSpace(in.Image)
	in.Description = strings.TrimSpace(in.Description)
}

// Validate reports the first invalid field as an *apperr.ValidationError.
func (in ProductInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) || len(fes) == 0 {
		return apperr.Invalid("", err.Error())
	}
	fe := fes[0]
	return apperr.Invalid(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "gt":
		return "harus lebih dari " + fe.Param()
	case "max":
		return "maksimal " + fe.Param() + " karakter"
	case "url":
		return "harus berupa URL lengkap (https://...)"
	default:
		return "tidak valid"
	}
}
