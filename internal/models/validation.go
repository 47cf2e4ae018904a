package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that understands the `choice` tag used on
// enumerated product attributes.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("choice", func(fl validator.FieldLevel) bool {
		return IsChoice(fl.Param(), fl.Field().String())
	})
	return v
}

// ValidationErrors maps a JSON field name to a human readable message.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %v", map[string]string(e))
}

// ValidateStruct runs the struct tags and collects the failures as ValidationErrors.
func ValidateStruct(v *validator.Validate, s interface{}) error {
	errs, err := collect(v, s)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func collect(v *validator.Validate, s interface{}) (ValidationErrors, error) {
	errs := ValidationErrors{}
	if err := v.Struct(s); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		for _, e := range verrs {
			errs[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return errs, nil
}

// Validate checks the product against its invariants before it is persisted.
func (p *Product) Validate(v *validator.Validate) error {
	errs, err := collect(v, p)
	if err != nil {
		return err
	}
	if !p.Price.IsPositive() {
		errs["Price"] = "Price must be greater than 0"
	}
	if p.PromoPrice != nil && !p.PromoPrice.IsPositive() {
		errs["PromoPrice"] = "Promotional price must be greater than 0"
	}
	if !p.Status.Valid() {
		errs["Status"] = fmt.Sprintf("Unknown status '%s'", p.Status)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
