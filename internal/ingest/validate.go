package ingest

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rshade/carbonwise/internal/greenops"
)

// recordValidate checks RunRecord and RegionFactor struct tags.
// Initialized in init() with the custom "finite" tag.
var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names rather than Go field names.
	recordValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = recordValidate.RegisterValidation("finite", validateFinite)
}

// validateFinite rejects NaN and ±Inf.
func validateFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		v := fl.Field().Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	default:
		return true
	}
}

// ValidateRunRecord reports the first problem with r, or nil.
func ValidateRunRecord(r greenops.RunRecord) error {
	return describe(recordValidate.Struct(r))
}

// ValidateRegionFactor reports the first problem with f, or nil.
func ValidateRegionFactor(f greenops.RegionFactor) error {
	return describe(recordValidate.Struct(f))
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return fmt.Errorf("%w: field %s failed %s=%s (value %v)",
			ErrInvalidRecord, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%w: field %s failed %s (value %v)", ErrInvalidRecord, fe.Field(), fe.Tag(), fe.Value())
}
