// Package validate holds the acceptance rules for player, weapon and round records.
// Checks are pure and report every failing field in a fixed order.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"valorant-stats/internal/domain"

	"github.com/go-playground/validator/v10"
)

// engine caches struct metadata and is safe for concurrent use.
var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	if err := v.RegisterValidation("teamcolor", teamColorValidator); err != nil {
		panic(err)
	}
	return v
}

// fieldName reports fields by their camelCase wire name.
func fieldName(f reflect.StructField) string {
	if f.Name == "" {
		return ""
	}
	return strings.ToLower(f.Name[:1]) + f.Name[1:]
}

func teamColorValidator(fl validator.FieldLevel) bool {
	color, ok := fl.Field().Interface().(domain.TeamColor)
	return ok && color.Valid()
}

// check runs the struct's validate tags. Field errors come back in declaration
// order; anything else is a programming error and is returned as is.
func check(v any) (domain.ValidationErrors, error) {
	err := engine.Struct(v)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toValidationError(fe))
	}
	return out, nil
}

func toValidationError(fe validator.FieldError) *domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return domain.NewValidationError(field, domain.MissingField, "must not be empty")
	case "teamcolor":
		return domain.NewValidationError(field, domain.UnknownTeamColor, "%q is not green or red", fe.Value())
	case "gte":
		return domain.NewValidationError(field, domain.FieldOutOfRange, "%v is below %s", fe.Value(), fe.Param())
	case "lte":
		return domain.NewValidationError(field, domain.FieldOutOfRange, "%v is above %s", fe.Value(), fe.Param())
	case "max":
		return domain.NewValidationError(field, domain.LengthExceeded,
			"%d entries exceeds the maximum of %s", reflect.ValueOf(fe.Value()).Len(), fe.Param())
	default:
		return domain.NewValidationError(field, domain.InvalidField, "failed %s check", fe.Tag())
	}
}

// prefixed qualifies each field with the owning record, e.g. "green_Jett.kills".
func prefixed(errs domain.ValidationErrors, prefix string) domain.ValidationErrors {
	out := make(domain.ValidationErrors, len(errs))
	for i, e := range errs {
		out[i] = &domain.ValidationError{Field: prefix + "." + e.Field, Kind: e.Kind, Reason: e.Reason}
	}
	return out
}
