// Package validate holds the input schemas of the API and turns validation
// failures into per-field messages keyed by the JSON field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var (
	phoneCleaner = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	phoneReg     = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	usernameReg  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	hasLetterReg = regexp.MustCompile(`\pL`)
	hasDigitReg  = regexp.MustCompile(`[0-9]`)
)

// Now is the clock used by date rules.
var Now = time.Now

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	must(val.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	}))
	must(val.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameReg.MatchString(fl.Field().String())
	}))
	must(val.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		pw := fl.Field().String()
		return hasLetterReg.MatchString(pw) && hasDigitReg.MatchString(pw)
	}))
	must(val.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	}))
	must(val.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, ok := dateValue(fl.Field())
		return ok
	}))
	must(val.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		d, ok := dateValue(fl.Field())
		return ok && !d.After(today())
	}))
	must(val.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
		d, ok := dateValue(fl.Field())
		return ok && !d.Before(today())
	}))

	return val
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func today() time.Time {
	now := Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// dateValue reads a YYYY-MM-DD string, an RFC 3339 string or a time.Time.
func dateValue(field reflect.Value) (time.Time, bool) {
	switch val := field.Interface().(type) {
	case time.Time:
		return time.Date(val.Year(), val.Month(), val.Day(), 0, 0, 0, 0, time.UTC), true
	case string:
		d, err := ParseDate(val)
		return d, err == nil
	}
	return time.Time{}, false
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns the
// calendar day in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

func ValidPhone(phone string) bool {
	return phoneReg.MatchString(NormalizePhone(phone))
}

// NormalizePhone strips the separators people commonly type.
func NormalizePhone(phone string) string {
	return phoneCleaner.Replace(strings.TrimSpace(phone))
}

// Struct validates input and returns field errors, or nil when valid.
func Struct(input any) map[string]string {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, exists := out[field]; exists {
			continue
		}
		out[field] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "eqfield":
		return "Passwords do not match."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "phone":
		return "Enter a valid phone number, e.g. +15551234567."
	case "username":
		return "Use only letters, digits and underscores."
	case "password":
		return "Password must include at least one letter and one digit."
	case "bcryptlen":
		return "Password is too long."
	case "date":
		return "Use the YYYY-MM-DD format."
	case "notfuture":
		return "Date cannot be in the future."
	case "notpast":
		return "Date cannot be in the past."
	}
	return "Invalid value."
}

// Merge folds extra into errs, keeping the first message per field.
func Merge(errs map[string]string, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return errs
	}
	if errs == nil {
		errs = make(map[string]string, len(extra))
	}
	for k, msg := range extra {
		if _, ok := errs[k]; !ok {
			errs[k] = msg
		}
	}
	return errs
}
