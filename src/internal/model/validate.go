package model

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a single field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var clockTimeRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report errors against JSON field names, not Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		for _, d := range Weekdays {
			if fl.Field().String() == d {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		return clockTimeRegex.MatchString(fl.Field().String())
	})
	return v
}

// ValidateActivity checks the shape of a full activity record. Status and
// ownership are not its concern; those belong to the workflow and the policy.
func ValidateActivity(a Activity) error {
	if err := runValidator(a); err != nil {
		return err
	}
	sh, sm := splitClockTime(a.StartTime)
	eh, em := splitClockTime(a.EndTime)
	// Compare decomposed (hour, minute) pairs. String comparison would order
	// "9:00" after "10:00".
	if eh < sh || (eh == sh && em <= sm) {
		return ValidationError{Field: "end_time", Reason: "must be later than start_time"}
	}
	return nil
}

// ValidateAnnouncement checks the shape of a full announcement record.
func ValidateAnnouncement(a Announcement) error {
	return runValidator(a)
}

func runValidator(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return ValidationError{Field: "", Reason: err.Error()}
	}
	first := errs[0]
	return ValidationError{Field: first.Field(), Reason: reasonFor(first)}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "weekday":
		return "is not a valid weekday"
	case "clocktime":
		return "must match HH:MM (24h)"
	}
	return "is invalid"
}

func splitClockTime(s string) (hour, minute int) {
	parts := strings.SplitN(s, ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	if len(parts) == 2 {
		minute, _ = strconv.Atoi(parts[1])
	}
	return hour, minute
}
