// Package inputval provides request payload validation using
// waffle/pantry/validate.
//
// Define an input struct with `validate` tags and optional `label` tags,
// populate it from the decoded request body, and call Validate to get
// user-friendly error messages.
//
// Example:
//
//	type SetProfileInput struct {
//	    Username    string `json:"username" validate:"required,username" label:"Username"`
//	    AccentColor string `json:"accent_color" validate:"hexcolor" label:"Accent color"`
//	}
package inputval

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/validate"
)

// Result holds validation results with user-friendly messages.
type Result struct {
	Errors []FieldError
}

// FieldError represents a validation error for a single field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or empty string if no errors.
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// Fields returns errors keyed by field name, for JSON error responses.
func (r *Result) Fields() map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	fields := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, ok := fields[e.Field]; !ok {
			fields[e.Field] = e.Message
		}
	}
	return fields
}

var (
	customValidator *validate.Validator
	validatorOnce   sync.Once
)

// getValidator returns the singleton validator with custom rules registered.
func getValidator() *validate.Validator {
	validatorOnce.Do(func() {
		customValidator = validate.New(validate.WithStopOnFirstError())

		// username: public handle, used in the public projection URL
		customValidator.RegisterRuleFunc("username", func(value any) bool {
			if s, ok := value.(string); ok {
				return IsValidUsername(s)
			}
			return false
		}, "username")

		// httpurl: valid http:// or https:// URL
		customValidator.RegisterRuleFunc("httpurl", func(value any) bool {
			if s, ok := value.(string); ok {
				return s == "" || IsValidHTTPURL(s)
			}
			return false
		}, "httpurl")

		// hexcolor: CSS hex color like #1a2b3c or #fff
		customValidator.RegisterRuleFunc("hexcolor", func(value any) bool {
			if s, ok := value.(string); ok {
				return s == "" || IsValidHexColor(s)
			}
			return false
		}, "hexcolor")
	})
	return customValidator
}

// Validate validates a struct and returns a Result with user-friendly errors.
//
// Supported rules from pantry/validate include required, oneof=a b c, min=N,
// and max=N. This package registers three custom rules: username, httpurl,
// and hexcolor.
func Validate(s any) *Result {
	result := &Result{}

	v := getValidator()
	err := v.Struct(s)
	if err == nil {
		return result
	}

	labels := getFieldLabels(s)

	if errs, ok := err.(validate.Errors); ok {
		for _, e := range errs {
			label := labels[e.Field]
			if label == "" {
				label = e.Field
			}

			result.Errors = append(result.Errors, FieldError{
				Field:   e.Field,
				Label:   label,
				Message: formatMessage(label, e.Rule, e.Param),
			})
		}
	}

	return result
}

// getFieldLabels extracts the "label" tag from struct fields, keyed by the
// json field name when one is present.
func getFieldLabels(s any) map[string]string {
	labels := make(map[string]string)

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return labels
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		fieldName := field.Name
		if jsonTag := field.Tag.Get("json"); jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" && parts[0] != "-" {
				fieldName = parts[0]
			}
		}

		if label := field.Tag.Get("label"); label != "" {
			labels[fieldName] = label
		}
	}

	return labels
}

// formatMessage creates a user-friendly message for a validation rule.
func formatMessage(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " is required."
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " must be at least " + param + " characters."
	case "max":
		return label + " must be at most " + param + " characters."
	case "username":
		return label + " must be 3-32 characters: lowercase letters, digits, hyphens, or underscores."
	case "httpurl":
		return label + " must be a valid URL starting with http:// or https://."
	case "hexcolor":
		return label + " must be a hex color like #1a2b3c."
	default:
		return label + " is invalid."
	}
}

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,31}$`)
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// IsValidUsername reports whether s is an acceptable public handle:
// 3-32 characters, lowercase letters, digits, hyphens, or underscores,
// starting with a letter or digit.
func IsValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// IsValidHexColor reports whether s is a 3- or 6-digit CSS hex color.
func IsValidHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// IsValidHTTPURL reports whether s parses as an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
