package contact

import (
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Digits with the usual separators, an optional leading plus and an
// optional extension ("x 12", "ext. 12").
var phonePattern = regexp.MustCompile(`^\+?[0-9 ().\-]*[0-9][0-9 ().\-]*( *(x|ext\.?) *[0-9]+)?$`)

var formats = newFormatValidator()

// Rule describes the constraints of a single contact field.
type Rule struct {
	Field     string
	Label     string
	Required  bool
	MaxLength int
	// Format is a validator tag checked when the value is not empty.
	Format string

	RequiredMessage string
	FormatMessage   string

	value func(Contact) string
}

// Rules lists the field constraints in form order.
var Rules = []Rule{
	{
		Field:           "firstName",
		Label:           "First name",
		Required:        true,
		MaxLength:       50,
		RequiredMessage: "Please enter a first name.",
		value:           func(c Contact) string { return c.FirstName },
	},
	{
		Field:           "lastName",
		Label:           "Last name",
		Required:        true,
		MaxLength:       50,
		RequiredMessage: "Please enter a last name.",
		value:           func(c Contact) string { return c.LastName },
	},
	{
		Field:           "phone",
		Label:           "Phone",
		Required:        true,
		MaxLength:       20,
		Format:          "phone",
		RequiredMessage: "Please enter a phone number.",
		FormatMessage:   "Please enter a valid phone number.",
		value:           func(c Contact) string { return c.Phone },
	},
	{
		Field:           "email",
		Label:           "Email",
		Required:        true,
		MaxLength:       100,
		Format:          "email",
		RequiredMessage: "Please enter an email address.",
		FormatMessage:   "Please enter a valid email address.",
		value:           func(c Contact) string { return c.Email },
	},
	{
		Field:     "organization",
		Label:     "Organization",
		MaxLength: 50,
		value:     func(c Contact) string { return c.Organization },
	},
}

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

// ValidationError carries one message per failing field.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "contact: validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidContact
}

// Validate checks c against Rules. It returns nil or a *ValidationError.
func (c Contact) Validate() error {
	fields := FieldErrors{}
	for _, rule := range Rules {
		if msg := rule.check(rule.value(c)); msg != "" {
			fields[rule.Field] = msg
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Normalize trims surrounding whitespace from every field.
func (c Contact) Normalize() Contact {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Organization = strings.TrimSpace(c.Organization)
	return c
}

func (r Rule) check(value string) string {
	if strings.TrimSpace(value) == "" {
		if r.Required {
			return r.RequiredMessage
		}
		return ""
	}

	if r.MaxLength > 0 && utf8.RuneCountInString(value) > r.MaxLength {
		return fmt.Sprintf("%s must be at most %d characters.", r.Label, r.MaxLength)
	}

	if r.Format != "" && formats.Var(value, r.Format) != nil {
		return r.FormatMessage
	}

	return ""
}

func newFormatValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", validatePhone)
	return v
}

func validatePhone(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	value := strings.TrimSpace(fl.Field().String())
	return phonePattern.MatchString(value)
}
