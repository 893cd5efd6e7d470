package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxCommentLength bounds user-submitted comment content.
const MaxCommentLength = 1000

// ValFieldWithTag pairs a value with the validation tag to run against it.
type ValFieldWithTag struct {
	Value interface{}
	Tag   string
}

// ValidationMap maps a client-facing field name to the value and tag to
// validate it with.
type ValidationMap map[string]ValFieldWithTag

// WithTag is a convenience constructor for ValidationMap entries.
func WithTag(value interface{}, tag string) ValFieldWithTag {
	return ValFieldWithTag{Value: value, Tag: tag}
}

// ErrInvalidField reports a single failed field validation in a form clients
// can surface directly.
type ErrInvalidField struct {
	Field string
	Tag   string
}

func (e ErrInvalidField) Error() string {
	return fmt.Sprintf("invalid field %s: failed validation %s", e.Field, e.Tag)
}

// ValidateFields runs each entry of the map through the validator and returns
// the first failure encountered.
func ValidateFields(validator *validator.Validate, fields ValidationMap) error {
	for field, entry := range fields {
		if err := validator.Var(entry.Value, entry.Tag); err != nil {
			return ErrInvalidField{Field: field, Tag: entry.Tag}
		}
	}

	return nil
}

// WithCustomValidators returns a validator with our domain validations
// registered.
func WithCustomValidators() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("comment_content", CommentContentValidator)
	v.RegisterValidation("username", UsernameValidator)
	return v
}

// CommentContentValidator rejects empty, whitespace-only, and over-length
// comment content. Length is counted in runes so multibyte text isn't
// penalized.
func CommentContentValidator(f validator.FieldLevel) bool {
	content := f.Field().String()
	if strings.TrimSpace(content) == "" {
		return false
	}
	return utf8.RuneCountInString(content) <= MaxCommentLength
}

// UsernameValidator enforces the handle alphabet: letters, digits, dots,
// underscores, 2-50 chars.
func UsernameValidator(f validator.FieldLevel) bool {
	username := f.Field().String()
	if len(username) < 2 || len(username) > 50 {
		return false
	}
	for _, r := range username {
		if !isUsernameRune(r) {
			return false
		}
	}
	return true
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_':
		return true
	default:
		return false
	}
}
