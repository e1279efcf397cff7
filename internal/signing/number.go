package signing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var numberPattern = regexp.MustCompile(`^-?\d*\.?\d+$`)

// NumberHandler implements the NUMBER field type.
type NumberHandler struct{}

func (h *NumberHandler) Type() FieldType     { return FieldTypeNumber }
func (h *NumberHandler) Placeholder() string { return "Number" }

// Validate checks the numeric pattern, then the meta constraints: character
// limit, min/max bounds, and decimal places. Input past the limit is
// rejected, not truncated.
func (h *NumberHandler) Validate(f *Field, value string) error {
	if limit := f.Meta.CharacterLimit; limit > 0 && len(value) > limit {
		return validationErrorf("number exceeds the %d character limit", limit)
	}
	if !numberPattern.MatchString(value) {
		return validationErrorf("%q is not a valid number", value)
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return validationErrorf("%q is not a valid number", value)
	}
	if f.Meta.MinValue != nil && n < *f.Meta.MinValue {
		return validationErrorf("value must be at least %v", *f.Meta.MinValue)
	}
	if f.Meta.MaxValue != nil && n > *f.Meta.MaxValue {
		return validationErrorf("value must be at most %v", *f.Meta.MaxValue)
	}
	if f.Meta.DecimalPlaces != nil {
		if dot := strings.IndexByte(value, '.'); dot >= 0 && len(value)-dot-1 > *f.Meta.DecimalPlaces {
			return validationErrorf("value allows at most %d decimal places", *f.Meta.DecimalPlaces)
		}
	}
	return nil
}

func (h *NumberHandler) Sign(f *Field, r Recipient, value string) error {
	if err := h.Validate(f, value); err != nil {
		return err
	}
	signTextValue(f, r.Email, value)
	return nil
}

func (h *NumberHandler) Unsign(f *Field, email string) {
	unsignTextValue(f, email)
}

// AutoSign signs read-only number fields carrying a valid default value.
func (h *NumberHandler) AutoSign(f *Field, r Recipient, _ string, _ time.Time) (bool, error) {
	if !f.Meta.ReadOnly || f.Meta.DefaultValue == "" {
		return false, nil
	}
	if err := h.Sign(f, r, f.Meta.DefaultValue); err != nil {
		return false, err
	}
	return true, nil
}

func (h *NumberHandler) Satisfied(f *Field, email string) bool {
	return textSatisfied(f, email)
}

func (h *NumberHandler) Display(f *Field, email string) string {
	if e := f.TextEntryFor(email); e != nil && e.Text != "" {
		return e.Text
	}
	return h.Placeholder()
}
