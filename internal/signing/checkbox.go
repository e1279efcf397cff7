package signing

import (
	"strings"
	"time"
)

// ToCheckboxValue serializes an ordered list of checked values for storage.
// Values are pipe-joined; the empty list serializes to the empty string.
func ToCheckboxValue(values []string) string {
	return strings.Join(values, "|")
}

// FromCheckboxValue parses a stored checkbox value back into its checked
// values, dropping empty segments.
func FromCheckboxValue(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, "|")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// CheckboxHandler implements the CHECKBOX field type. Unlike the other
// types it supports partial, incremental (un)checking, so its clear
// affordance is always visible instead of hover-revealed.
type CheckboxHandler struct{}

func (h *CheckboxHandler) Type() FieldType     { return FieldTypeCheckbox }
func (h *CheckboxHandler) Placeholder() string { return "Checkbox" }

// Validate applies the configured count rule to the number of checked
// values.
func (h *CheckboxHandler) Validate(f *Field, value string) error {
	checked := len(FromCheckboxValue(value))
	want := f.Meta.ValidationLength
	switch f.Meta.ValidationRule {
	case RuleAtLeast:
		if checked < want {
			return validationErrorf("select at least %d option(s)", want)
		}
	case RuleExactly:
		if checked != want {
			return validationErrorf("select exactly %d option(s)", want)
		}
	case RuleAtMost:
		if checked > want {
			return validationErrorf("select at most %d option(s)", want)
		}
	}
	return nil
}

func (h *CheckboxHandler) Sign(f *Field, r Recipient, value string) error {
	if err := h.Validate(f, value); err != nil {
		return err
	}
	signTextValue(f, r.Email, value)
	return nil
}

func (h *CheckboxHandler) Unsign(f *Field, email string) {
	unsignTextValue(f, email)
}

// AutoSign commits the selection as soon as it is valid: a read-only field
// with a default value signs with the default, otherwise the current
// selection signs itself the moment the count rule passes.
func (h *CheckboxHandler) AutoSign(f *Field, r Recipient, candidate string, _ time.Time) (bool, error) {
	if f.Meta.ReadOnly && f.Meta.DefaultValue != "" {
		if err := h.Sign(f, r, f.Meta.DefaultValue); err != nil {
			return false, err
		}
		return true, nil
	}
	if candidate == "" || h.Validate(f, candidate) != nil {
		return false, nil
	}
	signTextValue(f, r.Email, candidate)
	return true, nil
}

// Satisfied requires any non-empty checked value, independent of the count
// rule (the rule gates signing, not completion counting).
func (h *CheckboxHandler) Satisfied(f *Field, email string) bool {
	e := f.TextEntryFor(email)
	return e != nil && len(FromCheckboxValue(e.Text)) > 0
}

func (h *CheckboxHandler) Display(f *Field, email string) string {
	if e := f.TextEntryFor(email); e != nil && e.Text != "" {
		return strings.Join(FromCheckboxValue(e.Text), ", ")
	}
	return h.Placeholder()
}
