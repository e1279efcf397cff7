package signing

import "time"

// EmptyValuePrefix marks options whose display text is blank. The stored
// value "empty-value-<id>" keeps blank-labelled options distinguishable and
// selectable.
const EmptyValuePrefix = "empty-value-"

// OptionStoredValue returns the value stored when an option is selected.
func OptionStoredValue(o FieldOption) string {
	if o.Value == "" {
		return EmptyValuePrefix + o.ID
	}
	return o.Value
}

// validateSingleChoice checks that value names one of the field's options.
func validateSingleChoice(f *Field, value, noun string) error {
	if value == "" {
		return validationErrorf("select a %s option", noun)
	}
	for _, o := range f.Meta.Values {
		if OptionStoredValue(o) == value {
			return nil
		}
	}
	return validationErrorf("%q is not one of the %s options", value, noun)
}

// autoSignChoice implements the shared RADIO/DROPDOWN auto-sign rule: a
// read-only field with a default signs the default; otherwise the current
// selection signs itself once it is valid.
func autoSignChoice(h Handler, f *Field, r Recipient, candidate string) (bool, error) {
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

// RadioHandler implements the RADIO field type: a single selection from the
// field's configured options.
type RadioHandler struct{}

func (h *RadioHandler) Type() FieldType     { return FieldTypeRadio }
func (h *RadioHandler) Placeholder() string { return "Radio" }

func (h *RadioHandler) Validate(f *Field, value string) error {
	return validateSingleChoice(f, value, "radio")
}

func (h *RadioHandler) Sign(f *Field, r Recipient, value string) error {
	if err := h.Validate(f, value); err != nil {
		return err
	}
	signTextValue(f, r.Email, value)
	return nil
}

func (h *RadioHandler) Unsign(f *Field, email string) {
	unsignTextValue(f, email)
}

func (h *RadioHandler) AutoSign(f *Field, r Recipient, candidate string, _ time.Time) (bool, error) {
	return autoSignChoice(h, f, r, candidate)
}

func (h *RadioHandler) Satisfied(f *Field, email string) bool {
	return textSatisfied(f, email)
}

func (h *RadioHandler) Display(f *Field, email string) string {
	if e := f.TextEntryFor(email); e != nil && e.Text != "" {
		return e.Text
	}
	return h.Placeholder()
}

// DropdownHandler implements the DROPDOWN field type: a single selection
// from the field's configured options.
type DropdownHandler struct{}

func (h *DropdownHandler) Type() FieldType     { return FieldTypeDropdown }
func (h *DropdownHandler) Placeholder() string { return "Select an option" }

func (h *DropdownHandler) Validate(f *Field, value string) error {
	return validateSingleChoice(f, value, "dropdown")
}

func (h *DropdownHandler) Sign(f *Field, r Recipient, value string) error {
	if err := h.Validate(f, value); err != nil {
		return err
	}
	signTextValue(f, r.Email, value)
	return nil
}

func (h *DropdownHandler) Unsign(f *Field, email string) {
	unsignTextValue(f, email)
}

func (h *DropdownHandler) AutoSign(f *Field, r Recipient, candidate string, _ time.Time) (bool, error) {
	return autoSignChoice(h, f, r, candidate)
}

func (h *DropdownHandler) Satisfied(f *Field, email string) bool {
	return textSatisfied(f, email)
}

func (h *DropdownHandler) Display(f *Field, email string) string {
	if e := f.TextEntryFor(email); e != nil && e.Text != "" {
		return e.Text
	}
	return h.Placeholder()
}
