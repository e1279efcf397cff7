package signing

import "time"

// TextHandler implements the free-form TEXT field type.
type TextHandler struct{}

func (h *TextHandler) Type() FieldType     { return FieldTypeText }
func (h *TextHandler) Placeholder() string { return "Text" }

// Validate enforces the character limit by rejecting over-long input rather
// than truncating it silently.
func (h *TextHandler) Validate(f *Field, value string) error {
	if limit := f.Meta.CharacterLimit; limit > 0 && len([]rune(value)) > limit {
		return validationErrorf("text exceeds the %d character limit", limit)
	}
	return nil
}

func (h *TextHandler) Sign(f *Field, r Recipient, value string) error {
	if err := h.Validate(f, value); err != nil {
		return err
	}
	signTextValue(f, r.Email, value)
	return nil
}

func (h *TextHandler) Unsign(f *Field, email string) {
	unsignTextValue(f, email)
}

// AutoSign signs read-only text fields with their configured default value.
func (h *TextHandler) AutoSign(f *Field, r Recipient, _ string, _ time.Time) (bool, error) {
	if !f.Meta.ReadOnly || f.Meta.DefaultValue == "" {
		return false, nil
	}
	if err := h.Sign(f, r, f.Meta.DefaultValue); err != nil {
		return false, err
	}
	return true, nil
}

func (h *TextHandler) Satisfied(f *Field, email string) bool {
	return textSatisfied(f, email)
}

func (h *TextHandler) Display(f *Field, email string) string {
	if e := f.TextEntryFor(email); e != nil && e.Text != "" {
		return e.Text
	}
	return h.Placeholder()
}

// ProfileHandler implements NAME and EMAIL. Values are sourced from the
// acting recipient's profile rather than typed freely; an explicit value is
// only accepted through the confirmation dialog path.
type ProfileHandler struct {
	fieldType FieldType
	label     string
}

func (h *ProfileHandler) Type() FieldType     { return h.fieldType }
func (h *ProfileHandler) Placeholder() string { return h.label }

func (h *ProfileHandler) Validate(f *Field, value string) error {
	if isBlank(value) {
		return validationErrorf("%s cannot be empty", h.label)
	}
	return nil
}

// profileValue resolves the recipient-profile value for the handler's type.
func (h *ProfileHandler) profileValue(r Recipient) string {
	if h.fieldType == FieldTypeEmail {
		return r.Email
	}
	return r.Name
}

// Sign stores the confirmed value, falling back to the recipient's profile
// when no explicit value was supplied.
func (h *ProfileHandler) Sign(f *Field, r Recipient, value string) error {
	if value == "" {
		value = h.profileValue(r)
	}
	if err := h.Validate(f, value); err != nil {
		return err
	}
	signTextValue(f, r.Email, value)
	return nil
}

func (h *ProfileHandler) Unsign(f *Field, email string) {
	unsignTextValue(f, email)
}

// AutoSign fills the field from the recipient's profile on first interaction.
func (h *ProfileHandler) AutoSign(f *Field, r Recipient, _ string, _ time.Time) (bool, error) {
	value := h.profileValue(r)
	if value == "" {
		return false, nil
	}
	if err := h.Sign(f, r, value); err != nil {
		return false, err
	}
	return true, nil
}

func (h *ProfileHandler) Satisfied(f *Field, email string) bool {
	return textSatisfied(f, email)
}

func (h *ProfileHandler) Display(f *Field, email string) string {
	if e := f.TextEntryFor(email); e != nil && e.Text != "" {
		return e.Text
	}
	return h.Placeholder()
}
