package signing

import "time"

// DateHandler implements the DATE field type. Values are stored already
// formatted through the configured layout and timezone; the field-level meta
// may override both.
type DateHandler struct {
	format   string
	location *time.Location
}

func (h *DateHandler) Type() FieldType     { return FieldTypeDate }
func (h *DateHandler) Placeholder() string { return "Date" }

// layoutFor resolves the effective format and timezone for a field.
func (h *DateHandler) layoutFor(f *Field) (string, *time.Location) {
	format := h.format
	if f.Meta.DateFormat != "" {
		format = f.Meta.DateFormat
	}
	loc := h.location
	if f.Meta.TimeZone != "" {
		if parsed, err := time.LoadLocation(f.Meta.TimeZone); err == nil {
			loc = parsed
		}
	}
	return format, loc
}

// Format renders a timestamp the way this field displays dates.
func (h *DateHandler) Format(f *Field, t time.Time) string {
	format, loc := h.layoutFor(f)
	return t.In(loc).Format(format)
}

func (h *DateHandler) Validate(f *Field, value string) error {
	if isBlank(value) {
		return validationErrorf("date cannot be empty")
	}
	return nil
}

func (h *DateHandler) Sign(f *Field, r Recipient, value string) error {
	if err := h.Validate(f, value); err != nil {
		return err
	}
	signTextValue(f, r.Email, value)
	return nil
}

func (h *DateHandler) Unsign(f *Field, email string) {
	unsignTextValue(f, email)
}

// AutoSign stamps the field with "now" on first interaction. An already
// signed entry is left alone.
func (h *DateHandler) AutoSign(f *Field, r Recipient, _ string, now time.Time) (bool, error) {
	if e := f.TextEntryFor(r.Email); e != nil && e.Text != "" {
		return false, nil
	}
	signTextValue(f, r.Email, h.Format(f, now))
	return true, nil
}

func (h *DateHandler) Satisfied(f *Field, email string) bool {
	return textSatisfied(f, email)
}

func (h *DateHandler) Display(f *Field, email string) string {
	if e := f.TextEntryFor(email); e != nil && e.Text != "" {
		return e.Text
	}
	return h.Placeholder()
}
