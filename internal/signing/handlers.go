package signing

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError is a local, recoverable rejection of a candidate value.
// It blocks Sign but is surfaced inline next to the control, never thrown
// up the stack as a failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a field validation rejection.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Handler implements the sign/unsign/auto-sign/validate contract for one
// field type. One implementation exists per FieldType; dispatch goes through
// the Registry rather than string comparisons at call sites.
type Handler interface {
	Type() FieldType

	// Placeholder is the label shown while the recipient's entry is empty.
	Placeholder() string

	// Validate checks a candidate value against the field's meta rules.
	Validate(f *Field, value string) error

	// Sign validates the value, sets the recipient's entry (creating it if
	// absent), and rederives Inserted. The field is mutated in place; the
	// caller writes it back to the store.
	Sign(f *Field, r Recipient, value string) error

	// Unsign clears the recipient's entry value and rederives Inserted.
	// The entry itself stays so the recipient remains eligible.
	Unsign(f *Field, email string)

	// AutoSign commits a value without an explicit user submit once the
	// type's condition holds. candidate is the current uncommitted
	// selection where that matters. It reports whether it signed.
	AutoSign(f *Field, r Recipient, candidate string, now time.Time) (bool, error)

	// Satisfied reports whether the recipient's entry counts as complete.
	Satisfied(f *Field, email string) bool

	// Display returns what the field shows for the recipient: the stored
	// value formatted per type, or the placeholder while empty.
	Display(f *Field, email string) string
}

// RegistryOptions configures type handlers that need ambient settings.
type RegistryOptions struct {
	// DateFormat is the Go reference layout DATE values are formatted with.
	DateFormat string
	// Location is the timezone DATE values are formatted in.
	Location *time.Location
}

// Registry is the closed set of field type handlers.
type Registry struct {
	handlers map[FieldType]Handler
}

// NewRegistry builds handlers for every supported field type.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.DateFormat == "" {
		opts.DateFormat = "2006-01-02"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	handlers := []Handler{
		&SignatureHandler{fieldType: FieldTypeSignature, label: "Signature"},
		&SignatureHandler{fieldType: FieldTypeInitials, label: "Initials"},
		&ProfileHandler{fieldType: FieldTypeName, label: "Name"},
		&ProfileHandler{fieldType: FieldTypeEmail, label: "Email"},
		&DateHandler{format: opts.DateFormat, location: opts.Location},
		&TextHandler{},
		&NumberHandler{},
		&RadioHandler{},
		&CheckboxHandler{},
		&DropdownHandler{},
	}
	m := make(map[FieldType]Handler, len(handlers))
	for _, h := range handlers {
		m[h.Type()] = h
	}
	return &Registry{handlers: m}
}

// Handler returns the handler for a field type.
func (r *Registry) Handler(t FieldType) (Handler, error) {
	h, ok := r.handlers[t]
	if !ok {
		return nil, fmt.Errorf("unsupported field type %q", t)
	}
	return h, nil
}

// Label returns the effective placeholder label for a field: its configured
// meta label when present, the type's default otherwise.
func (r *Registry) Label(f *Field) string {
	if f.Meta.Label != "" {
		return f.Meta.Label
	}
	h, err := r.Handler(f.Type)
	if err != nil {
		return string(f.Type)
	}
	return h.Placeholder()
}

// signTextValue sets the recipient's text entry and rederives Inserted.
func signTextValue(f *Field, email, value string) {
	f.EnsureTextEntry(email).Text = value
	f.RecomputeInserted()
}

// unsignTextValue clears the recipient's text entry to empty and rederives
// Inserted from the remaining entries.
func unsignTextValue(f *Field, email string) {
	if e := f.TextEntryFor(email); e != nil {
		e.Text = ""
	}
	f.RecomputeInserted()
}

// textSatisfied is the shared satisfaction rule for plain-text-valued types:
// a non-empty, non-whitespace entry.
func textSatisfied(f *Field, email string) bool {
	e := f.TextEntryFor(email)
	return e != nil && !isBlank(e.Text)
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// DefaultFieldSize returns the initial placement size in page percentages
// for a freshly dropped field of the given type.
func DefaultFieldSize(t FieldType) (widthPct, heightPct float64) {
	switch t {
	case FieldTypeSignature:
		return 22, 6
	case FieldTypeInitials:
		return 10, 6
	case FieldTypeCheckbox, FieldTypeRadio:
		return 6, 4
	default:
		return 18, 4
	}
}
