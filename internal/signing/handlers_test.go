package signing

import (
	"testing"
	"time"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(RegistryOptions{})
}

func TestRegistryCoversEveryFieldType(t *testing.T) {
	r := newTestRegistry(t)
	for _, ft := range FieldTypes {
		h, err := r.Handler(ft)
		if err != nil {
			t.Errorf("no handler for %s: %v", ft, err)
			continue
		}
		if h.Type() != ft {
			t.Errorf("handler for %s reports type %s", ft, h.Type())
		}
	}
	if _, err := r.Handler(FieldType("BOGUS")); err == nil {
		t.Error("unknown type should return an error")
	}
}

func TestRegistryLabel(t *testing.T) {
	r := newTestRegistry(t)

	withLabel := &Field{Type: FieldTypeText, Meta: FieldMeta{Label: "Comments"}}
	if got := r.Label(withLabel); got != "Comments" {
		t.Errorf("Label = %q, want %q", got, "Comments")
	}

	plain := &Field{Type: FieldTypeDropdown}
	if got := r.Label(plain); got != "Select an option" {
		t.Errorf("Label = %q, want the dropdown placeholder", got)
	}
}

// One shared field, two recipients: signing and unsigning one recipient's
// entry must never touch the other's.
func TestEntriesAreIndependentPerRecipient(t *testing.T) {
	r := newTestRegistry(t)
	h, _ := r.Handler(FieldTypeText)

	f := &Field{ID: "f1", Type: FieldTypeText}
	alice := Recipient{Email: "alice@example.com", Name: "Alice"}
	bob := Recipient{Email: "bob@example.com", Name: "Bob"}
	f.EnsureTextEntry(alice.Email)
	f.EnsureTextEntry(bob.Email)

	if err := h.Sign(f, bob, "bob's text"); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if err := h.Sign(f, alice, "hello"); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if got := f.ValueFor(bob.Email); got != "bob's text" {
		t.Errorf("bob's value after alice signed = %q", got)
	}

	h.Unsign(f, alice.Email)
	if got := f.ValueFor(alice.Email); got != "" {
		t.Errorf("alice's value after unsign = %q, want empty", got)
	}
	if got := f.ValueFor(bob.Email); got != "bob's text" {
		t.Errorf("bob's value after alice unsigned = %q", got)
	}
	if len(f.CustomText) != 2 {
		t.Errorf("entries are cleared, never removed: got %d entries", len(f.CustomText))
	}
	if !f.Inserted {
		t.Error("field should stay inserted while bob's value remains")
	}
}

func TestTextHandlerCharacterLimit(t *testing.T) {
	r := newTestRegistry(t)
	h, _ := r.Handler(FieldTypeText)
	f := &Field{Type: FieldTypeText, Meta: FieldMeta{CharacterLimit: 5}}
	alice := Recipient{Email: "alice@example.com"}

	if err := h.Sign(f, alice, "toolong"); !IsValidationError(err) {
		t.Errorf("over-limit input should be a validation error, got %v", err)
	}
	if f.ValueFor(alice.Email) != "" {
		t.Error("rejected input must not be stored")
	}

	// Limit counts runes, not bytes.
	if err := h.Sign(f, alice, "héllo"); err != nil {
		t.Errorf("5-rune input should pass: %v", err)
	}
}

func TestProfileHandlerSignAndAutoSign(t *testing.T) {
	r := newTestRegistry(t)
	alice := Recipient{Email: "alice@example.com", Name: "Alice Smith"}

	nameField := &Field{Type: FieldTypeName}
	nameHandler, _ := r.Handler(FieldTypeName)

	// Empty value falls back to the profile.
	if err := nameHandler.Sign(nameField, alice, ""); err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if got := nameField.ValueFor(alice.Email); got != "Alice Smith" {
		t.Errorf("name value = %q, want profile name", got)
	}

	emailField := &Field{Type: FieldTypeEmail}
	emailHandler, _ := r.Handler(FieldTypeEmail)
	signed, err := emailHandler.AutoSign(emailField, alice, "", time.Now())
	if err != nil || !signed {
		t.Fatalf("AutoSign = (%t, %v), want signed", signed, err)
	}
	if got := emailField.ValueFor(alice.Email); got != "alice@example.com" {
		t.Errorf("email value = %q, want profile email", got)
	}

	// A recipient without a name cannot auto-fill a NAME field.
	anon := Recipient{Email: "anon@example.com"}
	signed, err = nameHandler.AutoSign(&Field{Type: FieldTypeName}, anon, "", time.Now())
	if err != nil || signed {
		t.Errorf("AutoSign for empty profile = (%t, %v), want no-op", signed, err)
	}
}

func TestDefaultFieldSize(t *testing.T) {
	tests := []struct {
		t          FieldType
		wantWidth  float64
		wantHeight float64
	}{
		{FieldTypeSignature, 22, 6},
		{FieldTypeInitials, 10, 6},
		{FieldTypeCheckbox, 6, 4},
		{FieldTypeRadio, 6, 4},
		{FieldTypeText, 18, 4},
		{FieldTypeDate, 18, 4},
	}
	for _, tt := range tests {
		w, h := DefaultFieldSize(tt.t)
		if w != tt.wantWidth || h != tt.wantHeight {
			t.Errorf("DefaultFieldSize(%s) = (%v, %v), want (%v, %v)",
				tt.t, w, h, tt.wantWidth, tt.wantHeight)
		}
	}
}
