package signing

import (
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestNumberHandlerValidate(t *testing.T) {
	h := &NumberHandler{}

	tests := []struct {
		name    string
		meta    FieldMeta
		value   string
		wantErr bool
	}{
		{name: "plain integer", value: "42"},
		{name: "negative decimal", value: "-3.14"},
		{name: "leading dot", value: ".5"},
		{name: "not a number", value: "abc", wantErr: true},
		{name: "trailing junk", value: "12abc", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "double dot", value: "1.2.3", wantErr: true},
		{
			name:  "within bounds",
			meta:  FieldMeta{MinValue: floatPtr(1), MaxValue: floatPtr(10)},
			value: "5",
		},
		{
			name:    "below min",
			meta:    FieldMeta{MinValue: floatPtr(1), MaxValue: floatPtr(10)},
			value:   "0",
			wantErr: true,
		},
		{
			name:    "above max",
			meta:    FieldMeta{MinValue: floatPtr(1), MaxValue: floatPtr(10)},
			value:   "11",
			wantErr: true,
		},
		{
			name:  "decimal places ok",
			meta:  FieldMeta{DecimalPlaces: intPtr(2)},
			value: "3.14",
		},
		{
			name:    "too many decimal places",
			meta:    FieldMeta{DecimalPlaces: intPtr(2)},
			value:   "3.141",
			wantErr: true,
		},
		{
			name:    "character limit rejects, never truncates",
			meta:    FieldMeta{CharacterLimit: 3},
			value:   "1234",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Field{Type: FieldTypeNumber, Meta: tt.meta}
			err := h.Validate(f, tt.value)
			if tt.wantErr && err == nil {
				t.Errorf("Validate(%q) should fail", tt.value)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate(%q) failed: %v", tt.value, err)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("rejection should be a validation error, got %T", err)
			}
		})
	}
}

func TestNumberHandlerSignRejectionDoesNotMutate(t *testing.T) {
	h := &NumberHandler{}
	f := &Field{Type: FieldTypeNumber, Meta: FieldMeta{MinValue: floatPtr(1), MaxValue: floatPtr(10)}}
	alice := Recipient{Email: "alice@example.com"}
	f.EnsureTextEntry(alice.Email)

	if err := h.Sign(f, alice, "0"); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.ValueFor(alice.Email) != "" || f.Inserted {
		t.Error("rejected sign must leave the entry and inserted flag untouched")
	}

	if err := h.Sign(f, alice, "5"); err != nil {
		t.Fatalf("Sign(5) failed: %v", err)
	}
	if f.ValueFor(alice.Email) != "5" || !f.Inserted {
		t.Error("accepted sign should store the value and set inserted")
	}
}

func TestNumberHandlerAutoSign(t *testing.T) {
	h := &NumberHandler{}
	alice := Recipient{Email: "alice@example.com"}

	// Only read-only fields with a default auto-sign.
	editable := &Field{Type: FieldTypeNumber, Meta: FieldMeta{DefaultValue: "7"}}
	if signed, _ := h.AutoSign(editable, alice, "", time.Now()); signed {
		t.Error("editable field should not auto-sign")
	}

	readOnly := &Field{Type: FieldTypeNumber, Meta: FieldMeta{ReadOnly: true, DefaultValue: "7"}}
	signed, err := h.AutoSign(readOnly, alice, "", time.Now())
	if err != nil || !signed {
		t.Fatalf("AutoSign = (%t, %v), want signed", signed, err)
	}
	if readOnly.ValueFor(alice.Email) != "7" {
		t.Errorf("auto-signed value = %q, want 7", readOnly.ValueFor(alice.Email))
	}
}
