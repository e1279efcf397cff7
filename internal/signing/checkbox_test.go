package signing

import (
	"reflect"
	"testing"
	"time"
)

func TestCheckboxValueRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []string
	}{
		{name: "empty", values: nil},
		{name: "single", values: []string{"red"}},
		{name: "multiple keep order", values: []string{"red", "green", "blue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromCheckboxValue(ToCheckboxValue(tt.values))
			if !reflect.DeepEqual(got, tt.values) {
				t.Errorf("round trip = %v, want %v", got, tt.values)
			}
		})
	}
}

func TestFromCheckboxValueDropsEmptySegments(t *testing.T) {
	if got := FromCheckboxValue("a||b|"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("FromCheckboxValue = %v, want [a b]", got)
	}
	if got := FromCheckboxValue("||"); got != nil {
		t.Errorf("all-empty value should parse to nil, got %v", got)
	}
}

func TestCheckboxHandlerValidate(t *testing.T) {
	h := &CheckboxHandler{}

	tests := []struct {
		name    string
		rule    ValidationRule
		length  int
		value   string
		wantErr bool
	}{
		{name: "no rule accepts empty", value: ""},
		{name: "atLeast met", rule: RuleAtLeast, length: 2, value: "a|b|c"},
		{name: "atLeast unmet", rule: RuleAtLeast, length: 2, value: "a", wantErr: true},
		{name: "exactly met", rule: RuleExactly, length: 2, value: "a|b"},
		{name: "exactly over", rule: RuleExactly, length: 2, value: "a|b|c", wantErr: true},
		{name: "exactly under", rule: RuleExactly, length: 2, value: "a", wantErr: true},
		{name: "atMost met", rule: RuleAtMost, length: 2, value: "a|b"},
		{name: "atMost over", rule: RuleAtMost, length: 2, value: "a|b|c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Field{
				Type: FieldTypeCheckbox,
				Meta: FieldMeta{ValidationRule: tt.rule, ValidationLength: tt.length},
			}
			err := h.Validate(f, tt.value)
			if tt.wantErr && !IsValidationError(err) {
				t.Errorf("Validate(%q) = %v, want validation error", tt.value, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate(%q) failed: %v", tt.value, err)
			}
		})
	}
}

func TestCheckboxHandlerAutoSign(t *testing.T) {
	h := &CheckboxHandler{}
	alice := Recipient{Email: "alice@example.com"}

	// The current selection commits itself once the count rule passes.
	f := &Field{
		Type: FieldTypeCheckbox,
		Meta: FieldMeta{ValidationRule: RuleAtLeast, ValidationLength: 2},
	}
	if signed, _ := h.AutoSign(f, alice, "red", time.Now()); signed {
		t.Error("one checked value should not satisfy atLeast 2")
	}
	signed, err := h.AutoSign(f, alice, "red|blue", time.Now())
	if err != nil || !signed {
		t.Fatalf("AutoSign = (%t, %v), want signed", signed, err)
	}
	if f.ValueFor(alice.Email) != "red|blue" {
		t.Errorf("stored value = %q, want red|blue", f.ValueFor(alice.Email))
	}

	// Read-only defaults sign regardless of the candidate.
	ro := &Field{Type: FieldTypeCheckbox, Meta: FieldMeta{ReadOnly: true, DefaultValue: "a|b"}}
	signed, err = h.AutoSign(ro, alice, "", time.Now())
	if err != nil || !signed {
		t.Fatalf("read-only AutoSign = (%t, %v), want signed", signed, err)
	}
	if ro.ValueFor(alice.Email) != "a|b" {
		t.Errorf("stored default = %q, want a|b", ro.ValueFor(alice.Email))
	}
}

func TestCheckboxHandlerSatisfiedAndDisplay(t *testing.T) {
	h := &CheckboxHandler{}
	f := &Field{
		Type: FieldTypeCheckbox,
		Meta: FieldMeta{ValidationRule: RuleExactly, ValidationLength: 3},
	}

	if h.Satisfied(f, "alice@example.com") {
		t.Error("missing entry should not be satisfied")
	}

	// Satisfaction needs any checked value; the count rule only gates Sign.
	f.EnsureTextEntry("alice@example.com").Text = "one"
	if !h.Satisfied(f, "alice@example.com") {
		t.Error("one checked value should satisfy completion")
	}

	f.TextEntryFor("alice@example.com").Text = "one|two"
	if got := h.Display(f, "alice@example.com"); got != "one, two" {
		t.Errorf("Display = %q, want %q", got, "one, two")
	}
	if got := h.Display(f, "bob@example.com"); got != "Checkbox" {
		t.Errorf("empty Display = %q, want placeholder", got)
	}
}
