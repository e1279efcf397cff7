package signing

import (
	"testing"
	"time"
)

func TestDateHandlerFormat(t *testing.T) {
	h := &DateHandler{format: "2006-01-02", location: time.UTC}
	stamp := time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC)

	if got := h.Format(&Field{Type: FieldTypeDate}, stamp); got != "2026-08-29" {
		t.Errorf("Format = %q, want 2026-08-29", got)
	}

	// Field meta overrides the configured layout and zone.
	f := &Field{Type: FieldTypeDate, Meta: FieldMeta{DateFormat: "01/02/2006", TimeZone: "America/New_York"}}
	if got := h.Format(f, stamp); got != "08/29/2026" {
		t.Errorf("Format with meta = %q, want 08/29/2026", got)
	}
}

func TestDateHandlerAutoSignStampsOnce(t *testing.T) {
	h := &DateHandler{format: "2006-01-02", location: time.UTC}
	f := &Field{Type: FieldTypeDate}
	alice := Recipient{Email: "alice@example.com"}
	day1 := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	signed, err := h.AutoSign(f, alice, "", day1)
	if err != nil || !signed {
		t.Fatalf("first AutoSign = (%t, %v), want signed", signed, err)
	}
	if got := f.ValueFor(alice.Email); got != "2026-08-29" {
		t.Errorf("stamped value = %q, want 2026-08-29", got)
	}

	// A later interaction must not restamp the field.
	signed, err = h.AutoSign(f, alice, "", day2)
	if err != nil || signed {
		t.Errorf("second AutoSign = (%t, %v), want no-op", signed, err)
	}
	if got := f.ValueFor(alice.Email); got != "2026-08-29" {
		t.Errorf("value after second touch = %q, want unchanged", got)
	}

	// After unsign the next interaction stamps again.
	h.Unsign(f, alice.Email)
	signed, _ = h.AutoSign(f, alice, "", day2)
	if !signed || f.ValueFor(alice.Email) != "2026-08-30" {
		t.Errorf("restamp after unsign = (%t, %q)", signed, f.ValueFor(alice.Email))
	}
}

func TestDateHandlerValidate(t *testing.T) {
	h := &DateHandler{format: "2006-01-02", location: time.UTC}
	f := &Field{Type: FieldTypeDate}

	if err := h.Validate(f, "   "); !IsValidationError(err) {
		t.Errorf("blank date should fail validation, got %v", err)
	}
	if err := h.Validate(f, "2026-08-29"); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}
