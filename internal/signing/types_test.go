package signing

import "testing"

func TestParseFieldMeta(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantLabel string
		wantLimit int
	}{
		{
			name:      "valid meta",
			raw:       `{"label":"Quantity","character_limit":5}`,
			wantLabel: "Quantity",
			wantLimit: 5,
		},
		{
			name: "empty payload",
			raw:  "",
		},
		{
			name: "malformed payload degrades to zero value",
			raw:  `{"label":`,
		},
		{
			name: "wrong shape degrades to zero value",
			raw:  `["not","an","object"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := ParseFieldMeta([]byte(tt.raw))
			if meta.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", meta.Label, tt.wantLabel)
			}
			if meta.CharacterLimit != tt.wantLimit {
				t.Errorf("CharacterLimit = %d, want %d", meta.CharacterLimit, tt.wantLimit)
			}
		})
	}
}

func TestEnsureTextEntry(t *testing.T) {
	f := Field{Type: FieldTypeText}

	e := f.EnsureTextEntry("alice@example.com")
	if e.Email != "alice@example.com" || e.Text != "" {
		t.Fatalf("new entry = %+v, want empty entry for alice", e)
	}
	if len(f.CustomText) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(f.CustomText))
	}

	// A second ensure for the same recipient returns the existing entry.
	e.Text = "hello"
	again := f.EnsureTextEntry("alice@example.com")
	if again.Text != "hello" {
		t.Errorf("expected existing entry, got %+v", again)
	}
	if len(f.CustomText) != 1 {
		t.Errorf("expected 1 entry after re-ensure, got %d", len(f.CustomText))
	}

	f.EnsureTextEntry("bob@example.com")
	if len(f.CustomText) != 2 {
		t.Errorf("expected 2 entries after adding bob, got %d", len(f.CustomText))
	}
}

func TestRecomputeInserted(t *testing.T) {
	f := Field{Type: FieldTypeText}
	f.EnsureTextEntry("alice@example.com")
	f.EnsureTextEntry("bob@example.com")

	f.RecomputeInserted()
	if f.Inserted {
		t.Error("field with only empty entries should not be inserted")
	}

	f.TextEntryFor("bob@example.com").Text = "value"
	f.RecomputeInserted()
	if !f.Inserted {
		t.Error("field with one non-empty entry should be inserted")
	}

	f.TextEntryFor("bob@example.com").Text = ""
	f.RecomputeInserted()
	if f.Inserted {
		t.Error("clearing the only value should clear inserted")
	}
}

func TestSignatureEntryIsImage(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"data:image/png;base64,iVBOR", true},
		{"data:image/jpeg;base64,/9j/", true},
		{"Alice Smith", false},
		{"", false},
	}
	for _, tt := range tests {
		e := SignatureEntry{Value: tt.value}
		if got := e.IsImage(); got != tt.want {
			t.Errorf("IsImage(%q) = %t, want %t", tt.value, got, tt.want)
		}
	}
}

func TestValueFor(t *testing.T) {
	sig := Field{Type: FieldTypeSignature}
	sig.EnsureSignatureEntry("alice@example.com").Value = "Alice"
	if got := sig.ValueFor("alice@example.com"); got != "Alice" {
		t.Errorf("signature ValueFor = %q, want %q", got, "Alice")
	}
	if got := sig.ValueFor("bob@example.com"); got != "" {
		t.Errorf("signature ValueFor for missing entry = %q, want empty", got)
	}

	text := Field{Type: FieldTypeText}
	text.EnsureTextEntry("alice@example.com").Text = "hello"
	if got := text.ValueFor("alice@example.com"); got != "hello" {
		t.Errorf("text ValueFor = %q, want %q", got, "hello")
	}
}

func TestFieldTypeValid(t *testing.T) {
	for _, ft := range FieldTypes {
		if !ft.Valid() {
			t.Errorf("%s should be valid", ft)
		}
	}
	if FieldType("BOGUS").Valid() {
		t.Error("BOGUS should not be valid")
	}
}
