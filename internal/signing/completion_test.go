package signing

import "testing"

func completionFixture(t *testing.T) (*CompletionEvaluator, []Field) {
	t.Helper()
	registry := NewRegistry(RegistryOptions{})

	text := Field{ID: "text-1", Type: FieldTypeText}
	text.EnsureTextEntry("alice@example.com")

	sig := Field{ID: "sig-1", Type: FieldTypeSignature}
	sig.EnsureSignatureEntry("alice@example.com")

	return NewCompletionEvaluator(registry), []Field{text, sig}
}

func TestCompletionSequential(t *testing.T) {
	eval, fields := completionFixture(t)

	if eval.IsComplete(fields, "alice@example.com", OrderSequential) {
		t.Error("empty entries should not be complete")
	}
	missing := eval.Missing(fields, "alice@example.com", OrderSequential)
	if len(missing) != 2 || missing[0] != "text-1" || missing[1] != "sig-1" {
		t.Errorf("missing = %v, want [text-1 sig-1]", missing)
	}

	fields[0].TextEntryFor("alice@example.com").Text = "hello"
	if eval.IsComplete(fields, "alice@example.com", OrderSequential) {
		t.Error("one satisfied of two should not be complete")
	}

	fields[1].SignatureEntryFor("alice@example.com").Value = "Alice"
	if !eval.IsComplete(fields, "alice@example.com", OrderSequential) {
		t.Error("both satisfied should be complete")
	}
	if missing := eval.Missing(fields, "alice@example.com", OrderSequential); missing != nil {
		t.Errorf("missing = %v, want nil", missing)
	}
}

func TestCompletionSequentialSkipsOthersFields(t *testing.T) {
	eval, fields := completionFixture(t)

	// A field carrying only bob's entry is irrelevant to alice.
	bobOnly := Field{ID: "bob-1", Type: FieldTypeText}
	bobOnly.EnsureTextEntry("bob@example.com")
	fields = append(fields, bobOnly)

	fields[0].TextEntryFor("alice@example.com").Text = "hello"
	fields[1].SignatureEntryFor("alice@example.com").Value = "Alice"

	if !eval.IsComplete(fields, "alice@example.com", OrderSequential) {
		t.Error("fields without alice's entry should not count against her")
	}
}

func TestCompletionParallelJudgesEveryField(t *testing.T) {
	eval, fields := completionFixture(t)

	// In parallel mode even a field without alice's entry is relevant and
	// judged on her (absent) value.
	bobOnly := Field{ID: "bob-1", Type: FieldTypeText}
	bobOnly.EnsureTextEntry("bob@example.com")
	bobOnly.TextEntryFor("bob@example.com").Text = "bob's"
	fields = append(fields, bobOnly)

	fields[0].TextEntryFor("alice@example.com").Text = "hello"
	fields[1].SignatureEntryFor("alice@example.com").Value = "Alice"

	if eval.IsComplete(fields, "alice@example.com", OrderParallel) {
		t.Error("a field alice has no value on should block parallel completion")
	}
	missing := eval.Missing(fields, "alice@example.com", OrderParallel)
	if len(missing) != 1 || missing[0] != "bob-1" {
		t.Errorf("missing = %v, want [bob-1]", missing)
	}
}

func TestCompletionEmptyFieldList(t *testing.T) {
	eval := NewCompletionEvaluator(NewRegistry(RegistryOptions{}))
	if !eval.IsComplete(nil, "alice@example.com", OrderSequential) {
		t.Error("no fields means trivially complete")
	}
}
