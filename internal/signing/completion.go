package signing

// CompletionEvaluator decides whether the active recipient may invoke the
// Complete action. It is a pure scan over the field list; reactivity comes
// from re-running it on every store mutation (see Service.WatchCompletion).
type CompletionEvaluator struct {
	registry *Registry
}

// NewCompletionEvaluator creates an evaluator using the given handler set.
func NewCompletionEvaluator(registry *Registry) *CompletionEvaluator {
	return &CompletionEvaluator{registry: registry}
}

// relevant reports whether a field counts toward the recipient's completion.
// In SEQUENTIAL mode only fields carrying an entry for the recipient are
// relevant; PARALLEL mode considers every field, judged on the viewing
// recipient's own entry (a recipient never acts on another's entry).
func (c *CompletionEvaluator) relevant(f *Field, email string, mode SigningOrderMode) bool {
	if mode != OrderSequential {
		return true
	}
	if f.IsSignatureType() {
		return f.SignatureEntryFor(email) != nil
	}
	return f.TextEntryFor(email) != nil
}

// IsComplete reports whether every relevant field is satisfied for the
// active recipient.
func (c *CompletionEvaluator) IsComplete(fields []Field, activeEmail string, mode SigningOrderMode) bool {
	for i := range fields {
		f := &fields[i]
		if !c.relevant(f, activeEmail, mode) {
			continue
		}
		h, err := c.registry.Handler(f.Type)
		if err != nil {
			continue
		}
		if !h.Satisfied(f, activeEmail) {
			return false
		}
	}
	return true
}

// Missing returns the ids of relevant fields still unsatisfied, in field
// order, for surfacing "what's left" to the recipient.
func (c *CompletionEvaluator) Missing(fields []Field, activeEmail string, mode SigningOrderMode) []string {
	var missing []string
	for i := range fields {
		f := &fields[i]
		if !c.relevant(f, activeEmail, mode) {
			continue
		}
		h, err := c.registry.Handler(f.Type)
		if err != nil {
			continue
		}
		if !h.Satisfied(f, activeEmail) {
			missing = append(missing, f.ID)
		}
	}
	return missing
}
