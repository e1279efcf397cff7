package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	DocumentOpenDescription = `Open a PDF document for field placement and signing.

**When to use:** First step of every session: loads the document's page geometry, restores any persisted fields and recipients, and makes it the active document.

**Why it's useful:** Every other tool operates on the active document; page boxes are read from the PDF itself so field coordinates track the real page sizes.

**Examples:**
• Start authoring: "Open contracts/nda.pdf so I can place signature fields"
• Resume signing: "Open offer-letter.pdf as document offer-2024 and continue where we left off"

**Best practices:** Pass a stable document_id when you want state to survive across sessions; the file path is used otherwise.`

	RecipientAddDescription = `Add a recipient to the active document.

**When to use:** Before placing fields for a signer, viewer, approver, CC, or assistant.

**Why it's useful:** Each recipient gets a unique palette color (reused deterministically across sessions) and, in sequential mode, a signing-order slot that gates when they may act.

**Examples:**
• "Add alice@example.com as the first signer"
• "Add legal@example.com as an approver with signing order 2"`

	RecipientListDescription = `List the active document's recipients with their colors, roles, and signing statuses.

**When to use:** To check who still has to sign, what order applies, or which color belongs to whom.`

	FieldPlaceDescription = `Place a new field on a page at a pointer position.

**When to use:** Authoring: dropping a signature, text, date, checkbox, or other field onto the rendered page for a recipient.

**Why it's useful:** The pointer position is converted to page-relative percentages, so the field keeps its place when the rendered page resizes or reflows.

**Examples:**
• "Place a SIGNATURE field for alice@example.com at (210, 640) on page 3"
• "Drop a DATE field next to the signature line"

**Best practices:** The page must have been laid out (document_open does this); the field centers under the pointer.`

	FieldListDescription = `List the active document's fields with labels, per-recipient display values, and current pixel boxes.

**When to use:** To render the overlay or inspect what has been placed and signed so far.

**Why it's useful:** Boxes are computed live against the page layout; a field on a page without layout reports no box and should render nothing.`

	FieldSignDescription = `Set a recipient's value on a field.

**When to use:** A recipient fills or signs one of their fields: typed or image signatures, text, numbers, checkbox selections, radio/dropdown choices.

**Why it's useful:** The value is validated per the field type's rules (number ranges, character limits, checkbox count rules, option membership) before anything is stored; other recipients' entries on the same field are untouched.

**Examples:**
• "Sign field f1 for alice@example.com with her typed signature"
• "Set the quantity field to 5 for bob@example.com"

**Best practices:** A sequential-mode document rejects the call while an earlier signer still has to act; the error names who must sign next.`

	FieldUnsignDescription = `Clear a recipient's value on a field.

**When to use:** A recipient removes their signature or entered value. The recipient stays eligible on the field; only their value is cleared.`

	FieldTouchDescription = `Report an interaction that may auto-sign a field.

**When to use:** A recipient focuses or changes a field that signs itself: DATE stamps "now" on first interaction; RADIO/CHECKBOX/DROPDOWN commit once the current selection is valid or when read-only with a default.

**Examples:**
• "Touch the date field for alice@example.com" (stamps today's date)
• "Touch the checkbox field with candidate 'red|blue'" (commits once the count rule passes)`

	SigningGateStatusDescription = `Check whether a recipient may currently act under the document's signing order.

**When to use:** Before rendering a recipient's fields as interactive in sequential mode.

**Why it's useful:** A blocked result names the signer who must act next so the UI can show a blocking dialog instead of interactive fields; an unrestricted result means the document is fully signed and read-only.`

	CompletionStatusDescription = `Check whether a recipient has satisfied every field assigned to them.

**When to use:** To enable or disable the Complete action while a recipient works through their fields.

**Why it's useful:** Reports the ids of any still-unsatisfied fields so the UI can point at what's left.`

	SigningCompleteDescription = `Mark a recipient's signing as complete.

**When to use:** The recipient finished every assigned field and confirms completion.

**Why it's useful:** Fails with the remaining field count when something is unsatisfied, and respects the signing order; on success the recipient's status becomes SIGNED, unblocking the next signer in sequential mode.`

	SigningRejectDescription = `Mark a recipient as having rejected the document.

**When to use:** A recipient declines to sign. In sequential mode every later signer stays blocked behind the rejection.`

	SigningServerInfoDescription = `Get server information, available tools, and usage guidance.

**When to use:** To discover the configured document directory, date format, and the tool surface.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"document_open":       DocumentOpenDescription,
	"recipient_add":       RecipientAddDescription,
	"recipient_list":      RecipientListDescription,
	"field_place":         FieldPlaceDescription,
	"field_list":          FieldListDescription,
	"field_sign":          FieldSignDescription,
	"field_unsign":        FieldUnsignDescription,
	"field_touch":         FieldTouchDescription,
	"signing_gate_status": SigningGateStatusDescription,
	"completion_status":   CompletionStatusDescription,
	"signing_complete":    SigningCompleteDescription,
	"signing_reject":      SigningRejectDescription,
	"signing_server_info": SigningServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
