package signing

import (
	"encoding/json"
	"strings"
)

// FieldType identifies one of the placeable form element kinds.
type FieldType string

const (
	FieldTypeSignature FieldType = "SIGNATURE"
	FieldTypeInitials  FieldType = "INITIALS"
	FieldTypeEmail     FieldType = "EMAIL"
	FieldTypeName      FieldType = "NAME"
	FieldTypeDate      FieldType = "DATE"
	FieldTypeText      FieldType = "TEXT"
	FieldTypeNumber    FieldType = "NUMBER"
	FieldTypeRadio     FieldType = "RADIO"
	FieldTypeCheckbox  FieldType = "CHECKBOX"
	FieldTypeDropdown  FieldType = "DROPDOWN"
)

// FieldTypes lists every supported field type in display order.
var FieldTypes = []FieldType{
	FieldTypeSignature,
	FieldTypeInitials,
	FieldTypeEmail,
	FieldTypeName,
	FieldTypeDate,
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeRadio,
	FieldTypeCheckbox,
	FieldTypeDropdown,
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// RecipientRole describes what a recipient may do with the document.
type RecipientRole string

const (
	RoleSigner    RecipientRole = "SIGNER"
	RoleViewer    RecipientRole = "VIEWER"
	RoleApprover  RecipientRole = "APPROVER"
	RoleCC        RecipientRole = "CC"
	RoleAssistant RecipientRole = "ASSISTANT"
)

// SigningStatus is a recipient's progress on the document.
type SigningStatus string

const (
	StatusNotSigned SigningStatus = "NOT_SIGNED"
	StatusSigned    SigningStatus = "SIGNED"
	StatusRejected  SigningStatus = "REJECTED"
)

// SigningOrderMode controls whether signers must act in sequence.
type SigningOrderMode string

const (
	OrderSequential SigningOrderMode = "SEQUENTIAL"
	OrderParallel   SigningOrderMode = "PARALLEL"
)

// ValidationRule is the checkbox count comparison mode.
type ValidationRule string

const (
	RuleAtLeast ValidationRule = "atLeast"
	RuleExactly ValidationRule = "exactly"
	RuleAtMost  ValidationRule = "atMost"
)

// TextAlign is the horizontal alignment of rendered field text.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// FieldOption is one selectable option of a RADIO/DROPDOWN/CHECKBOX field.
type FieldOption struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// FieldMeta is the type-specific configuration of a field. Every member is
// optional; a zero-value FieldMeta means "no constraints, default label".
type FieldMeta struct {
	Label            string         `json:"label,omitempty"`
	Placeholder      string         `json:"placeholder,omitempty"`
	Values           []FieldOption  `json:"values,omitempty"`
	DefaultValue     string         `json:"default_value,omitempty"`
	ReadOnly         bool           `json:"read_only,omitempty"`
	Required         bool           `json:"required,omitempty"`
	TextAlign        TextAlign      `json:"text_align,omitempty"`
	ValidationRule   ValidationRule `json:"validation_rule,omitempty"`
	ValidationLength int            `json:"validation_length,omitempty"`
	MinValue         *float64       `json:"min_value,omitempty"`
	MaxValue         *float64       `json:"max_value,omitempty"`
	DecimalPlaces    *int           `json:"decimal_places,omitempty"`
	CharacterLimit   int            `json:"character_limit,omitempty"`
	DateFormat       string         `json:"date_format,omitempty"`
	TimeZone         string         `json:"time_zone,omitempty"`
}

// ParseFieldMeta decodes a stored meta payload. Malformed configuration
// degrades to a zero-value meta so the field still renders with its default
// label and no validation constraints.
func ParseFieldMeta(raw []byte) FieldMeta {
	if len(raw) == 0 {
		return FieldMeta{}
	}
	var meta FieldMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return FieldMeta{}
	}
	return meta
}

// TextEntry is one recipient's value on a shared non-signature field.
type TextEntry struct {
	Email string `json:"email"`
	Text  string `json:"text"`
}

// ImageDataPrefix marks a signature value as an image payload rather than a
// typed string.
const ImageDataPrefix = "data:image"

// SignatureEntry is one recipient's value on a SIGNATURE/INITIALS field.
// Value holds either a typed signature or a base64 image data URL; FontSize
// applies to typed values and ImageScale to image values.
type SignatureEntry struct {
	Email      string  `json:"email"`
	Value      string  `json:"value"`
	FontSize   float64 `json:"font_size,omitempty"`
	ImageScale float64 `json:"image_scale,omitempty"`
}

// IsImage reports whether the entry holds an image payload.
func (e SignatureEntry) IsImage() bool {
	return strings.HasPrefix(e.Value, ImageDataPrefix)
}

// Font size (rem) and image scale clamp bounds for signature rendering.
const (
	MinFontSize   = 0.8
	MaxFontSize   = 4.0
	MinImageScale = 0.5
	MaxImageScale = 2.0
)

// Field is one placed form element. Position and size are percentages
// (0-100) of the page's rendered box, measured from the page's top-left.
type Field struct {
	ID         string    `json:"id"`
	FormID     string    `json:"form_id,omitempty"`
	Type       FieldType `json:"type"`
	PageNumber int       `json:"page_number"`
	PageX      float64   `json:"page_x"`
	PageY      float64   `json:"page_y"`
	PageWidth  float64   `json:"page_width"`
	PageHeight float64   `json:"page_height"`
	Meta       FieldMeta `json:"field_meta,omitempty"`

	// SignerEmail is the recipient the field instance was created for when
	// one physical position maps 1:1 to one recipient.
	SignerEmail string `json:"signer_email,omitempty"`

	// CustomText holds one entry per eligible recipient for non-signature
	// types; Signatures holds one entry per eligible recipient for
	// SIGNATURE/INITIALS. Entries are never removed, only cleared.
	CustomText []TextEntry      `json:"custom_text,omitempty"`
	Signatures []SignatureEntry `json:"signatures,omitempty"`

	// Inserted is derived: true iff any eligible recipient has a non-empty
	// value on this field.
	Inserted bool `json:"inserted"`
}

// Clone returns a copy of the field whose entry and option slices own their
// backing arrays, so mutating the copy (or the original) never leaks through.
func (f Field) Clone() Field {
	if f.CustomText != nil {
		f.CustomText = append([]TextEntry(nil), f.CustomText...)
	}
	if f.Signatures != nil {
		f.Signatures = append([]SignatureEntry(nil), f.Signatures...)
	}
	if f.Meta.Values != nil {
		f.Meta.Values = append([]FieldOption(nil), f.Meta.Values...)
	}
	return f
}

// IsSignatureType reports whether the field stores SignatureEntry values.
func (f *Field) IsSignatureType() bool {
	return f.Type == FieldTypeSignature || f.Type == FieldTypeInitials
}

// TextEntryFor returns the recipient's text entry, or nil when the recipient
// is not eligible on this field. Entry scans are O(recipients); typical
// signer counts are single digits.
func (f *Field) TextEntryFor(email string) *TextEntry {
	for i := range f.CustomText {
		if f.CustomText[i].Email == email {
			return &f.CustomText[i]
		}
	}
	return nil
}

// SignatureEntryFor returns the recipient's signature entry, or nil.
func (f *Field) SignatureEntryFor(email string) *SignatureEntry {
	for i := range f.Signatures {
		if f.Signatures[i].Email == email {
			return &f.Signatures[i]
		}
	}
	return nil
}

// EnsureTextEntry returns the recipient's text entry, creating an empty one
// if the recipient has none yet.
func (f *Field) EnsureTextEntry(email string) *TextEntry {
	if e := f.TextEntryFor(email); e != nil {
		return e
	}
	f.CustomText = append(f.CustomText, TextEntry{Email: email})
	return &f.CustomText[len(f.CustomText)-1]
}

// EnsureSignatureEntry returns the recipient's signature entry, creating an
// empty one if the recipient has none yet.
func (f *Field) EnsureSignatureEntry(email string) *SignatureEntry {
	if e := f.SignatureEntryFor(email); e != nil {
		return e
	}
	f.Signatures = append(f.Signatures, SignatureEntry{Email: email})
	return &f.Signatures[len(f.Signatures)-1]
}

// ValueFor returns the recipient's stored value regardless of field kind.
func (f *Field) ValueFor(email string) string {
	if f.IsSignatureType() {
		if e := f.SignatureEntryFor(email); e != nil {
			return e.Value
		}
		return ""
	}
	if e := f.TextEntryFor(email); e != nil {
		return e.Text
	}
	return ""
}

// RecomputeInserted rederives the Inserted flag from the entry values.
func (f *Field) RecomputeInserted() {
	f.Inserted = false
	for _, e := range f.Signatures {
		if e.Value != "" {
			f.Inserted = true
			return
		}
	}
	for _, e := range f.CustomText {
		if e.Text != "" {
			f.Inserted = true
			return
		}
	}
}

// Recipient is a party associated with the document.
type Recipient struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Role          RecipientRole `json:"role"`
	SigningOrder  int           `json:"signing_order,omitempty"`
	Color         string        `json:"color,omitempty"`
	SigningStatus SigningStatus `json:"signing_status"`
}
