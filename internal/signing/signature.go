package signing

import "time"

// SignatureHandler implements SIGNATURE and INITIALS. A value is either a
// typed string or an image payload; it is typed when it does not begin with
// the image-data prefix. Each recipient's font size and image scale are
// stored alongside their value and adjusted independently.
type SignatureHandler struct {
	fieldType FieldType
	label     string
}

func (h *SignatureHandler) Type() FieldType     { return h.fieldType }
func (h *SignatureHandler) Placeholder() string { return h.label }

func (h *SignatureHandler) Validate(f *Field, value string) error {
	if isBlank(value) {
		return validationErrorf("%s cannot be empty", h.label)
	}
	return nil
}

// Sign sets the recipient's signature entry. New typed entries start at
// 1 rem, new image entries at scale 1; an existing entry keeps its sizing.
func (h *SignatureHandler) Sign(f *Field, r Recipient, value string) error {
	if err := h.Validate(f, value); err != nil {
		return err
	}
	e := f.EnsureSignatureEntry(r.Email)
	e.Value = value
	if e.IsImage() {
		if e.ImageScale == 0 {
			e.ImageScale = 1
		}
	} else if e.FontSize == 0 {
		e.FontSize = 1
	}
	f.RecomputeInserted()
	return nil
}

func (h *SignatureHandler) Unsign(f *Field, email string) {
	if e := f.SignatureEntryFor(email); e != nil {
		e.Value = ""
	}
	f.RecomputeInserted()
}

// AutoSign never fires for signatures: signing always needs an explicit act.
func (h *SignatureHandler) AutoSign(*Field, Recipient, string, time.Time) (bool, error) {
	return false, nil
}

// Satisfied requires a non-empty image or typed value for the recipient.
func (h *SignatureHandler) Satisfied(f *Field, email string) bool {
	e := f.SignatureEntryFor(email)
	return e != nil && !isBlank(e.Value)
}

func (h *SignatureHandler) Display(f *Field, email string) string {
	if e := f.SignatureEntryFor(email); e != nil && e.Value != "" {
		if e.IsImage() {
			return "[image]"
		}
		return e.Value
	}
	return h.Placeholder()
}

// ClampFontSize bounds a typed-signature font size to the renderable range.
func ClampFontSize(size float64) float64 {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

// ClampImageScale bounds an image-signature scale to the renderable range.
func ClampImageScale(scale float64) float64 {
	if scale < MinImageScale {
		return MinImageScale
	}
	if scale > MaxImageScale {
		return MaxImageScale
	}
	return scale
}
