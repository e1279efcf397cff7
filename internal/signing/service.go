package signing

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BlockedError reports a signing-order violation. It is a first-class gate
// state rather than a failure: the caller renders a blocking dialog naming
// the signer who must act next.
type BlockedError struct {
	NextSignerEmail string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("signing is blocked until %s signs", e.NextSignerEmail)
}

// ServiceOptions configures a signing service.
type ServiceOptions struct {
	// DateFormat is the Go reference layout for DATE fields.
	DateFormat string
	// TimeZone is the IANA zone name DATE fields are stamped in.
	TimeZone string
	// Committer receives field/recipient payloads on commit; nil disables
	// persistence (commits succeed locally).
	Committer Committer
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service orchestrates the signing-state components for one active document:
// the field store, geometry mapper, type handlers, color assigner, signing
// gate, and completion evaluator.
type Service struct {
	opts       ServiceOptions
	registry   *Registry
	colors     *ColorAssigner
	completion *CompletionEvaluator
	layout     *LayoutTracker
	mapper     *Mapper
	now        func() time.Time

	// writeMu serializes read-modify-write cycles on the store; individual
	// store operations are already locked.
	writeMu sync.Mutex
	store   *Store
}

// NewService creates a service with no document open.
func NewService(opts ServiceOptions) (*Service, error) {
	loc := time.UTC
	if opts.TimeZone != "" {
		parsed, err := time.LoadLocation(opts.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid time zone %q: %w", opts.TimeZone, err)
		}
		loc = parsed
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	registry := NewRegistry(RegistryOptions{DateFormat: opts.DateFormat, Location: loc})
	layout := NewLayoutTracker()
	return &Service{
		opts:       opts,
		registry:   registry,
		colors:     NewColorAssigner(),
		completion: NewCompletionEvaluator(registry),
		layout:     layout,
		mapper:     NewMapper(layout),
		now:        now,
	}, nil
}

// Layout exposes the layout tracker so the external renderer can report
// page-ready, resize, and scroll events.
func (s *Service) Layout() *LayoutTracker {
	return s.layout
}

// Registry exposes the field type handlers.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Colors exposes the recipient color assigner.
func (s *Service) Colors() *ColorAssigner {
	return s.colors
}

// OpenDocument makes a document the active one, replacing any previous
// store state.
func (s *Service) OpenDocument(documentID string, fields []Field, recipients []Recipient, mode SigningOrderMode) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	store := NewStore(documentID, s.opts.Committer)
	if mode == "" {
		mode = OrderParallel
	}
	store.UpdateStepData(StepSettings, map[string]any{KeyOrderMode: mode}, false, nil)
	store.SetFields(fields, false, nil)
	store.SetRecipients(recipients, false, nil)
	s.store = store
}

// Store returns the active document's store, or nil when none is open.
func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) activeStore() (*Store, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no document is open")
	}
	return s.store, nil
}

// Request/result types

// PlaceFieldRequest drops a new field of the given type at a pointer
// location on a page, for one signer.
type PlaceFieldRequest struct {
	Type        FieldType `json:"type"`
	PageNumber  int       `json:"page_number"`
	PointerX    float64   `json:"pointer_x"`
	PointerY    float64   `json:"pointer_y"`
	SignerEmail string    `json:"signer_email"`
	Meta        FieldMeta `json:"field_meta,omitempty"`
}

// PlaceFieldResult returns the created field.
type PlaceFieldResult struct {
	Field Field `json:"field"`
}

// SignFieldRequest sets a recipient's value on a field.
type SignFieldRequest struct {
	FieldID string `json:"field_id"`
	Email   string `json:"email"`
	Value   string `json:"value"`
}

// SignFieldResult returns the updated field.
type SignFieldResult struct {
	Field Field `json:"field"`
}

// UnsignFieldRequest clears a recipient's value on a field.
type UnsignFieldRequest struct {
	FieldID string `json:"field_id"`
	Email   string `json:"email"`
}

// TouchFieldRequest reports an interaction that may auto-sign the field.
// Candidate carries the current uncommitted selection where relevant.
type TouchFieldRequest struct {
	FieldID   string `json:"field_id"`
	Email     string `json:"email"`
	Candidate string `json:"candidate,omitempty"`
}

// TouchFieldResult reports whether the interaction auto-signed the field.
type TouchFieldResult struct {
	Signed bool  `json:"signed"`
	Field  Field `json:"field"`
}

// SignatureScaleRequest adjusts one recipient's signature sizing. Zero
// members are left unchanged; values are clamped to the renderable ranges.
type SignatureScaleRequest struct {
	FieldID    string  `json:"field_id"`
	Email      string  `json:"email"`
	FontSize   float64 `json:"font_size,omitempty"`
	ImageScale float64 `json:"image_scale,omitempty"`
}

// AddRecipientRequest adds a recipient to the active document.
type AddRecipientRequest struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Role         RecipientRole `json:"role"`
	SigningOrder int           `json:"signing_order,omitempty"`
}

// AddRecipientResult returns the created recipient with its assigned color.
type AddRecipientResult struct {
	Recipient Recipient `json:"recipient"`
}

// FieldView is a field together with its current display state for one
// viewing recipient.
type FieldView struct {
	Field Field  `json:"field"`
	Label string `json:"label"`
	// Box is the pixel box relative to the render target; nil while the
	// field's page has no layout (the field renders nothing).
	Box     *Rect  `json:"box,omitempty"`
	Display string `json:"display,omitempty"`
}

// CompletionResult reports whether the recipient may invoke Complete.
type CompletionResult struct {
	Complete        bool     `json:"complete"`
	MissingFieldIDs []string `json:"missing_field_ids,omitempty"`
}

// Operations

// PlaceField creates a field centered under the placement pointer. The page
// must have reported a layout; percentages are computed from the click point
// and the type's default size.
func (s *Service) PlaceField(req PlaceFieldRequest) (*PlaceFieldResult, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("unsupported field type %q", req.Type)
	}
	widthPct, heightPct := DefaultFieldSize(req.Type)
	pageX, pageY, ok := s.mapper.Place(req.PageNumber, req.PointerX, req.PointerY, widthPct, heightPct)
	if !ok {
		return nil, fmt.Errorf("page %d has no layout yet", req.PageNumber)
	}

	field := Field{
		ID:          uuid.NewString(),
		FormID:      uuid.NewString(),
		Type:        req.Type,
		PageNumber:  req.PageNumber,
		PageX:       pageX,
		PageY:       pageY,
		PageWidth:   widthPct,
		PageHeight:  heightPct,
		Meta:        req.Meta,
		SignerEmail: req.SignerEmail,
	}
	if req.SignerEmail != "" {
		if field.IsSignatureType() {
			field.EnsureSignatureEntry(req.SignerEmail)
		} else {
			field.EnsureTextEntry(req.SignerEmail)
		}
	}

	s.writeMu.Lock()
	store.AppendField(field, true, nil)
	s.writeMu.Unlock()
	return &PlaceFieldResult{Field: field}, nil
}

// AddFieldRecipient makes another recipient eligible on a shared field by
// creating their empty entry.
func (s *Service) AddFieldRecipient(fieldID, email string) (*Field, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	field := store.FieldByID(fieldID)
	if field == nil {
		return nil, fmt.Errorf("field %s not found", fieldID)
	}
	if field.IsSignatureType() {
		field.EnsureSignatureEntry(email)
	} else {
		field.EnsureTextEntry(email)
	}
	store.ReplaceField(*field, true, nil)
	return field, nil
}

// UpdateFieldRect stores new percentage geometry for a field after a
// drag/resize interaction, given the resulting pixel box.
func (s *Service) UpdateFieldRect(fieldID string, box Rect) (*Field, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	field := store.FieldByID(fieldID)
	if field == nil {
		return nil, fmt.Errorf("field %s not found", fieldID)
	}
	pageX, pageY, pageWidth, pageHeight, ok := s.mapper.Percents(field.PageNumber, box)
	if !ok {
		return nil, fmt.Errorf("page %d has no layout yet", field.PageNumber)
	}
	field.PageX, field.PageY = pageX, pageY
	field.PageWidth, field.PageHeight = pageWidth, pageHeight
	store.ReplaceField(*field, true, nil)
	return field, nil
}

// RemoveField deletes a placed field.
func (s *Service) RemoveField(fieldID string) error {
	store, err := s.activeStore()
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if !store.RemoveField(fieldID, true, nil) {
		return fmt.Errorf("field %s not found", fieldID)
	}
	return nil
}

// checkGate enforces the signing order for a mutating recipient action.
func (s *Service) checkGate(store *Store, email string) error {
	state := EvaluateGate(store.Recipients(), email, store.OrderMode())
	if state.Blocked {
		return &BlockedError{NextSignerEmail: state.NextSignerEmail}
	}
	return nil
}

// SignField validates and sets a recipient's value on a field, then writes
// the field back (replace-by-id) with a commit. Validation failures and
// gate blocks return errors without mutating the store.
func (s *Service) SignField(req SignFieldRequest) (*SignFieldResult, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	if err := s.checkGate(store, req.Email); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	field := store.FieldByID(req.FieldID)
	if field == nil {
		return nil, fmt.Errorf("field %s not found", req.FieldID)
	}
	handler, err := s.registry.Handler(field.Type)
	if err != nil {
		return nil, err
	}
	recipient := store.RecipientByEmail(req.Email)
	if recipient == nil {
		return nil, fmt.Errorf("recipient %s not found", req.Email)
	}
	if err := handler.Sign(field, *recipient, req.Value); err != nil {
		return nil, err
	}
	store.ReplaceField(*field, true, nil)
	return &SignFieldResult{Field: *field}, nil
}

// UnsignField clears a recipient's value on a field; the entry stays so the
// recipient remains eligible.
func (s *Service) UnsignField(req UnsignFieldRequest) (*SignFieldResult, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	field := store.FieldByID(req.FieldID)
	if field == nil {
		return nil, fmt.Errorf("field %s not found", req.FieldID)
	}
	handler, err := s.registry.Handler(field.Type)
	if err != nil {
		return nil, err
	}
	handler.Unsign(field, req.Email)
	store.ReplaceField(*field, true, nil)
	return &SignFieldResult{Field: *field}, nil
}

// TouchField runs the field type's auto-sign rule for an interaction.
func (s *Service) TouchField(req TouchFieldRequest) (*TouchFieldResult, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	if err := s.checkGate(store, req.Email); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	field := store.FieldByID(req.FieldID)
	if field == nil {
		return nil, fmt.Errorf("field %s not found", req.FieldID)
	}
	handler, err := s.registry.Handler(field.Type)
	if err != nil {
		return nil, err
	}
	recipient := store.RecipientByEmail(req.Email)
	if recipient == nil {
		return nil, fmt.Errorf("recipient %s not found", req.Email)
	}
	signed, err := handler.AutoSign(field, *recipient, req.Candidate, s.now())
	if err != nil {
		return nil, err
	}
	if signed {
		store.ReplaceField(*field, true, nil)
	}
	return &TouchFieldResult{Signed: signed, Field: *field}, nil
}

// SetSignatureScale adjusts a recipient's typed font size or image scale on
// a signature field, clamped to the renderable ranges.
func (s *Service) SetSignatureScale(req SignatureScaleRequest) (*Field, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	field := store.FieldByID(req.FieldID)
	if field == nil {
		return nil, fmt.Errorf("field %s not found", req.FieldID)
	}
	if !field.IsSignatureType() {
		return nil, fmt.Errorf("field %s is not a signature field", req.FieldID)
	}
	entry := field.SignatureEntryFor(req.Email)
	if entry == nil {
		return nil, fmt.Errorf("recipient %s has no entry on field %s", req.Email, req.FieldID)
	}
	if req.FontSize != 0 {
		entry.FontSize = ClampFontSize(req.FontSize)
	}
	if req.ImageScale != 0 {
		entry.ImageScale = ClampImageScale(req.ImageScale)
	}
	store.ReplaceField(*field, true, nil)
	return field, nil
}

// AddRecipient adds a recipient with the next free palette color.
func (s *Service) AddRecipient(req AddRecipientRequest) (*AddRecipientResult, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	if req.Email == "" {
		return nil, fmt.Errorf("recipient email cannot be empty")
	}
	if req.Role == "" {
		req.Role = RoleSigner
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	recipients := store.Recipients()
	for _, r := range recipients {
		if r.Email == req.Email {
			return nil, fmt.Errorf("recipient %s already exists", req.Email)
		}
	}
	recipient := Recipient{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
		SigningOrder:  req.SigningOrder,
		Color:         s.colors.AssignFor(recipients),
		SigningStatus: StatusNotSigned,
	}
	store.SetRecipients(append(recipients, recipient), true, nil)
	return &AddRecipientResult{Recipient: recipient}, nil
}

// ListRecipients returns the active document's recipients.
func (s *Service) ListRecipients() ([]Recipient, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	return store.Recipients(), nil
}

// ListFields returns every field with its label, display value for the
// viewing recipient, and current pixel box (nil while the page has no
// layout, in which case the field renders nothing rather than guessing).
func (s *Service) ListFields(viewerEmail string) ([]FieldView, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	fields := store.Fields()
	views := make([]FieldView, 0, len(fields))
	for i := range fields {
		f := fields[i]
		view := FieldView{
			Field: f,
			Label: s.registry.Label(&f),
		}
		if box, ok := s.mapper.FieldBox(&f); ok {
			view.Box = &box
		}
		if handler, err := s.registry.Handler(f.Type); err == nil {
			view.Display = handler.Display(&f, viewerEmail)
		}
		views = append(views, view)
	}
	return views, nil
}

// GateStatus evaluates the signing-order gate for an acting recipient.
func (s *Service) GateStatus(actingEmail string) (*GateState, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	state := EvaluateGate(store.Recipients(), actingEmail, store.OrderMode())
	return &state, nil
}

// Completion evaluates whether the recipient may invoke Complete.
func (s *Service) Completion(activeEmail string) (*CompletionResult, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	fields := store.Fields()
	mode := store.OrderMode()
	return &CompletionResult{
		Complete:        s.completion.IsComplete(fields, activeEmail, mode),
		MissingFieldIDs: s.completion.Missing(fields, activeEmail, mode),
	}, nil
}

// WatchCompletion re-evaluates completion on every store mutation and calls
// fn when the result flips. The returned stop function tears the watch down;
// no callbacks fire after it returns.
func (s *Service) WatchCompletion(activeEmail string, fn func(bool)) (stop func(), err error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	alive := true
	last := s.completion.IsComplete(store.Fields(), activeEmail, store.OrderMode())

	unsubscribe := store.Subscribe(func() {
		mu.Lock()
		defer mu.Unlock()
		if !alive {
			return
		}
		current := s.completion.IsComplete(store.Fields(), activeEmail, store.OrderMode())
		if current != last {
			last = current
			fn(current)
		}
	})
	return func() {
		mu.Lock()
		alive = false
		mu.Unlock()
		unsubscribe()
	}, nil
}

// CompleteSigning marks the recipient SIGNED once the gate permits and every
// relevant field is satisfied.
func (s *Service) CompleteSigning(email string) (*Recipient, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	if err := s.checkGate(store, email); err != nil {
		return nil, err
	}
	completion, err := s.Completion(email)
	if err != nil {
		return nil, err
	}
	if !completion.Complete {
		return nil, validationErrorf("%d field(s) still need a value", len(completion.MissingFieldIDs))
	}
	return s.setRecipientStatus(store, email, StatusSigned)
}

// RejectSigning marks the recipient REJECTED. Under sequential ordering this
// blocks every later signer.
func (s *Service) RejectSigning(email string) (*Recipient, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	return s.setRecipientStatus(store, email, StatusRejected)
}

func (s *Service) setRecipientStatus(store *Store, email string, status SigningStatus) (*Recipient, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	recipients := store.Recipients()
	for i := range recipients {
		if recipients[i].Email == email {
			recipients[i].SigningStatus = status
			store.SetRecipients(recipients, true, nil)
			return &recipients[i], nil
		}
	}
	return nil, fmt.Errorf("recipient %s not found", email)
}
