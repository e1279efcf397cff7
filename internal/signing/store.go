package signing

import (
	"log"
	"sync"
)

// Step identifies one authoring bucket of the active document.
type Step string

const (
	StepSettings     Step = "settings"
	StepRecipients   Step = "recipients"
	StepFields       Step = "fields"
	StepDistribution Step = "distribution"
)

// Bucket keys with a typed meaning inside their step.
const (
	KeyFields     = "fields"      // []Field, the canonical field list
	KeyRecipients = "recipients"  // []Recipient
	KeyOrderMode  = "order_mode"  // SigningOrderMode
	KeyDateFormat = "date_format" // string, settings bucket
	KeyTimeZone   = "time_zone"   // string, settings bucket
)

// CommitResult reports the outcome of pushing local state to the document
// service.
type CommitResult struct {
	IsError bool `json:"is_error"`
}

// Committer is the document-service collaborator the store pushes field and
// recipient payloads to. Failures never roll back local state.
type Committer interface {
	CommitFields(documentID string, fields []Field) error
	CommitRecipients(documentID string, recipients []Recipient) error
}

// Store holds the per-step state buckets of the active document. Reads
// return snapshots; writes shallow-merge a patch into the step's bucket,
// bump the version, and notify subscribers. Local state is optimistic: a
// failed commit is logged and reported through onResult, nothing more.
type Store struct {
	documentID string
	committer  Committer

	mu      sync.RWMutex
	buckets map[Step]map[string]any
	version uint64

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewStore creates an empty store for a document. committer may be nil, in
// which case commit requests succeed locally and report no error.
func NewStore(documentID string, committer Committer) *Store {
	return &Store{
		documentID: documentID,
		committer:  committer,
		buckets:    make(map[Step]map[string]any),
		subs:       make(map[int]func()),
	}
}

// DocumentID returns the document this store belongs to.
func (s *Store) DocumentID() string {
	return s.documentID
}

// Version returns the store's mutation counter. It increases by exactly one
// per write, never decreases, and is safe to use as a cheap change detector.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// GetStepData returns a shallow copy of the step's bucket, or nil when the
// step has no data yet.
func (s *Store) GetStepData(step Step) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.buckets[step]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(bucket))
	for k, v := range bucket {
		if fields, ok := v.([]Field); ok {
			out[k] = cloneFields(fields)
			continue
		}
		out[k] = v
	}
	return out
}

func cloneFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i := range fields {
		out[i] = fields[i].Clone()
	}
	return out
}

// UpdateStepData shallow-merges patch into the step's bucket. When commit is
// set the resulting field/recipient state is pushed to the document service
// on a separate goroutine; onResult (optional) receives the outcome.
func (s *Store) UpdateStepData(step Step, patch map[string]any, commit bool, onResult func(CommitResult)) {
	s.mu.Lock()
	bucket, ok := s.buckets[step]
	if !ok {
		bucket = make(map[string]any, len(patch))
		s.buckets[step] = bucket
	}
	for k, v := range patch {
		bucket[k] = v
	}
	s.version++
	s.mu.Unlock()

	s.notify()

	if commit {
		go s.commit(step, onResult)
	} else if onResult != nil {
		onResult(CommitResult{})
	}
}

func (s *Store) commit(step Step, onResult func(CommitResult)) {
	result := CommitResult{}
	if s.committer != nil {
		var err error
		switch step {
		case StepFields:
			err = s.committer.CommitFields(s.documentID, s.Fields())
		case StepRecipients:
			err = s.committer.CommitRecipients(s.documentID, s.Recipients())
		}
		if err != nil {
			log.Printf("commit of %s for document %s failed: %v", step, s.documentID, err)
			result.IsError = true
		}
	}
	if onResult != nil {
		onResult(result)
	}
}

// Fields returns a snapshot of the canonical field list. Entry and option
// slices are copied too, so the snapshot (and the commit goroutine reading
// one) never shares memory with subsequent writes.
func (s *Store) Fields() []Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.buckets[StepFields]
	if !ok {
		return nil
	}
	fields, ok := bucket[KeyFields].([]Field)
	if !ok {
		return nil
	}
	return cloneFields(fields)
}

// SetFields replaces the canonical field list.
func (s *Store) SetFields(fields []Field, commit bool, onResult func(CommitResult)) {
	s.UpdateStepData(StepFields, map[string]any{KeyFields: fields}, commit, onResult)
}

// FieldByID returns the field with the given id, or nil.
func (s *Store) FieldByID(id string) *Field {
	for _, f := range s.Fields() {
		if f.ID == id {
			return &f
		}
	}
	return nil
}

// ReplaceField swaps the stored field with the same id for the given one.
// It reports false when no field with that id exists.
func (s *Store) ReplaceField(field Field, commit bool, onResult func(CommitResult)) bool {
	fields := s.Fields()
	for i := range fields {
		if fields[i].ID == field.ID {
			fields[i] = field
			s.SetFields(fields, commit, onResult)
			return true
		}
	}
	return false
}

// AppendField adds a newly placed field to the canonical list.
func (s *Store) AppendField(field Field, commit bool, onResult func(CommitResult)) {
	s.SetFields(append(s.Fields(), field), commit, onResult)
}

// RemoveField deletes a field by id; reports false when absent.
func (s *Store) RemoveField(id string, commit bool, onResult func(CommitResult)) bool {
	fields := s.Fields()
	for i := range fields {
		if fields[i].ID == id {
			s.SetFields(append(fields[:i], fields[i+1:]...), commit, onResult)
			return true
		}
	}
	return false
}

// Recipients returns a snapshot of the recipient list.
func (s *Store) Recipients() []Recipient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.buckets[StepRecipients]
	if !ok {
		return nil
	}
	recipients, ok := bucket[KeyRecipients].([]Recipient)
	if !ok {
		return nil
	}
	out := make([]Recipient, len(recipients))
	copy(out, recipients)
	return out
}

// SetRecipients replaces the recipient list.
func (s *Store) SetRecipients(recipients []Recipient, commit bool, onResult func(CommitResult)) {
	s.UpdateStepData(StepRecipients, map[string]any{KeyRecipients: recipients}, commit, onResult)
}

// RecipientByEmail returns the recipient with the given email, or nil.
func (s *Store) RecipientByEmail(email string) *Recipient {
	for _, r := range s.Recipients() {
		if r.Email == email {
			return &r
		}
	}
	return nil
}

// OrderMode returns the document's signing-order mode, defaulting to
// PARALLEL when the settings bucket has none.
func (s *Store) OrderMode() SigningOrderMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.buckets[StepSettings]
	if !ok {
		return OrderParallel
	}
	mode, ok := bucket[KeyOrderMode].(SigningOrderMode)
	if !ok {
		return OrderParallel
	}
	return mode
}

// Subscribe registers a mutation callback and returns its unsubscribe
// function. Callbacks run synchronously after every write.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
