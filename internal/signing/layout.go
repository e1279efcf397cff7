package signing

import "sync"

// LayoutTracker holds the live page and container boxes the Geometry Mapper
// resolves against. The external document renderer reports layout through
// explicit notifications (PageReady, Resized, Scrolled) instead of being
// polled, and interested parties subscribe for recompute triggers.
//
// All notifications are idempotent: reporting the same layout twice leaves
// the tracker in the same state and only costs subscribers one callback.
type LayoutTracker struct {
	mu           sync.RWMutex
	pages        map[int]Rect
	container    Rect
	hasContainer bool
	scrollX      float64
	scrollY      float64

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewLayoutTracker creates an empty tracker. Until a container is set, field
// coordinates are computed in absolute document space (body target).
func NewLayoutTracker() *LayoutTracker {
	return &LayoutTracker{
		pages: make(map[int]Rect),
		subs:  make(map[int]func()),
	}
}

// PageReady records the rendered box for a page. The renderer calls this when
// a page first lays out and again whenever its box changes.
func (t *LayoutTracker) PageReady(pageNumber int, rect Rect) {
	t.mu.Lock()
	t.pages[pageNumber] = rect
	t.mu.Unlock()
	t.notify()
}

// PageRemoved forgets a page's layout; fields on it render nothing until the
// page is reported ready again.
func (t *LayoutTracker) PageRemoved(pageNumber int) {
	t.mu.Lock()
	delete(t.pages, pageNumber)
	t.mu.Unlock()
	t.notify()
}

// Resized replaces the layout of every reported page in one notification,
// used when a window resize reflows the whole document.
func (t *LayoutTracker) Resized(pages map[int]Rect) {
	t.mu.Lock()
	t.pages = make(map[int]Rect, len(pages))
	for n, r := range pages {
		t.pages[n] = r
	}
	t.mu.Unlock()
	t.notify()
}

// Scrolled records the window scroll offsets.
func (t *LayoutTracker) Scrolled(x, y float64) {
	t.mu.Lock()
	t.scrollX, t.scrollY = x, y
	t.mu.Unlock()
	t.notify()
}

// SetContainer switches the render target to a dedicated overlay container.
func (t *LayoutTracker) SetContainer(rect Rect) {
	t.mu.Lock()
	t.container = rect
	t.hasContainer = true
	t.mu.Unlock()
	t.notify()
}

// ClearContainer falls back to the document body as the render target.
func (t *LayoutTracker) ClearContainer() {
	t.mu.Lock()
	t.container = Rect{}
	t.hasContainer = false
	t.mu.Unlock()
	t.notify()
}

// PageRect returns the current box for a page.
func (t *LayoutTracker) PageRect(pageNumber int) (Rect, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.pages[pageNumber]
	return r, ok
}

// PageNumbers returns the pages that currently have a layout.
func (t *LayoutTracker) PageNumbers() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	nums := make([]int, 0, len(t.pages))
	for n := range t.pages {
		nums = append(nums, n)
	}
	return nums
}

// Context assembles the geometry context for a page. ok is false when the
// page has not reported a layout yet.
func (t *LayoutTracker) Context(pageNumber int) (GeometryContext, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	pageRect, ok := t.pages[pageNumber]
	if !ok {
		return GeometryContext{}, false
	}
	return GeometryContext{
		PageRect:      pageRect,
		ContainerRect: t.container,
		ScrollX:       t.scrollX,
		ScrollY:       t.scrollY,
		BodyTarget:    !t.hasContainer,
	}, true
}

// Subscribe registers a layout-change callback and returns its unsubscribe
// function. Callbacks run synchronously on the notifying goroutine and must
// not mutate the tracker.
func (t *LayoutTracker) Subscribe(fn func()) (unsubscribe func()) {
	t.subMu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.subMu.Unlock()
	return func() {
		t.subMu.Lock()
		delete(t.subs, id)
		t.subMu.Unlock()
	}
}

func (t *LayoutTracker) notify() {
	t.subMu.Lock()
	fns := make([]func(), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
