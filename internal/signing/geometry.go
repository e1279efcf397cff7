package signing

// Rect is a pixel rectangle. X/Y are measured from the top-left of whatever
// origin the rectangle is expressed against (viewport, document body, or a
// render-target container).
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GeometryContext carries the live boxes a field's pixel coordinates are
// computed against. Rects are injected by the caller (via the LayoutTracker)
// instead of being discovered from a global document tree, so the mapping is
// a pure function of its inputs.
type GeometryContext struct {
	// PageRect is the rendered page's box in viewport coordinates.
	PageRect Rect
	// ContainerRect is the render-target container's box in viewport
	// coordinates. Ignored when BodyTarget is set.
	ContainerRect Rect
	// ScrollX/ScrollY are the window scroll offsets, used only for the
	// body target where coordinates live in absolute document space.
	ScrollX float64
	ScrollY float64
	// BodyTarget computes coordinates in absolute document space instead
	// of relative to ContainerRect.
	BodyTarget bool
}

// origin returns the render target's top-left for the page in ctx.
func (ctx GeometryContext) origin() (left, top float64) {
	if ctx.BodyTarget {
		return ctx.PageRect.X + ctx.ScrollX, ctx.PageRect.Y + ctx.ScrollY
	}
	return ctx.PageRect.X - ctx.ContainerRect.X, ctx.PageRect.Y - ctx.ContainerRect.Y
}

// MapFieldBox converts the field's percentage geometry into a pixel box
// relative to the render target's top-left.
func MapFieldBox(f *Field, ctx GeometryContext) Rect {
	left, top := ctx.origin()
	return Rect{
		X:      left + (f.PageX/100)*ctx.PageRect.Width,
		Y:      top + (f.PageY/100)*ctx.PageRect.Height,
		Width:  (f.PageWidth / 100) * ctx.PageRect.Width,
		Height: (f.PageHeight / 100) * ctx.PageRect.Height,
	}
}

// BoxPercents is the inverse of MapFieldBox: given a pixel box relative to
// the render target, it recovers the page-relative percentages. Used when a
// drag/resize interaction finishes.
func BoxPercents(box Rect, ctx GeometryContext) (pageX, pageY, pageWidth, pageHeight float64) {
	left, top := ctx.origin()
	pageX = ((box.X - left) / ctx.PageRect.Width) * 100
	pageY = ((box.Y - top) / ctx.PageRect.Height) * 100
	pageWidth = (box.Width / ctx.PageRect.Width) * 100
	pageHeight = (box.Height / ctx.PageRect.Height) * 100
	return pageX, pageY, pageWidth, pageHeight
}

// PlacementPercents computes the stored position for a new field dropped at
// a pointer location (viewport coordinates). The field is centered under the
// pointer by subtracting half its percentage size.
func PlacementPercents(pointerX, pointerY float64, pageRect Rect, widthPct, heightPct float64) (pageX, pageY float64) {
	pageX = ((pointerX-pageRect.X)/pageRect.Width)*100 - widthPct/2
	pageY = ((pointerY-pageRect.Y)/pageRect.Height)*100 - heightPct/2
	return pageX, pageY
}

// Mapper resolves field geometry against the tracker's current layout. All
// methods are read-only and cheap enough to run on every layout trigger.
type Mapper struct {
	layout *LayoutTracker
}

// NewMapper creates a mapper bound to a layout tracker.
func NewMapper(layout *LayoutTracker) *Mapper {
	return &Mapper{layout: layout}
}

// FieldBox returns the field's pixel box relative to the current render
// target. ok is false while the field's page has no layout yet; the caller
// renders nothing and retries on the next layout trigger.
func (m *Mapper) FieldBox(f *Field) (Rect, bool) {
	ctx, ok := m.layout.Context(f.PageNumber)
	if !ok {
		return Rect{}, false
	}
	return MapFieldBox(f, ctx), true
}

// Place computes the percentages for a new field dropped at a pointer
// location on the given page. ok is false when the page has no layout.
func (m *Mapper) Place(pageNumber int, pointerX, pointerY, widthPct, heightPct float64) (pageX, pageY float64, ok bool) {
	ctx, ok := m.layout.Context(pageNumber)
	if !ok {
		return 0, 0, false
	}
	pageX, pageY = PlacementPercents(pointerX, pointerY, ctx.PageRect, widthPct, heightPct)
	return pageX, pageY, true
}

// Percents recovers percentage geometry from a pixel box on the given page.
// ok is false when the page has no layout.
func (m *Mapper) Percents(pageNumber int, box Rect) (pageX, pageY, pageWidth, pageHeight float64, ok bool) {
	ctx, ok := m.layout.Context(pageNumber)
	if !ok {
		return 0, 0, 0, 0, false
	}
	pageX, pageY, pageWidth, pageHeight = BoxPercents(box, ctx)
	return pageX, pageY, pageWidth, pageHeight, true
}
