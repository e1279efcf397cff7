package signing

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMapFieldBox(t *testing.T) {
	field := &Field{
		PageNumber: 1,
		PageX:      10,
		PageY:      20,
		PageWidth:  25,
		PageHeight: 5,
	}

	tests := []struct {
		name string
		ctx  GeometryContext
		want Rect
	}{
		{
			name: "body target includes scroll offsets",
			ctx: GeometryContext{
				PageRect:   Rect{X: 100, Y: 50, Width: 800, Height: 1000},
				ScrollX:    0,
				ScrollY:    300,
				BodyTarget: true,
			},
			want: Rect{X: 180, Y: 550, Width: 200, Height: 50},
		},
		{
			name: "container target is relative to the container",
			ctx: GeometryContext{
				PageRect:      Rect{X: 100, Y: 50, Width: 800, Height: 1000},
				ContainerRect: Rect{X: 90, Y: 40},
				ScrollY:       300, // ignored for container targets
			},
			want: Rect{X: 90, Y: 210, Width: 200, Height: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapFieldBox(field, tt.ctx)
			if !almostEqual(got.X, tt.want.X) || !almostEqual(got.Y, tt.want.Y) ||
				!almostEqual(got.Width, tt.want.Width) || !almostEqual(got.Height, tt.want.Height) {
				t.Errorf("MapFieldBox = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoxPercentsRoundTrip(t *testing.T) {
	ctxs := []GeometryContext{
		{PageRect: Rect{X: 100, Y: 50, Width: 800, Height: 1000}, ScrollY: 250, BodyTarget: true},
		{PageRect: Rect{X: 100, Y: 50, Width: 612, Height: 792}, ContainerRect: Rect{X: 80, Y: 30}},
	}
	fields := []Field{
		{PageX: 0, PageY: 0, PageWidth: 100, PageHeight: 100},
		{PageX: 12.5, PageY: 33.25, PageWidth: 22, PageHeight: 6},
		{PageX: 95, PageY: 1, PageWidth: 4, PageHeight: 2},
	}

	for _, ctx := range ctxs {
		for _, f := range fields {
			box := MapFieldBox(&f, ctx)
			x, y, w, h := BoxPercents(box, ctx)
			if !almostEqual(x, f.PageX) || !almostEqual(y, f.PageY) ||
				!almostEqual(w, f.PageWidth) || !almostEqual(h, f.PageHeight) {
				t.Errorf("round trip of %+v gave (%v, %v, %v, %v)", f, x, y, w, h)
			}
		}
	}
}

func TestPlacementPercentsCentersUnderPointer(t *testing.T) {
	pageRect := Rect{X: 100, Y: 200, Width: 800, Height: 1000}

	// Drop in the middle of the page: the field center lands on the pointer.
	x, y := PlacementPercents(500, 700, pageRect, 22, 6)
	if !almostEqual(x, 50-11) {
		t.Errorf("pageX = %v, want %v", x, 50-11.0)
	}
	if !almostEqual(y, 50-3) {
		t.Errorf("pageY = %v, want %v", y, 50-3.0)
	}
}

func TestMapperWithoutLayout(t *testing.T) {
	layout := NewLayoutTracker()
	m := NewMapper(layout)
	f := &Field{PageNumber: 3, PageX: 10, PageY: 10, PageWidth: 10, PageHeight: 10}

	if _, ok := m.FieldBox(f); ok {
		t.Error("FieldBox should report no layout for an unreported page")
	}
	if _, _, ok := m.Place(3, 100, 100, 22, 6); ok {
		t.Error("Place should report no layout for an unreported page")
	}
	if _, _, _, _, ok := m.Percents(3, Rect{X: 10, Y: 10, Width: 5, Height: 5}); ok {
		t.Error("Percents should report no layout for an unreported page")
	}

	// Once the page reports, everything resolves.
	layout.PageReady(3, Rect{X: 0, Y: 0, Width: 800, Height: 1000})
	if _, ok := m.FieldBox(f); !ok {
		t.Error("FieldBox should resolve after PageReady")
	}
}
