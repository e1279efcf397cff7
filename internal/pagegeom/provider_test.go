package pagegeom

import (
	"errors"
	"testing"
)

// fakeProvider is an in-memory Provider for exercising the layout math.
type fakeProvider struct {
	boxes []PageBox
}

func (p *fakeProvider) PageCount() int { return len(p.boxes) }

func (p *fakeProvider) PageBox(pageNumber int) (PageBox, error) {
	if pageNumber < 1 || pageNumber > len(p.boxes) {
		return PageBox{}, errors.New("page out of range")
	}
	return p.boxes[pageNumber-1], nil
}

func (p *fakeProvider) Engine() Engine { return Engine("fake") }
func (p *fakeProvider) Close() error   { return nil }

func TestLayoutStacksPagesVertically(t *testing.T) {
	p := &fakeProvider{boxes: []PageBox{
		{Width: 612, Height: 792},
		{Width: 612, Height: 792},
		{Width: 792, Height: 612}, // landscape page
	}}

	rects, err := Layout(p, 2, 10)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if len(rects) != 3 {
		t.Fatalf("got %d rects, want 3", len(rects))
	}

	want := []PageRect{
		{Number: 1, X: 0, Y: 0, Width: 1224, Height: 1584},
		{Number: 2, X: 0, Y: 1594, Width: 1224, Height: 1584},
		{Number: 3, X: 0, Y: 3188, Width: 1584, Height: 1224},
	}
	for i, r := range rects {
		if r != want[i] {
			t.Errorf("rect %d = %+v, want %+v", i, r, want[i])
		}
	}
}

func TestLayoutDefaultsNonPositiveScale(t *testing.T) {
	p := &fakeProvider{boxes: []PageBox{{Width: 612, Height: 792}}}
	rects, err := Layout(p, 0, 0)
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if rects[0].Width != 612 || rects[0].Height != 792 {
		t.Errorf("zero scale should fall back to 1:1, got %+v", rects[0])
	}
}

func TestOpenUnsupportedEngine(t *testing.T) {
	if _, err := Open("whatever.pdf", Engine("bogus")); err == nil {
		t.Error("unsupported engine should error")
	}
}

func TestOpenMissingFile(t *testing.T) {
	for _, engine := range []Engine{EnginePDFCPU, EngineLedongthuc, EngineAuto} {
		if _, err := Open("/nonexistent/path.pdf", engine); err == nil {
			t.Errorf("engine %s: opening a missing file should error", engine)
		}
	}
}
