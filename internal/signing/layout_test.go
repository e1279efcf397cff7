package signing

import "testing"

func TestLayoutTrackerContext(t *testing.T) {
	tr := NewLayoutTracker()

	if _, ok := tr.Context(1); ok {
		t.Fatal("empty tracker should have no context")
	}

	tr.PageReady(1, Rect{X: 10, Y: 20, Width: 800, Height: 1000})
	ctx, ok := tr.Context(1)
	if !ok {
		t.Fatal("page 1 should have a context after PageReady")
	}
	if !ctx.BodyTarget {
		t.Error("without a container the body is the render target")
	}
	if ctx.PageRect.Width != 800 {
		t.Errorf("PageRect.Width = %v, want 800", ctx.PageRect.Width)
	}

	tr.Scrolled(0, 150)
	tr.SetContainer(Rect{X: 5, Y: 5, Width: 900, Height: 1200})
	ctx, _ = tr.Context(1)
	if ctx.BodyTarget {
		t.Error("with a container set the body is no longer the target")
	}
	if ctx.ScrollY != 150 {
		t.Errorf("ScrollY = %v, want 150", ctx.ScrollY)
	}

	tr.ClearContainer()
	ctx, _ = tr.Context(1)
	if !ctx.BodyTarget {
		t.Error("clearing the container falls back to the body target")
	}

	tr.PageRemoved(1)
	if _, ok := tr.Context(1); ok {
		t.Error("removed page should have no context")
	}
}

func TestLayoutTrackerResized(t *testing.T) {
	tr := NewLayoutTracker()
	tr.PageReady(1, Rect{Width: 800, Height: 1000})
	tr.PageReady(2, Rect{Y: 1024, Width: 800, Height: 1000})

	tr.Resized(map[int]Rect{
		1: {Width: 400, Height: 500},
	})

	if r, ok := tr.PageRect(1); !ok || r.Width != 400 {
		t.Errorf("page 1 rect = %+v (ok=%t), want width 400", r, ok)
	}
	if _, ok := tr.PageRect(2); ok {
		t.Error("resize replaces the full page set; page 2 should be gone")
	}
}

func TestLayoutTrackerSubscribe(t *testing.T) {
	tr := NewLayoutTracker()

	calls := 0
	unsubscribe := tr.Subscribe(func() { calls++ })

	tr.PageReady(1, Rect{Width: 800, Height: 1000})
	tr.Scrolled(0, 10)
	if calls != 2 {
		t.Errorf("expected 2 callbacks, got %d", calls)
	}

	unsubscribe()
	tr.PageReady(2, Rect{Width: 800, Height: 1000})
	if calls != 2 {
		t.Errorf("expected no callbacks after unsubscribe, got %d", calls)
	}
}
