// Package pagegeom supplies page box geometry for PDF documents behind a
// small provider interface with interchangeable engines. The signing layout
// tracker is seeded from these boxes; everything past that point works in
// rendered pixels.
package pagegeom

import (
	"fmt"
)

// Engine identifies the underlying PDF library.
type Engine string

const (
	EnginePDFCPU     Engine = "pdfcpu"
	EngineLedongthuc Engine = "ledongthuc"
	// EngineAuto tries pdfcpu first and falls back to ledongthuc.
	EngineAuto Engine = "auto"
)

// PageBox is a page's media box size in PDF points.
type PageBox struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Provider exposes the page geometry of one opened document.
type Provider interface {
	PageCount() int
	// PageBox returns the media box for a 1-based page number.
	PageBox(pageNumber int) (PageBox, error)
	Engine() Engine
	Close() error
}

// Open opens a document with the requested engine. EngineAuto prefers
// pdfcpu and falls back to ledongthuc when pdfcpu cannot read the file.
func Open(path string, engine Engine) (Provider, error) {
	switch engine {
	case EnginePDFCPU:
		return openPDFCPU(path)
	case EngineLedongthuc:
		return openLedongthuc(path)
	case EngineAuto, "":
		p, err := openPDFCPU(path)
		if err == nil {
			return p, nil
		}
		fallback, ferr := openLedongthuc(path)
		if ferr != nil {
			return nil, fmt.Errorf("pdfcpu failed (%v); ledongthuc failed: %w", err, ferr)
		}
		return fallback, nil
	default:
		return nil, fmt.Errorf("unsupported page geometry engine %q", engine)
	}
}

// PageRect is a page's rendered box in pixel space.
type PageRect struct {
	Number int     `json:"number"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout stacks every page vertically at the given render scale with a gap
// between pages, producing the initial rects a layout tracker is seeded
// with. Pages are left-aligned at x=0.
func Layout(p Provider, scale, gap float64) ([]PageRect, error) {
	if scale <= 0 {
		scale = 1
	}
	rects := make([]PageRect, 0, p.PageCount())
	y := 0.0
	for n := 1; n <= p.PageCount(); n++ {
		box, err := p.PageBox(n)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		rects = append(rects, PageRect{
			Number: n,
			X:      0,
			Y:      y,
			Width:  box.Width * scale,
			Height: box.Height * scale,
		})
		y += box.Height*scale + gap
	}
	return rects, nil
}
