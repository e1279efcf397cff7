package pagegeom

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// ledongthucProvider reads page dimensions through ledongthuc/pdf. The
// library only reads from files, so the handle stays open until Close.
type ledongthucProvider struct {
	file   *os.File
	reader *pdf.Reader
}

func openLedongthuc(path string) (Provider, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &ledongthucProvider{file: f, reader: r}, nil
}

func (p *ledongthucProvider) PageCount() int {
	return p.reader.NumPage()
}

func (p *ledongthucProvider) PageBox(pageNumber int) (PageBox, error) {
	if pageNumber < 1 || pageNumber > p.reader.NumPage() {
		return PageBox{}, fmt.Errorf("page %d out of range (1-%d)", pageNumber, p.reader.NumPage())
	}
	page := p.reader.Page(pageNumber)
	if page.V.IsNull() {
		return PageBox{}, fmt.Errorf("page %d is not readable", pageNumber)
	}

	// MediaBox may be inherited from an ancestor page tree node, so walk
	// the Parent chain until a box shows up.
	mediaBox := pdf.Value{}
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		if b := v.Key("MediaBox"); !b.IsNull() {
			mediaBox = b
			break
		}
	}
	if mediaBox.Kind() != pdf.Array || mediaBox.Len() != 4 {
		return PageBox{}, fmt.Errorf("page %d has no usable MediaBox", pageNumber)
	}
	x0 := mediaBox.Index(0).Float64()
	y0 := mediaBox.Index(1).Float64()
	x1 := mediaBox.Index(2).Float64()
	y1 := mediaBox.Index(3).Float64()
	return PageBox{Width: x1 - x0, Height: y1 - y0}, nil
}

func (p *ledongthucProvider) Engine() Engine {
	return EngineLedongthuc
}

func (p *ledongthucProvider) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}
