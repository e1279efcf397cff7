package pagegeom

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfcpuProvider reads page dimensions through pdfcpu. All boxes are read
// at open time; the file is not kept open.
type pdfcpuProvider struct {
	boxes []PageBox
}

func openPDFCPU(path string) (Provider, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	boxes := make([]PageBox, len(dims))
	for i, d := range dims {
		boxes[i] = PageBox{Width: d.Width, Height: d.Height}
	}
	return &pdfcpuProvider{boxes: boxes}, nil
}

func (p *pdfcpuProvider) PageCount() int {
	return len(p.boxes)
}

func (p *pdfcpuProvider) PageBox(pageNumber int) (PageBox, error) {
	if pageNumber < 1 || pageNumber > len(p.boxes) {
		return PageBox{}, fmt.Errorf("page %d out of range (1-%d)", pageNumber, len(p.boxes))
	}
	return p.boxes[pageNumber-1], nil
}

func (p *pdfcpuProvider) Engine() Engine {
	return EnginePDFCPU
}

func (p *pdfcpuProvider) Close() error {
	return nil
}
