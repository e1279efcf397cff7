package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/inksign/inksign/internal/pagegeom"
	"github.com/inksign/inksign/internal/signing"
)

var (
	engineName   = flag.String("engine", "auto", "Geometry engine: auto, pdfcpu, ledongthuc")
	renderScale  = flag.Float64("scale", 1.5, "Points-to-pixels render scale")
	pageGap      = flag.Float64("gap", 24, "Vertical gap between stacked pages in pixels")
	outputFormat = flag.String("format", "text", "Output format: text, json")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", pdfPath)
		os.Exit(1)
	}

	result, err := dumpLayout(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading layout: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Field Layout Dump - inspect the page geometry a document is signed against")
	fmt.Println()
	fmt.Println("Reads a PDF's page boxes, lays the pages out the way the signing engine")
	fmt.Println("does, and shows where a sample centered field lands on each page. Useful")
	fmt.Println("for checking that percentage coordinates track real page sizes.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -engine    Geometry engine: auto (default), pdfcpu, ledongthuc")
	fmt.Println("  -scale     Points-to-pixels render scale (default 1.5)")
	fmt.Println("  -gap       Vertical gap between stacked pages in pixels (default 24)")
	fmt.Println("  -format    Output format: text (default), json")
	fmt.Println("  -help      Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  field_layout_dump contract.pdf")
	fmt.Println("  field_layout_dump -engine ledongthuc -scale 2.0 contract.pdf")
	fmt.Println("  field_layout_dump -format json contract.pdf")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  field_layout_dump [OPTIONS] <pdf_file>")
}

// PageLayout is one page's geometry at the configured render scale.
type PageLayout struct {
	Number      int          `json:"number"`
	WidthPts    float64      `json:"width_pts"`
	HeightPts   float64      `json:"height_pts"`
	Rect        signing.Rect `json:"rect"`
	SampleField signing.Rect `json:"sample_field"`
}

// LayoutDumpResult is the complete output of a layout dump.
type LayoutDumpResult struct {
	FilePath string       `json:"file_path"`
	Engine   string       `json:"engine"`
	Scale    float64      `json:"scale"`
	Pages    []PageLayout `json:"pages"`
}

func dumpLayout(pdfPath string) (*LayoutDumpResult, error) {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	provider, err := pagegeom.Open(absPath, pagegeom.Engine(*engineName))
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	rects, err := pagegeom.Layout(provider, *renderScale, *pageGap)
	if err != nil {
		return nil, err
	}

	// A signature-sized field centered on the page shows how percentages
	// land in pixels at this scale.
	widthPct, heightPct := signing.DefaultFieldSize(signing.FieldTypeSignature)
	sample := signing.Field{
		Type:       signing.FieldTypeSignature,
		PageX:      50 - widthPct/2,
		PageY:      50 - heightPct/2,
		PageWidth:  widthPct,
		PageHeight: heightPct,
	}

	result := &LayoutDumpResult{
		FilePath: absPath,
		Engine:   string(provider.Engine()),
		Scale:    *renderScale,
	}
	for _, r := range rects {
		box, err := provider.PageBox(r.Number)
		if err != nil {
			return nil, err
		}
		pageRect := signing.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
		result.Pages = append(result.Pages, PageLayout{
			Number:    r.Number,
			WidthPts:  box.Width,
			HeightPts: box.Height,
			Rect:      pageRect,
			SampleField: signing.MapFieldBox(&sample, signing.GeometryContext{
				PageRect:   pageRect,
				BodyTarget: true,
			}),
		})
	}
	return result, nil
}

func outputResults(result *LayoutDumpResult) error {
	switch *outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputText(result *LayoutDumpResult) error {
	fmt.Printf("File: %s\n", result.FilePath)
	fmt.Printf("Engine: %s, scale: %.2f\n", result.Engine, result.Scale)
	fmt.Printf("Pages: %d\n\n", len(result.Pages))

	for _, p := range result.Pages {
		fmt.Printf("[%d] %.1f x %.1f pts\n", p.Number, p.WidthPts, p.HeightPts)
		fmt.Printf("    Laid out at: x=%.1f y=%.1f w=%.1f h=%.1f\n",
			p.Rect.X, p.Rect.Y, p.Rect.Width, p.Rect.Height)
		fmt.Printf("    Centered signature field: x=%.1f y=%.1f w=%.1f h=%.1f\n",
			p.SampleField.X, p.SampleField.Y, p.SampleField.Width, p.SampleField.Height)
		fmt.Println()
	}
	return nil
}

func init() {
	flag.Usage = func() {
		printHelp()
	}
}
