package canvasrenderer

import (
	"bytes"
	"testing"

	"github.com/ByLCY/multisign/layout"
	"github.com/ByLCY/multisign/multi"
)

func testProfile() layout.Profile {
	return layout.Profile{
		ColorScheme:     multi.Monochrome1Bit,
		ColorForeground: multi.Legacy(1),
		PageBackground:  multi.Legacy(0),
		PageOnTime:      20,
		TextRectangle:   multi.NewRectangle(1, 1, 60, 30),
		JustPage:        multi.PageTop,
		JustLine:        multi.LineLeft,
		Font:            multi.FontRef{Number: 1},
	}
}

func TestRenderWritesPDF(t *testing.T) {
	res, err := layout.Build(testProfile(), "HELLO[np]WORLD", layout.Options{Debug: layout.DebugOptions{Spans: true}})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(res.Pages))
	}

	r := NewRendererWithOptions(Options{Title: "preview", Outline: true})
	data, err := r.Render(res)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", data[:min(len(data), 8)])
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for result without pages")
	}
}

func TestRenderRequiresRaster(t *testing.T) {
	res := &layout.Result{Pages: []layout.RenderedPage{{Width: 10, Height: 10}}}
	if _, err := NewRenderer().Render(res); err == nil {
		t.Fatalf("expected error for page without raster")
	}
}
