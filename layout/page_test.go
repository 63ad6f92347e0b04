package layout

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/multisign/multi"
	"github.com/ByLCY/multisign/raster"
)

var amber = [3]uint8{255, 208, 0}

// build 使用内置字体渲染并记录文本段位置。
func build(t *testing.T, p Profile, ms string, opts Options) (*Result, error) {
	t.Helper()
	opts.Debug.Spans = true
	return Build(p, ms, opts)
}

func mustBuild(t *testing.T, p Profile, ms string, opts Options) *Result {
	t.Helper()
	res, err := build(t, p, ms, opts)
	if err != nil {
		t.Fatalf("%q: build error: %v", ms, err)
	}
	return res
}

// litBounds 返回已绘制（alpha 非 0）像素的外接矩形。
func litBounds(r *raster.Raster) image.Rectangle {
	var b image.Rectangle
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			if r.Pixel(x, y)[3] != 0 {
				b = b.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return b
}

// countPixels 统计区域内等于 want 的像素数。
func countPixels(r *raster.Raster, area image.Rectangle, want [4]uint8) int {
	n := 0
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if r.Pixel(x, y) == want {
				n++
			}
		}
	}
	return n
}

func spanOrigins(page RenderedPage) [][2]int {
	var out [][2]int
	for _, s := range page.Spans {
		out = append(out, [2]int{s.X, s.Y})
	}
	return out
}

func TestRenderEmptyPageIsBackground(t *testing.T) {
	res := mustBuild(t, fullMatrix(), "[pb1]", Options{})
	page := res.Pages[0]
	if page.Width != 60 || page.Height != 30 {
		t.Fatalf("unexpected page size %dx%d", page.Width, page.Height)
	}
	want := [4]uint8{amber[0], amber[1], amber[2], 0}
	for y := 0; y < page.Height; y++ {
		for x := 0; x < page.Width; x++ {
			if p := page.Raster.Pixel(x, y); p != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, p, want)
			}
		}
	}
}

func TestRenderUnresolvableBackground(t *testing.T) {
	p := fullMatrix()
	p.PageBackground = multi.Legacy(7)
	if _, err := build(t, p, "A", Options{}); !errors.Is(err, multi.ErrOther) {
		t.Fatalf("expected ErrOther, got %v", err)
	}
}

func TestRenderLineJustification(t *testing.T) {
	cases := []struct {
		ms   string
		want [][2]int
	}{
		{"HELLO", [][2]int{{1, 1}}},
		{"[jl3]HELLO", [][2]int{{13, 1}}},
		{"[jl4]HELLO", [][2]int{{26, 1}}},
		{"L[jl3]C[jl4]R", [][2]int{{1, 1}, {27, 1}, {54, 1}}},
	}
	for _, tc := range cases {
		res := mustBuild(t, fullMatrix(), tc.ms, Options{})
		if diff := cmp.Diff(tc.want, spanOrigins(res.Pages[0])); diff != "" {
			t.Fatalf("%q: span origins mismatch (-want +got):\n%s", tc.ms, diff)
		}
	}
}

func TestRenderPageJustification(t *testing.T) {
	cases := []struct {
		ms   string
		want [][2]int
	}{
		{"[jp3]A", [][2]int{{1, 9}}},
		{"[jp4]A", [][2]int{{1, 18}}},
		{"A[jp4]B", [][2]int{{1, 1}, {1, 18}}},
	}
	for _, tc := range cases {
		res := mustBuild(t, fullMatrix(), tc.ms, Options{})
		if diff := cmp.Diff(tc.want, spanOrigins(res.Pages[0])); diff != "" {
			t.Fatalf("%q: span origins mismatch (-want +got):\n%s", tc.ms, diff)
		}
	}
}

func TestRenderJustificationOrder(t *testing.T) {
	for _, ms := range []string{"[jl4]R[jl2]L", "[jp4]B[jp2]T"} {
		if _, err := build(t, fullMatrix(), ms, Options{}); !errors.Is(err, multi.ErrUnsupportedTagValue) {
			t.Fatalf("%q: expected ErrUnsupportedTagValue, got %v", ms, err)
		}
	}
	if _, err := build(t, fullMatrix(), "[jl5]A", Options{}); !errors.Is(err, multi.ErrUnsupportedTagValue) {
		t.Fatalf("full justification must be rejected, got %v", err)
	}
}

func TestRenderLineSpacing(t *testing.T) {
	cases := []struct {
		ms   string
		want [][2]int
	}{
		// 默认行距取两行字体行距的平均值（2）
		{"A[nl]B", [][2]int{{1, 1}, {1, 16}}},
		{"A[nl3]B", [][2]int{{1, 1}, {1, 17}}},
		// 新块的首行不使用上一块的显式行距
		{"A[nl3][tr1,16,60,15]C", [][2]int{{1, 1}, {1, 16}}},
		// 空行高度取当前字体高度
		{"[nl]A", [][2]int{{1, 16}}},
	}
	for _, tc := range cases {
		res := mustBuild(t, fullMatrix(), tc.ms, Options{})
		if diff := cmp.Diff(tc.want, spanOrigins(res.Pages[0])); diff != "" {
			t.Fatalf("%q: span origins mismatch (-want +got):\n%s", tc.ms, diff)
		}
	}
}

func TestRenderCharacterSpacing(t *testing.T) {
	cases := []struct {
		ms    string
		want  [][2]int
		width int
	}{
		{"[sc3]AB", [][2]int{{1, 1}}, 17},
		// 相邻 span 的字距取平均值，0.5 向上取整
		{"[sc4]A[sc2]B", [][2]int{{1, 1}, {11, 1}}, 7},
		{"[sc3]A[sc4]B", [][2]int{{1, 1}, {12, 1}}, 7},
	}
	for _, tc := range cases {
		res := mustBuild(t, fullMatrix(), tc.ms, Options{})
		page := res.Pages[0]
		if diff := cmp.Diff(tc.want, spanOrigins(page)); diff != "" {
			t.Fatalf("%q: span origins mismatch (-want +got):\n%s", tc.ms, diff)
		}
		if page.Spans[0].Width != tc.width {
			t.Fatalf("%q: first span width = %d, want %d", tc.ms, page.Spans[0].Width, tc.width)
		}
	}
}

func TestRenderTextTooBig(t *testing.T) {
	for _, ms := range []string{"ABCDEFGHI", "A[nl]B[nl]C", "LEFTSIDE[jl3]MID"} {
		if _, err := build(t, fullMatrix(), ms, Options{}); !errors.Is(err, multi.ErrTextTooBig) {
			t.Fatalf("%q: expected ErrTextTooBig, got %v", ms, err)
		}
	}
}

func TestRenderGlyphsStayInsideSpan(t *testing.T) {
	res := mustBuild(t, fullMatrix(), "[jl3]HELLO", Options{})
	page := res.Pages[0]
	b := litBounds(page.Raster)
	if b.Empty() {
		t.Fatalf("nothing was drawn")
	}
	box := image.Rect(12, 0, 12+35, 13)
	if !b.In(box) {
		t.Fatalf("drawn pixels %v outside span box %v", b, box)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := page.Raster.Pixel(x, y)
			if p[3] != 0 && [3]uint8{p[0], p[1], p[2]} != amber {
				t.Fatalf("pixel (%d,%d) = %v, want foreground", x, y, p)
			}
		}
	}
}

func TestRenderTextBackground(t *testing.T) {
	res := mustBuild(t, fullMatrix(), "[cb1][cf0]A", Options{})
	r := res.Pages[0].Raster
	if b := litBounds(r); b != image.Rect(0, 0, 7, 13) {
		t.Fatalf("background fill bounds = %v", b)
	}

	// [cb] 复位后不再填充文本背景
	res = mustBuild(t, fullMatrix(), "[cb1][cf0]A[cb]B", Options{})
	if n := countPixels(res.Pages[0].Raster, image.Rect(7, 0, 14, 13), [4]uint8{0, 0, 0, 0}); n == 0 {
		t.Fatalf("text after [cb] must not get a background fill")
	}
}

// 仅设置页面背景时，字符周围保持页面背景色（反色显示）。
func TestRenderPageBackgroundWithoutTextBackground(t *testing.T) {
	res := mustBuild(t, fullMatrix(), "[pb1][cf0]A", Options{})
	r := res.Pages[0].Raster
	cell := image.Rect(0, 0, 7, 13)
	page := countPixels(r, cell, [4]uint8{amber[0], amber[1], amber[2], 0})
	glyph := countPixels(r, cell, [4]uint8{0, 0, 0, 0xff})
	if page == 0 || glyph == 0 {
		t.Fatalf("glyph cell has %d page pixels and %d glyph pixels", page, glyph)
	}
	if page+glyph != cell.Dx()*cell.Dy() {
		t.Fatalf("glyph cell contains pixels other than page background and foreground")
	}
}

func TestRenderTextRectangle(t *testing.T) {
	res := mustBuild(t, fullMatrix(), "A[tr1,16,60,15][jl4]B", Options{})
	want := [][2]int{{1, 1}, {54, 16}}
	if diff := cmp.Diff(want, spanOrigins(res.Pages[0])); diff != "" {
		t.Fatalf("span origins mismatch (-want +got):\n%s", diff)
	}
	if _, err := build(t, fullMatrix(), "[tr1,16,60,15]A[nl]B", Options{}); !errors.Is(err, multi.ErrTextTooBig) {
		t.Fatalf("expected ErrTextTooBig in small rectangle, got %v", err)
	}
}

func TestRenderColorRectangle(t *testing.T) {
	res := mustBuild(t, fullMatrix(), "[cr11,6,10,5,1]", Options{})
	r := res.Pages[0].Raster
	if b := litBounds(r); b != image.Rect(10, 5, 20, 10) {
		t.Fatalf("color rectangle bounds = %v", b)
	}
	if p := r.Pixel(10, 5); p != [4]uint8{amber[0], amber[1], amber[2], 0xff} {
		t.Fatalf("color rectangle pixel = %v", p)
	}
}

func TestRenderGraphic(t *testing.T) {
	g := raster.New(2, 2, [4]uint8{0xff, 0xff, 0xff, 0xff})
	opts := Options{Graphics: GraphicTable{1: g}}

	res := mustBuild(t, fullMatrix(), "[g1,5,5]", opts)
	if b := litBounds(res.Pages[0].Raster); b != image.Rect(4, 4, 6, 6) {
		t.Fatalf("graphic bounds = %v", b)
	}
	if p := res.Pages[0].Raster.Pixel(4, 4); p != [4]uint8{amber[0], amber[1], amber[2], 0xff} {
		t.Fatalf("graphic pixel = %v, want foreground", p)
	}

	res = mustBuild(t, fullMatrix(), "[tr11,11,20,10][g1]", opts)
	if b := litBounds(res.Pages[0].Raster); b != image.Rect(10, 10, 12, 12) {
		t.Fatalf("unpositioned graphic bounds = %v", b)
	}

	if _, err := build(t, fullMatrix(), "[g1]", Options{}); !errors.Is(err, multi.ErrUnsupportedTagValue) {
		t.Fatalf("expected ErrUnsupportedTagValue without graphics, got %v", err)
	}
	if _, err := build(t, fullMatrix(), "[g2]", opts); !errors.Is(err, multi.ErrUnsupportedTagValue) {
		t.Fatalf("expected ErrUnsupportedTagValue for missing graphic, got %v", err)
	}
	if _, err := build(t, fullMatrix(), "[g1,60,30]", opts); !errors.Is(err, multi.ErrUnsupportedTagValue) {
		t.Fatalf("expected ErrUnsupportedTagValue for graphic past the edge, got %v", err)
	}
}

func TestRenderColorGraphicIsCopied(t *testing.T) {
	p := fullMatrix()
	p.ColorScheme = multi.Color24Bit
	p.ColorForeground = multi.Legacy(multi.ClassicAmber)
	g := raster.New(1, 1, [4]uint8{0, 0, 255, 0xff})
	res := mustBuild(t, p, "[g1,1,1]", Options{Graphics: GraphicTable{1: g}})
	if px := res.Pages[0].Raster.Pixel(0, 0); px != [4]uint8{0, 0, 255, 0xff} {
		t.Fatalf("graphic pixel = %v, want source color", px)
	}
}

func TestRenderFonts(t *testing.T) {
	if _, err := build(t, fullMatrix(), "[fo2]A", Options{}); !errors.Is(err, multi.ErrUnsupportedTagValue) {
		t.Fatalf("expected ErrUnsupportedTagValue for unknown font, got %v", err)
	}
	if _, err := build(t, fullMatrix(), "[fo1,ffff]A", Options{}); !errors.Is(err, multi.ErrUnsupportedTagValue) {
		t.Fatalf("expected ErrUnsupportedTagValue for version mismatch, got %v", err)
	}
	if _, err := build(t, fullMatrix(), "é", Options{}); !errors.Is(err, multi.ErrOther) {
		t.Fatalf("expected ErrOther for missing glyph, got %v", err)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	ms := "[jp3][jl3]LANE[nl]CLOSED[np][pb1][cf0]AHEAD"
	a := mustBuild(t, fullMatrix(), ms, Options{})
	b := mustBuild(t, fullMatrix(), ms, Options{})
	if len(a.Pages) != len(b.Pages) {
		t.Fatalf("page counts differ: %d vs %d", len(a.Pages), len(b.Pages))
	}
	for i := range a.Pages {
		pa := a.Pages[i].Raster.Image().(*image.NRGBA).Pix
		pb := b.Pages[i].Raster.Image().(*image.NRGBA).Pix
		if diff := cmp.Diff(pa, pb); diff != "" {
			t.Fatalf("page %d pixels differ", i+1)
		}
	}
}

func TestPageRendererRendersSplitPage(t *testing.T) {
	pages, err := SplitString(NewRenderState(fullMatrix()), "[cf0][pb1]X").Collect()
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	r := NewPageRenderer(pages[0], Options{})
	first, err := r.Render()
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	second, err := r.Render()
	if err != nil {
		t.Fatalf("second render error: %v", err)
	}
	if first == second {
		t.Fatalf("each render must return a new raster")
	}
	if p := first.Pixel(59, 29); p != [4]uint8{amber[0], amber[1], amber[2], 0} {
		t.Fatalf("background pixel = %v", p)
	}
}
