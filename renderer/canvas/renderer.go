package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/multisign/layout"
	"github.com/ByLCY/multisign/renderer"
)

const spanBorderWidth = 0.2

// Renderer draws rendered sign pages into a PDF via github.com/tdewolff/canvas.
// Each sign page becomes one PDF page sized to the text rectangle.
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the preview.
type Options struct {
	// Pitch is the size of one sign pixel in millimetres. Defaults to 1.
	Pitch float64
	// Scale is the integer upscaling applied to each pixel before embedding
	// so viewers do not smooth it. Defaults to 8.
	Scale int
	// Title is written into the document info.
	Title string
	// Outline strokes the span boxes recorded with layout.DebugOptions.
	Outline bool
}

// NewRenderer creates a preview renderer with default options.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a preview renderer.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.Pitch <= 0 {
		opts.Pitch = 1
	}
	if opts.Scale <= 0 {
		opts.Scale = 8
	}
	return &Renderer{opts: opts}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, r.mm(first.Width), r.mm(first.Height), nil)
	writer.SetInfo(r.opts.Title, "", "", "", "multisign")
	for i, page := range result.Pages {
		if page.Raster == nil {
			return nil, fmt.Errorf("第 %d 页缺少像素数据", i+1)
		}
		if i > 0 {
			writer.NewPage(r.mm(page.Width), r.mm(page.Height))
		}
		c := canvas.New(r.mm(page.Width), r.mm(page.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与情报板坐标一致

		r.drawPage(ctx, page)
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) mm(px int) float64 { return float64(px) * r.opts.Pitch }

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.RenderedPage) {
	img := page.Raster.Scaled(r.opts.Scale)
	ctx.DrawImage(0, 0, img, canvas.DPMM(float64(r.opts.Scale)/r.opts.Pitch))
	if !r.opts.Outline {
		return
	}
	origin := page.State.TextRectangle
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(color.RGBA{R: 0, G: 160, B: 255, A: 255})
	ctx.SetStrokeWidth(spanBorderWidth)
	for _, s := range page.Spans {
		x := r.mm(s.X - origin.X)
		y := r.mm(s.Y - origin.Y)
		ctx.DrawPath(x, y, canvas.Rectangle(r.mm(s.Width), r.mm(s.Height)))
	}
}
