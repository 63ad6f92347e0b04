package layout

import (
	"errors"
	"fmt"

	"github.com/ByLCY/multisign/fonts"
	"github.com/ByLCY/multisign/multi"
	"github.com/ByLCY/multisign/raster"
)

// PageRenderer 将一页内容绘制为像素。
type PageRenderer struct {
	page  Page
	opts  Options
	spans []SpanBox
}

// NewPageRenderer 创建单页渲染器。
func NewPageRenderer(page Page, opts Options) *PageRenderer {
	return &PageRenderer{page: page, opts: opts}
}

// Spans 返回最近一次 Render 记录的文本段位置（需开启 Debug.Spans）。
func (r *PageRenderer) Spans() []SpanBox { return r.spans }

// Render 绘制整页：先以页面背景色（alpha 为 0，表示未绘制）填充，
// 再按顺序绘制文本、色块与图形。出错时不返回部分结果。
func (r *PageRenderer) Render() (*raster.Raster, error) {
	rs := r.page.State
	def := r.page.Defaults()
	bg, ok := rs.PageBackground.RGB(rs.ColorScheme)
	if !ok {
		return nil, fmt.Errorf("%w: page background %s not valid for %s",
			multi.ErrOther, rs.PageBackground, rs.ColorScheme)
	}
	rect := rs.TextRectangle
	t := &target{
		raster: raster.New(rect.W, rect.H, [4]uint8{bg[0], bg[1], bg[2], 0}),
		origin: rect,
		scheme: rs.ColorScheme,
		debug:  r.opts.Debug.Spans,
	}
	provider := r.opts.fonts()
	var tb textBuilder
	for _, v := range r.page.Values {
		if err := rs.Update(&def, v); err != nil {
			return nil, err
		}
		var err error
		switch v := v.(type) {
		case multi.Text:
			var f *fonts.Font
			if f, err = provider.Font(rs.Font); err == nil {
				err = tb.addSpan(rs, f, v.Text)
			}
		case multi.NewLine:
			var f *fonts.Font
			if f, err = provider.Font(rs.Font); err == nil {
				err = tb.addLine(rs, f)
			}
		case multi.TextRectangle:
			err = tb.flush(t)
		case multi.ColorRectangle:
			if err = tb.flush(t); err == nil {
				err = t.fill(v.Rect.X, v.Rect.Y, v.Rect.W, v.Rect.H, v.Color)
			}
		case multi.Graphic:
			if err = tb.flush(t); err == nil {
				err = t.graphic(rs, v, r.opts.Graphics)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if err := tb.flush(t); err != nil {
		return nil, err
	}
	r.spans = t.spans
	return t.raster, nil
}

// target 是绘制目标：坐标均为情报板上 1 起始的绝对像素坐标，
// 通过 origin 换算为栅格坐标。
type target struct {
	raster *raster.Raster
	origin multi.Rectangle
	scheme multi.ColorScheme
	debug  bool
	spans  []SpanBox
}

func (t *target) rgb(c multi.Color) ([3]uint8, error) {
	rgb, ok := c.RGB(t.scheme)
	if !ok {
		return rgb, fmt.Errorf("%w: color %s not valid for %s", multi.ErrOther, c, t.scheme)
	}
	return rgb, nil
}

func (t *target) fill(x, y, w, h int, c multi.Color) error {
	rgb, err := t.rgb(c)
	if err != nil {
		return err
	}
	if err := t.raster.Fill(x-t.origin.X, y-t.origin.Y, w, h, rgb); err != nil {
		return fmt.Errorf("%w: %v", multi.ErrTextTooBig, err)
	}
	return nil
}

func (t *target) glyph(g *fonts.Glyph, x, y int, fg [3]uint8) error {
	if err := t.raster.Composite(g.Bitmap, x-t.origin.X, y-t.origin.Y, fg); err != nil {
		return fmt.Errorf("%w: %v", multi.ErrTextTooBig, err)
	}
	return nil
}

// graphic 绘制 [g] 标签；未给出位置时放在当前文本区域左上角。
// 单色情报板上图形以前景色绘制，其余按原色复制。
func (t *target) graphic(rs RenderState, g multi.Graphic, gp GraphicProvider) error {
	if gp == nil {
		return fmt.Errorf("%w: no graphics for %s", multi.ErrUnsupportedTagValue, g)
	}
	src, err := gp.Graphic(g)
	if err != nil {
		return err
	}
	x, y := rs.TextRectangle.X, rs.TextRectangle.Y
	if g.Pos != nil {
		x, y = g.Pos.X, g.Pos.Y
	}
	x -= t.origin.X
	y -= t.origin.Y
	if t.scheme == multi.Monochrome1Bit {
		var fg [3]uint8
		if fg, err = t.rgb(rs.ColorForeground); err == nil {
			err = t.raster.Composite(src, x, y, fg)
		}
	} else {
		err = t.raster.Copy(src, x, y)
	}
	if err != nil && !errors.Is(err, multi.ErrOther) {
		return fmt.Errorf("%w: %s: %v", multi.ErrUnsupportedTagValue, g, err)
	}
	return err
}

func (t *target) record(s *span, x, y int) {
	if !t.debug {
		return
	}
	t.spans = append(t.spans, SpanBox{
		Text:       s.text,
		X:          x,
		Y:          y,
		Width:      s.width(),
		Height:     s.height(),
		Font:       s.state.Font.Number,
		Foreground: s.state.ColorForeground.String(),
	})
}
