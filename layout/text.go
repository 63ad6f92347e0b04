package layout

import (
	"fmt"

	"github.com/ByLCY/multisign/fonts"
	"github.com/ByLCY/multisign/multi"
)

// 排版树：
//
//	[jp]   block     页面对齐变化时新建
//	[nl]   line      换行时新建
//	[jl]   fragment  行对齐变化时新建
//	(text) span      字体、颜色或字距变化时新建
//
// 遍历时不回指前一个兄弟节点，而是携带其度量值（spacingAcc）。

// span 是字体、前景色、背景色与字距都相同的一段字符。
type span struct {
	text   string
	state  RenderState
	font   *fonts.Font
	glyphs []*fonts.Glyph
}

func (s *span) charSpacing() int { return s.state.CharSpacing.Or(s.font.CharSpacing()) }
func (s *span) lineSpacing() int { return s.font.LineSpacing() }
func (s *span) height() int      { return s.font.Height() }

func (s *span) width() int {
	cs := s.charSpacing()
	w := 0
	for i, g := range s.glyphs {
		if i > 0 {
			w += cs
		}
		w += g.Width()
	}
	return w
}

func (s *span) sameFormat(rs RenderState) bool {
	return s.state.Font == rs.Font &&
		s.state.ColorForeground == rs.ColorForeground &&
		s.state.ColorBackground == rs.ColorBackground &&
		s.state.CharSpacing == rs.CharSpacing
}

func (s *span) appendText(text string) error {
	glyphs, err := s.font.Glyphs(text)
	if err != nil {
		return err
	}
	s.text += text
	s.glyphs = append(s.glyphs, glyphs...)
	return nil
}

// render 以 base 为基线、left 为左边界绘制所有字符。
func (s *span) render(t *target, left, base int) error {
	top := base - s.height()
	if bg := s.state.ColorBackground; bg.Set && len(s.glyphs) > 0 {
		if err := t.fill(left, top, s.width(), s.height(), bg.Color); err != nil {
			return err
		}
	}
	fg, err := t.rgb(s.state.ColorForeground)
	if err != nil {
		return err
	}
	x := left
	cs := s.charSpacing()
	for _, g := range s.glyphs {
		if err := t.glyph(g, x, top, fg); err != nil {
			return err
		}
		x += g.Width() + cs
	}
	t.record(s, left, top)
	return nil
}

// spacingAcc 记录上一个已放置兄弟节点的间距，用于计算 NTCIP 平均间距。
type spacingAcc struct {
	spacing int
	placed  bool
}

// gap 返回与上一个节点之间的间距，并记录当前节点的间距。
func (a *spacingAcc) gap(spacing int) int {
	g := 0
	if a.placed {
		g = averageSpacing(a.spacing, spacing)
	}
	a.spacing = spacing
	a.placed = true
	return g
}

// fragment 是一行内对齐方式相同的一组 span。
type fragment struct {
	spans []*span
	state RenderState
}

func (f *fragment) addSpan(rs RenderState, font *fonts.Font, text string) error {
	if n := len(f.spans); n > 0 && f.spans[n-1].sameFormat(rs) {
		return f.spans[n-1].appendText(text)
	}
	s := &span{state: rs, font: font}
	if err := s.appendText(text); err != nil {
		return err
	}
	f.spans = append(f.spans, s)
	return nil
}

func (f *fragment) height() int {
	h := 0
	for _, s := range f.spans {
		h = max(h, s.height())
	}
	return h
}

func (f *fragment) lineSpacing() int {
	ls := 0
	for _, s := range f.spans {
		ls = max(ls, s.lineSpacing())
	}
	return ls
}

func (f *fragment) width() int {
	var acc spacingAcc
	w := 0
	for _, s := range f.spans {
		sw := s.width()
		if sw == 0 {
			continue
		}
		w += acc.gap(s.charSpacing()) + sw
	}
	return w
}

// left 按行对齐方式计算起始 x 坐标。
func (f *fragment) left(width int) (int, error) {
	rect := f.state.TextRectangle
	cw := f.state.cellWidth()
	avail := rect.W / cw
	need := cells(width, cw)
	if need > avail {
		return 0, fmt.Errorf("%w: line needs %d pixels, rectangle has %d",
			multi.ErrTextTooBig, width, rect.W)
	}
	extra := (avail - need) * cw
	switch f.state.JustLine {
	case multi.LineLeft:
		return rect.X, nil
	case multi.LineCenter:
		return rect.X + floorTo(extra/2, cw), nil
	case multi.LineRight:
		return rect.X + extra, nil
	default:
		return 0, fmt.Errorf("%w: line justification %s", multi.ErrUnsupportedTagValue, f.state.JustLine)
	}
}

// render 绘制该片段，minX 为同一行前一片段的结束位置；返回本片段结束位置。
func (f *fragment) render(t *target, base, minX int) (int, error) {
	width := f.width()
	x, err := f.left(width)
	if err != nil {
		return 0, err
	}
	if x < minX {
		return 0, fmt.Errorf("%w: %s justified text overlaps preceding text",
			multi.ErrTextTooBig, f.state.JustLine)
	}
	end := x + width
	var acc spacingAcc
	for _, s := range f.spans {
		sw := s.width()
		if sw == 0 {
			continue
		}
		x += acc.gap(s.charSpacing())
		if err := s.render(t, x, base); err != nil {
			return 0, err
		}
		x += sw
	}
	return end, nil
}

// line 是共享同一基线的一组 fragment。
type line struct {
	fragments []*fragment
	state     RenderState
}

func (l *line) height() int {
	h := 0
	for _, f := range l.fragments {
		h = max(h, f.height())
	}
	return h
}

func (l *line) lineSpacing() int {
	ls := 0
	for _, f := range l.fragments {
		ls = max(ls, f.lineSpacing())
	}
	return ls
}

// gap 返回本行与上一行之间的间距：[nlN] 显式指定时优先，否则取两行字体行距的平均值。
// 块内首行间距为 0。
func (l *line) gap(acc *spacingAcc) int {
	first := !acc.placed
	g := acc.gap(l.lineSpacing())
	if l.state.LineSpacing.Set && !first {
		return l.state.LineSpacing.Pixels
	}
	return g
}

// fragmentFor 返回与 rs 行对齐方式一致的最后一个片段，必要时新建。
// 同一行内对齐方式只能按 左→中→右 的顺序出现。
func (l *line) fragmentFor(rs RenderState) (*fragment, error) {
	n := len(l.fragments)
	if n > 0 {
		last := l.fragments[n-1]
		if last.state.JustLine == rs.JustLine {
			return last, nil
		}
		if rs.JustLine < last.state.JustLine {
			return nil, fmt.Errorf("%w: line justification %s after %s",
				multi.ErrUnsupportedTagValue, rs.JustLine, last.state.JustLine)
		}
	}
	f := &fragment{state: rs}
	l.fragments = append(l.fragments, f)
	return f, nil
}

func (l *line) render(t *target, base int) error {
	minX := 0
	for _, f := range l.fragments {
		end, err := f.render(t, base, minX)
		if err != nil {
			return err
		}
		minX = end
	}
	return nil
}

// block 是页面对齐方式相同的一组 line。
type block struct {
	lines []*line
	state RenderState
}

func newBlock(rs RenderState) *block {
	return &block{state: rs, lines: []*line{{state: rs}}}
}

func (b *block) lastLine() *line { return b.lines[len(b.lines)-1] }

// height 计算所有非空行的高度及行间距之和。
func (b *block) height() int {
	var acc spacingAcc
	h := 0
	for _, l := range b.lines {
		lh := l.height()
		if lh == 0 {
			continue
		}
		h += l.gap(&acc) + lh
	}
	return h
}

// top 按页面对齐方式计算起始 y 坐标。
func (b *block) top(height int) (int, error) {
	rect := b.state.TextRectangle
	ch := b.state.cellHeight()
	avail := rect.H / ch
	need := cells(height, ch)
	if need > avail {
		return 0, fmt.Errorf("%w: text needs %d pixels, rectangle has %d",
			multi.ErrTextTooBig, height, rect.H)
	}
	extra := (avail - need) * ch
	switch b.state.JustPage {
	case multi.PageTop:
		return rect.Y, nil
	case multi.PageMiddle:
		return rect.Y + floorTo(extra/2, ch), nil
	case multi.PageBottom:
		return rect.Y + extra, nil
	default:
		return 0, fmt.Errorf("%w: page justification %s", multi.ErrUnsupportedTagValue, b.state.JustPage)
	}
}

// render 绘制该块，minY 为前一块的结束位置；返回本块结束位置。
func (b *block) render(t *target, minY int) (int, error) {
	height := b.height()
	top, err := b.top(height)
	if err != nil {
		return 0, err
	}
	if top < minY {
		return 0, fmt.Errorf("%w: %s justified text overlaps preceding text",
			multi.ErrTextTooBig, b.state.JustPage)
	}
	var acc spacingAcc
	y := top
	for _, l := range b.lines {
		lh := l.height()
		if lh == 0 {
			continue
		}
		y += l.gap(&acc) + lh
		if err := l.render(t, y); err != nil {
			return 0, err
		}
	}
	return top + height, nil
}

// textBuilder 收集待绘制的文本块；遇到 [tr]、[cr]、[g] 或页尾时统一绘制。
type textBuilder struct {
	blocks []*block
}

// blockFor 返回与 rs 页面对齐方式一致的最后一块，必要时新建。
// 同一页内对齐方式只能按 上→中→下 的顺序出现。
func (tb *textBuilder) blockFor(rs RenderState) (*block, error) {
	n := len(tb.blocks)
	if n > 0 {
		last := tb.blocks[n-1]
		if last.state.JustPage == rs.JustPage {
			return last, nil
		}
		if rs.JustPage < last.state.JustPage {
			return nil, fmt.Errorf("%w: page justification %s after %s",
				multi.ErrUnsupportedTagValue, rs.JustPage, last.state.JustPage)
		}
	}
	b := newBlock(rs)
	tb.blocks = append(tb.blocks, b)
	return b, nil
}

func (tb *textBuilder) addSpan(rs RenderState, font *fonts.Font, text string) error {
	b, err := tb.blockFor(rs)
	if err != nil {
		return err
	}
	f, err := b.lastLine().fragmentFor(rs)
	if err != nil {
		return err
	}
	return f.addSpan(rs, font, text)
}

// addLine 结束当前行。空行在全点阵情报板上高度为 0，
// 因此补一个空 span，使行高取自当前字体。
func (tb *textBuilder) addLine(rs RenderState, font *fonts.Font) error {
	var b *block
	if n := len(tb.blocks); n > 0 {
		b = tb.blocks[n-1]
	} else {
		b = newBlock(rs)
		tb.blocks = append(tb.blocks, b)
	}
	l := b.lastLine()
	if l.height() == 0 {
		f, err := l.fragmentFor(rs)
		if err != nil {
			return err
		}
		f.spans = append(f.spans, &span{state: rs, font: font})
	}
	b.lines = append(b.lines, &line{state: rs})
	return nil
}

// flush 绘制已收集的文本并清空。
func (tb *textBuilder) flush(t *target) error {
	minY := 0
	for _, b := range tb.blocks {
		end, err := b.render(t, minY)
		if err != nil {
			return err
		}
		minY = end
	}
	tb.blocks = nil
	return nil
}
