package layout

import (
	"fmt"

	"github.com/ByLCY/multisign/multi"
)

// Profile 描述一块情报板的默认参数，由调用方提供。
// CharWidth/CharHeight 为 0 表示全点阵（可变字宽）情报板。
type Profile struct {
	ColorScheme     multi.ColorScheme       `json:"colorScheme"`
	ColorForeground multi.Color             `json:"colorForeground"`
	PageBackground  multi.Color             `json:"pageBackground"`
	PageOnTime      int                     `json:"pageOnTime"`  // 单位：0.1 秒
	PageOffTime     int                     `json:"pageOffTime"` // 单位：0.1 秒
	TextRectangle   multi.Rectangle         `json:"textRectangle"`
	JustPage        multi.PageJustification `json:"justPage"`
	JustLine        multi.LineJustification `json:"justLine"`
	CharWidth       int                     `json:"charWidth"`
	CharHeight      int                     `json:"charHeight"`
	Font            multi.FontRef           `json:"font"`
}

// RenderState 是标记流中某一位置生效的全部格式属性。
// 按值传递：每一页、以及默认状态都持有独立副本，互不影响。
type RenderState struct {
	ColorScheme     multi.ColorScheme       `json:"colorScheme"`
	ColorForeground multi.Color             `json:"colorForeground"`
	ColorBackground TextBackground          `json:"colorBackground"` // 文本背景色，仅在 [cbN] 后生效
	PageBackground  multi.Color             `json:"pageBackground"`
	PageOnTime      int                     `json:"pageOnTime"`
	PageOffTime     int                     `json:"pageOffTime"`
	TextRectangle   multi.Rectangle         `json:"textRectangle"`
	JustPage        multi.PageJustification `json:"justPage"`
	JustLine        multi.LineJustification `json:"justLine"`
	LineSpacing     Spacing                 `json:"lineSpacing"`
	CharSpacing     Spacing                 `json:"charSpacing"`
	CharWidth       int                     `json:"charWidth"`
	CharHeight      int                     `json:"charHeight"`
	Font            multi.FontRef           `json:"font"`
}

// NewRenderState 根据情报板默认参数创建初始状态；文本背景色未设置。
func NewRenderState(p Profile) RenderState {
	return RenderState{
		ColorScheme:     p.ColorScheme,
		ColorForeground: p.ColorForeground,
		PageBackground:  p.PageBackground,
		PageOnTime:      p.PageOnTime,
		PageOffTime:     p.PageOffTime,
		TextRectangle:   p.TextRectangle,
		JustPage:        p.JustPage,
		JustLine:        p.JustLine,
		CharWidth:       p.CharWidth,
		CharHeight:      p.CharHeight,
		Font:            p.Font,
	}
}

// TextBackground 是 [cbN] 设置的文本背景色。Set 为 false 时字符直接绘制在页面背景上。
type TextBackground struct {
	Color multi.Color `json:"color"`
	Set   bool        `json:"set"`
}

// Background 返回显式指定的文本背景色。
func Background(c multi.Color) TextBackground { return TextBackground{Color: c, Set: true} }

// IsCharMatrix 判断是否为字符点阵情报板。
func (rs RenderState) IsCharMatrix() bool { return rs.CharWidth > 0 }

// IsFullMatrix 判断是否为全点阵情报板。
func (rs RenderState) IsFullMatrix() bool { return rs.CharWidth == 0 && rs.CharHeight == 0 }

// cellWidth 返回字符宽度，可变字宽时为 1。
func (rs RenderState) cellWidth() int {
	if rs.IsCharMatrix() {
		return rs.CharWidth
	}
	return 1
}

// cellHeight 返回行高单元，可变行高时为 1。
func (rs RenderState) cellHeight() int {
	if rs.CharHeight > 0 {
		return rs.CharHeight
	}
	return 1
}

// Update 将一个 MULTI 值应用到当前状态，并按情报板能力校验。
// def 为默认状态，用于无参数标签的复位。
func (rs *RenderState) Update(def *RenderState, v multi.Value) error {
	switch v := v.(type) {
	case multi.ColorBackground:
		if v.Color != nil {
			rs.ColorBackground = Background(*v.Color)
		} else {
			rs.ColorBackground = def.ColorBackground
		}
	case multi.ColorForeground:
		rs.ColorForeground = colorOr(v.Color, def.ColorForeground)
	case multi.Font:
		if v.Font != nil {
			rs.Font = *v.Font
		} else {
			rs.Font = def.Font
		}
	case multi.JustificationLine:
		if v.Just != nil {
			rs.JustLine = *v.Just
		} else {
			rs.JustLine = def.JustLine
		}
	case multi.JustificationPage:
		if v.Just != nil {
			rs.JustPage = *v.Just
		} else {
			rs.JustPage = def.JustPage
		}
	case multi.NewLine:
		if v.Spacing == nil {
			rs.LineSpacing = Spacing{}
			return nil
		}
		if !rs.IsFullMatrix() {
			return fmt.Errorf("%w: %s on character-matrix sign", multi.ErrUnsupportedTagValue, v)
		}
		rs.LineSpacing = Pixels(*v.Spacing)
	case multi.PageBackground:
		rs.PageBackground = colorOr(v.Color, def.PageBackground)
	case multi.PageTime:
		rs.PageOnTime = intOr(v.On, def.PageOnTime)
		rs.PageOffTime = intOr(v.Off, def.PageOffTime)
	case multi.SpacingCharacter:
		if rs.IsCharMatrix() {
			return &multi.UnsupportedTagError{Tag: v.Tag()}
		}
		rs.CharSpacing = Pixels(v.Spacing)
	case multi.SpacingCharacterEnd:
		rs.CharSpacing = Spacing{}
	case multi.TextRectangle:
		return rs.updateTextRectangle(def, v.Rect)
	case multi.ColorRectangle:
		if !def.TextRectangle.Contains(v.Rect) {
			return fmt.Errorf("%w: %s outside sign", multi.ErrUnsupportedTagValue, v)
		}
	case multi.Graphic, multi.Text:
		// 不影响状态，由排版阶段绘制
	default:
		// 不支持：[f] [fl] [hc] [ms] [mv]
		return &multi.UnsupportedTagError{Tag: v.Tag()}
	}
	return nil
}

// updateTextRectangle 校验文本区域：必须包含在默认区域内，
// 字符点阵情报板还要求与字符/行边界对齐。
func (rs *RenderState) updateTextRectangle(def *RenderState, r multi.Rectangle) error {
	if !def.TextRectangle.Contains(r) {
		return fmt.Errorf("%w: text rectangle %s outside %s",
			multi.ErrUnsupportedTagValue, r, def.TextRectangle)
	}
	if cw := rs.CharWidth; cw > 0 {
		if (r.X-1)%cw != 0 || r.W%cw != 0 {
			return fmt.Errorf("%w: text rectangle %s not aligned to %d pixel characters",
				multi.ErrUnsupportedTagValue, r, cw)
		}
	}
	if lh := rs.CharHeight; lh > 0 {
		if (r.Y-1)%lh != 0 || r.H%lh != 0 {
			return fmt.Errorf("%w: text rectangle %s not aligned to %d pixel lines",
				multi.ErrUnsupportedTagValue, r, lh)
		}
	}
	rs.TextRectangle = r
	return nil
}

func colorOr(c *multi.Color, def multi.Color) multi.Color {
	if c != nil {
		return *c
	}
	return def
}

func intOr(n *int, def int) int {
	if n != nil {
		return *n
	}
	return def
}
