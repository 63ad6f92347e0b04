package layout

import (
	"fmt"

	"github.com/ByLCY/multisign/binding"
	"github.com/ByLCY/multisign/multi"
)

// Build 将 MULTI 字符串按情报板参数拆分并逐页渲染。
// 任一页出错即返回错误，不返回部分结果。
func Build(p Profile, ms string, opts Options) (*Result, error) {
	var tokens TokenSource = multi.NewTokenizer(ms)
	if opts.Data != nil {
		tokens = &boundTokens{src: tokens, data: opts.Data}
	}
	splitter := NewPageSplitter(NewRenderState(p), tokens)

	res := &Result{Profile: p}
	for page, err := range splitter.All() {
		if err != nil {
			return nil, fmt.Errorf("拆分第 %d 页失败: %w", len(res.Pages)+1, err)
		}
		rendered, err := renderPage(page, opts)
		if err != nil {
			return nil, fmt.Errorf("渲染第 %d 页失败: %w", len(res.Pages)+1, err)
		}
		res.Pages = append(res.Pages, rendered)
	}
	return res, nil
}

func renderPage(page Page, opts Options) (RenderedPage, error) {
	r := NewPageRenderer(page, opts)
	ras, err := r.Render()
	if err != nil {
		return RenderedPage{}, err
	}
	return RenderedPage{
		State:   page.State,
		OnTime:  Deciseconds(page.State.PageOnTime),
		OffTime: Deciseconds(page.State.PageOffTime),
		Width:   ras.Width(),
		Height:  ras.Height(),
		Raster:  ras,
		Spans:   r.Spans(),
	}, nil
}

// boundTokens 在分词之后替换文本中的 ${path}，
// 因此数据中的方括号不会被当作标签。
type boundTokens struct {
	src  TokenSource
	data any
}

func (b *boundTokens) Next() (multi.Value, error) {
	v, err := b.src.Next()
	if err != nil {
		return nil, err
	}
	if t, ok := v.(multi.Text); ok {
		text, err := binding.Interpolate(t.Text, b.data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", multi.ErrOther, err)
		}
		return multi.Text{Text: text}, nil
	}
	return v, nil
}
