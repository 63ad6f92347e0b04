package layout

import (
	"io"
	"iter"

	"github.com/ByLCY/multisign/multi"
)

// TokenSource 逐个产生 MULTI 值，结束时返回 io.EOF。
// multi.Tokenizer 即为一个实现。
type TokenSource interface {
	Next() (multi.Value, error)
}

// Page 是两个分页符之间的全部内容（不含分页符本身）及其起始状态。
type Page struct {
	State  RenderState   `json:"state"`
	Values []multi.Value `json:"-"`

	// 默认状态副本，渲染时用于复位标签
	defaults RenderState
}

// Defaults 返回该页使用的默认状态。
func (p Page) Defaults() RenderState { return p.defaults }

// PageSplitter 将标记流按 [np] 拆分为页面，状态按 NTCIP 规则跨页延续。
type PageSplitter struct {
	defaultState RenderState
	renderState  RenderState
	tokens       TokenSource
	more         bool
}

// NewPageSplitter 创建分页器，rs 同时作为默认状态与初始运行状态。
func NewPageSplitter(rs RenderState, tokens TokenSource) *PageSplitter {
	return &PageSplitter{
		defaultState: rs,
		renderState:  rs,
		tokens:       tokens,
		more:         true,
	}
}

// SplitString 使用内置分词器拆分 MULTI 字符串。
func SplitString(rs RenderState, ms string) *PageSplitter {
	return NewPageSplitter(rs, multi.NewTokenizer(ms))
}

// Next 返回下一页；没有更多页面时返回 io.EOF。
// 出错后不再产生任何页面。
func (s *PageSplitter) Next() (Page, error) {
	if !s.more {
		return Page{}, io.EOF
	}
	return s.makePage()
}

// All 以迭代器形式按需产生页面，遇到错误后停止。
func (s *PageSplitter) All() iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		for {
			p, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(p, err) || err != nil {
				return
			}
		}
	}
}

// Collect 取出所有页面，遇到第一个错误即返回。
func (s *PageSplitter) Collect() ([]Page, error) {
	var pages []Page
	for p, err := range s.All() {
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func (s *PageSplitter) makePage() (Page, error) {
	s.more = false
	rs := s.pageState()
	var values []multi.Value
	for {
		v, err := s.tokens.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Page{}, err
		}
		if _, ok := v.(multi.NewPage); ok {
			s.more = true
			break
		}
		if err := s.renderState.Update(&s.defaultState, v); err != nil {
			return Page{}, err
		}
		values = append(values, v)
	}
	// 以下属性作用于整页，页内任意位置的标签都生效
	rs.PageBackground = s.renderState.PageBackground
	rs.PageOnTime = s.renderState.PageOnTime
	rs.PageOffTime = s.renderState.PageOffTime
	return Page{State: rs, Values: values, defaults: s.defaultState}, nil
}

// pageState 返回新页面的起始状态：文本区域与行距不跨页保留。
func (s *PageSplitter) pageState() RenderState {
	rs := s.renderState
	rs.TextRectangle = s.defaultState.TextRectangle
	rs.LineSpacing = s.defaultState.LineSpacing
	return rs
}
