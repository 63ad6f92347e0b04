package layout

import (
	"time"

	"github.com/ByLCY/multisign/raster"
)

// 该文件定义渲染结果类型，供调用方、预览渲染器与调试 JSON 共用。

// Result 保存一条 MULTI 信息渲染后的全部页面。
type Result struct {
	Profile Profile        `json:"profile"`
	Pages   []RenderedPage `json:"pages"`
}

// RenderedPage 是一页的最终像素及其显示时间。
type RenderedPage struct {
	State   RenderState    `json:"state"`
	OnTime  time.Duration  `json:"onTime"`
	OffTime time.Duration  `json:"offTime"`
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Raster  *raster.Raster `json:"-"`
	Spans   []SpanBox      `json:"spans,omitempty"` // 仅在 DebugOptions.Spans 开启时记录
}

// SpanBox 记录一个文本段在情报板上的位置（1 起始的像素坐标）。
type SpanBox struct {
	Text       string `json:"text"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Font       uint8  `json:"font"`
	Foreground string `json:"foreground"`
}
