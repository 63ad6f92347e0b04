package layout

import (
	"fmt"

	"github.com/ByLCY/multisign/fonts"
	"github.com/ByLCY/multisign/multi"
	"github.com/ByLCY/multisign/raster"
)

// Options 配置渲染阶段所需的依赖，例如字体与图形来源。
type Options struct {
	Fonts    fonts.Provider  // 为空时使用 fonts.Builtin()
	Graphics GraphicProvider // 为空时 [g] 标签报错
	Data     any             // 非空时替换文本中的 ${path} 占位符
	Debug    DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Spans bool // 在结果中记录每个文本段的位置，供调试 JSON 输出
}

func (o Options) fonts() fonts.Provider {
	if o.Fonts == nil {
		return fonts.Builtin()
	}
	return o.Fonts
}

// GraphicProvider 根据 [g] 标签查找图形。
type GraphicProvider interface {
	Graphic(g multi.Graphic) (*raster.Raster, error)
}

// GraphicTable 是按编号索引的图形集合。
type GraphicTable map[uint8]*raster.Raster

// Graphic 实现 GraphicProvider；忽略版本号。
func (gt GraphicTable) Graphic(g multi.Graphic) (*raster.Raster, error) {
	r, ok := gt[g.Number]
	if !ok {
		return nil, fmt.Errorf("%w: graphic %d not found", multi.ErrUnsupportedTagValue, g.Number)
	}
	return r, nil
}
