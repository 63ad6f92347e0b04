package renderer

import "github.com/ByLCY/multisign/layout"

// Renderer 将情报板渲染结果输出为预览文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
