package layout

import (
	"encoding/json"
	"io"
)

// WriteDebugJSON 将渲染结果（页面状态、显示时间与文本段位置）输出为 JSON，便于调试。
// 像素数据不会输出。
func WriteDebugJSON(res *Result, w io.Writer) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
