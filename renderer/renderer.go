package renderer

import "github.com/ByLCY/richtext/layout"

// Renderer 将布局帧输出为最终文件，例如 PDF 预览。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(frame *layout.Frame) ([]byte, error)
}
