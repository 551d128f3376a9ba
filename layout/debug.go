package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(frame *Frame, path string) error {
	if frame == nil {
		return nil
	}
	data, err := MarshalDebugJSON(frame)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MarshalDebugJSON 返回缩进后的 JSON。
func MarshalDebugJSON(frame *Frame) ([]byte, error) {
	return json.MarshalIndent(frame, "", "  ")
}
