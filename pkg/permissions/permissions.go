// Package permissions 检查本机鼠标控制与截屏所需的系统权限（macOS）
package permissions

import (
	"errors"
	"strings"
)

// Status 权限状态
type Status struct {
	Accessibility   bool `json:"accessibility"`
	ScreenRecording bool `json:"screen_recording"`
}

// Require 按用途检查权限：input 为 desktop 指针，screen 为屏幕画面源
func (s Status) Require(input, screen bool) error {
	var missing []string
	if input && !s.Accessibility {
		missing = append(missing, "辅助功能权限 (用于控制鼠标)\n   系统偏好设置 > 安全性与隐私 > 隐私 > 辅助功能")
	}
	if screen && !s.ScreenRecording {
		missing = append(missing, "屏幕录制权限 (用于截屏和图像识别)\n   系统偏好设置 > 安全性与隐私 > 隐私 > 屏幕录制")
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.New("需要授权以下权限才能正常工作:\n" + strings.Join(missing, "\n") + "\n授权后需要重启程序才能生效")
}
