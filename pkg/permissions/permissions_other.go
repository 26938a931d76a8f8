//go:build !darwin

package permissions

// Check 非 macOS 系统不需要特殊权限
func Check() Status {
	return Status{Accessibility: true, ScreenRecording: true}
}
