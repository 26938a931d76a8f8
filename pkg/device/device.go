// Package device 提供模拟触摸的指针设备
//
// 三种实现都以工作分辨率下的帧坐标接收目标位置:
//   - Serial: 通过串口向微控制器发送文本命令，由对端换算坐标
//   - HID: 直接写 USB gadget 的鼠标报告，按相对位移逐步移动
//   - Desktop: 用 robotgo 在本机镜像窗口内移动鼠标并点击
package device

import "time"

// Size 宽高
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid 宽高是否都为正
func (s Size) Valid() bool { return s.Width > 0 && s.Height > 0 }

// DefaultSettle 点击前后的等待时间
const DefaultSettle = 100 * time.Millisecond
