package device

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/fgoworker/pkg/profile"
)

// Window 镜像窗口在屏幕上的位置
type Window struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Desktop 直接操作本机鼠标，把帧坐标映射到镜像窗口内
type Desktop struct {
	win    Window
	image  Size
	settle time.Duration
}

// NewDesktop 创建桌面指针
func NewDesktop(win Window, image Size) (*Desktop, error) {
	if win.Width <= 0 || win.Height <= 0 || !image.Valid() {
		return nil, fmt.Errorf("窗口或图像尺寸无效: %+v %+v", win, image)
	}
	return &Desktop{win: win, image: image, settle: 50 * time.Millisecond}, nil
}

// toScreen 帧坐标换算为屏幕坐标
func (d *Desktop) toScreen(p profile.Point) (int, int) {
	x := d.win.X + p.X*d.win.Width/d.image.Width
	y := d.win.Y + p.Y*d.win.Height/d.image.Height
	return x, y
}

// Home 移到窗口左上角
func (d *Desktop) Home() error {
	robotgo.Move(d.win.X, d.win.Y)
	return nil
}

// MoveTo 移动到帧坐标 p
func (d *Desktop) MoveTo(p profile.Point) error {
	x, y := d.toScreen(p)
	robotgo.Move(x, y)
	return nil
}

// Tap 左键单击，短暂延迟确保鼠标到位
func (d *Desktop) Tap() error {
	time.Sleep(d.settle)
	robotgo.Click("left", false)
	return nil
}

// Close 无需释放资源
func (d *Desktop) Close() error { return nil }
