package device

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/profile"
)

// maxStep 单个鼠标报告的最大位移
const maxStep = 127

// HID USB gadget 鼠标，报告格式 [按键, dx, dy, 0, 0]
//
// 设备只接受相对位移，所以本端记录指针位置（帧坐标），
// 移动量按 显示分辨率/图像分辨率 换算后再拆成不超过 maxStep 的若干步。
type HID struct {
	mu     sync.Mutex
	w      io.Writer
	f      *os.File
	coeffX float64
	coeffY float64
	settle time.Duration
	pos    profile.Point
	log    *logger.Logger
}

// OpenHID 打开 gadget 设备文件（例如 /dev/hidg0）并归位
func OpenHID(path string, image, display Size, log *logger.Logger) (*HID, error) {
	if !image.Valid() || !display.Valid() {
		return nil, fmt.Errorf("分辨率无效: 图像 %+v 显示 %+v", image, display)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("无法打开 HID 设备 %s: %w", path, err)
	}

	h := NewHID(f,
		float64(display.Width)/float64(image.Width),
		float64(display.Height)/float64(image.Height),
		DefaultSettle, log)
	h.f = f
	if err := h.Home(); err != nil {
		f.Close()
		return nil, err
	}
	log.Info("HID 设备已打开: %s (系数 %.3f, %.3f)", path, h.coeffX, h.coeffY)
	return h, nil
}

// NewHID 基于任意 Writer 创建设备，coeff 为图像坐标到显示坐标的比例
func NewHID(w io.Writer, coeffX, coeffY float64, settle time.Duration, log *logger.Logger) *HID {
	return &HID{w: w, coeffX: coeffX, coeffY: coeffY, settle: settle, log: log}
}

func (h *HID) report(buttons byte, dx, dy int) error {
	data := []byte{buttons, byte(int8(dx)), byte(int8(dy)), 0, 0}
	if _, err := h.w.Write(data); err != nil {
		return fmt.Errorf("写入 HID 报告失败: %w", err)
	}
	return nil
}

// Home 不论当前位置，向左上饱和移动三次，视为到达原点
func (h *HID) Home() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := 0; i < 3; i++ {
		if err := h.report(0, -maxStep, -maxStep); err != nil {
			return err
		}
	}
	h.pos = profile.Point{}
	return nil
}

// MoveTo 移动到帧坐标 p
func (h *HID) MoveTo(p profile.Point) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	// 换算结果向零取整
	remX := int(float64(p.X-h.pos.X) * h.coeffX)
	remY := int(float64(p.Y-h.pos.Y) * h.coeffY)
	for remX != 0 || remY != 0 {
		dx, dy := clip(remX), clip(remY)
		if err := h.report(0, dx, dy); err != nil {
			return err
		}
		remX -= dx
		remY -= dy
	}
	h.pos = p
	h.log.Debug("move to: (%d, %d)", p.X, p.Y)
	return nil
}

// Tap 按下再松开，前后各等待 settle
func (h *HID) Tap() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	time.Sleep(h.settle)
	if err := h.report(1, 0, 0); err != nil {
		return err
	}
	if err := h.report(0, 0, 0); err != nil {
		return err
	}
	time.Sleep(h.settle)
	return nil
}

// Position 当前记录的指针位置
func (h *HID) Position() profile.Point {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos
}

// Close 关闭设备文件
func (h *HID) Close() error {
	if h.f == nil {
		return nil
	}
	err := h.f.Close()
	h.f = nil
	return err
}

func clip(v int) int {
	if v > maxStep {
		return maxStep
	}
	if v < -maxStep {
		return -maxStep
	}
	return v
}
