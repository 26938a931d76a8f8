package device

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/profile"
)

// SerialConfig 串口连接参数，Port 为空时按 VID/PID 查找
type SerialConfig struct {
	Port     string
	VID      string
	PID      string
	BaudRate int
	// Gap 每条命令发送后的等待时间，给对端留出执行时间
	Gap time.Duration
}

// Serial 串口指针设备，每条命令一行：HOME、TAP、MOVE,x,y
//
// 坐标换算与相对移动由对端固件完成，本端不等待应答。
type Serial struct {
	mu   sync.Mutex
	w    io.Writer
	gap  time.Duration
	port serial.Port
	log  *logger.Logger
}

// OpenSerial 打开串口
func OpenSerial(cfg SerialConfig, log *logger.Logger) (*Serial, error) {
	name := cfg.Port
	if name == "" {
		found, err := findPort(cfg.VID, cfg.PID)
		if err != nil {
			return nil, err
		}
		name = found
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("无法打开串口 %s: %w", name, err)
	}
	log.Info("串口已连接: %s (%d baud)", name, cfg.BaudRate)

	s := NewSerial(port, cfg.Gap, log)
	s.port = port
	return s, nil
}

// NewSerial 基于任意 Writer 创建设备
func NewSerial(w io.Writer, gap time.Duration, log *logger.Logger) *Serial {
	return &Serial{w: w, gap: gap, log: log}
}

// findPort 按 USB VID/PID 查找串口
func findPort(vid, pid string) (string, error) {
	if vid == "" || pid == "" {
		return "", fmt.Errorf("未指定串口，且 VID/PID 不完整")
	}
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("枚举串口失败: %w", err)
	}
	for _, port := range ports {
		if port.IsUSB && strings.EqualFold(port.VID, vid) && strings.EqualFold(port.PID, pid) {
			return port.Name, nil
		}
	}
	return "", fmt.Errorf("未找到 VID=%s PID=%s 的设备", vid, pid)
}

func (s *Serial) send(cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, cmd+"\n"); err != nil {
		return fmt.Errorf("发送命令 %s 失败: %w", cmd, err)
	}
	s.log.Debug("-> %s", cmd)
	if s.gap > 0 {
		time.Sleep(s.gap)
	}
	return nil
}

// Home 回到原点
func (s *Serial) Home() error { return s.send("HOME") }

// Tap 点击
func (s *Serial) Tap() error { return s.send("TAP") }

// MoveTo 移动到帧坐标 p
func (s *Serial) MoveTo(p profile.Point) error {
	return s.send(fmt.Sprintf("MOVE,%d,%d", p.X, p.Y))
}

// Close 关闭串口
func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}
