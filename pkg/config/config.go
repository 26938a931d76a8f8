// Package config 管理运行配置，保存在 ~/.fgoworker/config.json
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Duration 以 "10s"、"200ms" 形式序列化的时间长度
type Duration time.Duration

// MarshalJSON 输出为字符串
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON 接受字符串或纳秒数
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("无效的时间长度 %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("无效的时间长度 %s", data)
	}
	*d = Duration(n)
	return nil
}

// Std 转换为 time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Rect 屏幕矩形
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty 宽或高为 0
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// DeviceConfig 指针设备配置
type DeviceConfig struct {
	// Kind serial | hid | desktop
	Kind     string   `json:"kind"`
	Port     string   `json:"port"`
	VID      string   `json:"vid"`
	PID      string   `json:"pid"`
	BaudRate int      `json:"baud_rate"`
	Gap      Duration `json:"gap"`
	HIDPath  string   `json:"hid_path"`
	// DisplayWidth/DisplayHeight HID 设备一侧的显示分辨率
	DisplayWidth  int `json:"display_width"`
	DisplayHeight int `json:"display_height"`
	// Window desktop 模式下镜像窗口的位置
	Window Rect `json:"window"`
}

// CaptureConfig 画面源配置
type CaptureConfig struct {
	// Kind video | screen
	Kind        string `json:"kind"`
	Pipeline    string `json:"pipeline"`
	DeviceIndex int    `json:"device_index"`
	// Screen screen 模式下截取的区域，为空时截取全屏
	Screen Rect     `json:"screen"`
	Idle   Duration `json:"idle"`
}

// DelayConfig 战斗流程中各操作之后的等待时间
type DelayConfig struct {
	Support  Duration `json:"support"`
	Skill    Duration `json:"skill"`
	Card     Duration `json:"card"`
	Result   Duration `json:"result"`
	Continue Duration `json:"continue"`
	Apple    Duration `json:"apple"`
	Dialog   Duration `json:"dialog"`
	BoxTap   Duration `json:"box_tap"`
	BoxStep  Duration `json:"box_step"`
}

// Config 运行配置
type Config struct {
	Mode          string        `json:"mode"`
	Device        DeviceConfig  `json:"device"`
	Capture       CaptureConfig `json:"capture"`
	Profile       string        `json:"profile"`
	ProfilePath   string        `json:"profile_path"`
	TemplateDir   string        `json:"template_dir"`
	DebugDir      string        `json:"debug_dir"`
	Debug         bool          `json:"debug"`
	MaxErrorCount int           `json:"max_error_count"`
	TickInterval  Duration      `json:"tick_interval"`
	Delays        DelayConfig   `json:"delays"`
	LogLevel      string        `json:"log_level"`
	LogFile       string        `json:"log_file"`
	// MirrorProcess 启动时检查的镜像程序进程名，为空时不检查
	MirrorProcess string `json:"mirror_process"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Mode: "battle",
		Device: DeviceConfig{
			Kind:          "serial",
			Port:          "/dev/ttyUSB0",
			BaudRate:      115200,
			HIDPath:       "/dev/hidg0",
			DisplayWidth:  300,
			DisplayHeight: 300,
		},
		Capture: CaptureConfig{
			Kind:     "video",
			Pipeline: "ximagesrc xname=rpiplay ! videoconvert ! appsink",
			Idle:     Duration(10 * time.Millisecond),
		},
		Profile:       "960x540",
		TemplateDir:   "./pict",
		DebugDir:      "./debug",
		MaxErrorCount: 500,
		TickInterval:  Duration(time.Second),
		Delays: DelayConfig{
			Support:  Duration(10 * time.Second),
			Skill:    Duration(3 * time.Second),
			Card:     Duration(200 * time.Millisecond),
			Result:   Duration(2 * time.Second),
			Continue: Duration(8 * time.Second),
			Apple:    Duration(3 * time.Second),
			Dialog:   Duration(time.Second),
			BoxTap:   Duration(100 * time.Millisecond),
			BoxStep:  Duration(2 * time.Second),
		},
		LogLevel:      "info",
		MirrorProcess: "rpiplay",
	}
}

// Validate 检查枚举字段与必要参数
func (c *Config) Validate() error {
	switch c.Mode {
	case "battle", "box":
	default:
		return fmt.Errorf("未知的运行模式: %s (battle|box)", c.Mode)
	}

	switch c.Device.Kind {
	case "serial":
		if c.Device.Port == "" && (c.Device.VID == "" || c.Device.PID == "") {
			return fmt.Errorf("serial 设备需要指定端口或 VID/PID")
		}
		if c.Device.BaudRate <= 0 {
			return fmt.Errorf("波特率无效: %d", c.Device.BaudRate)
		}
	case "hid":
		if c.Device.HIDPath == "" {
			return fmt.Errorf("hid 设备需要指定 hid_path")
		}
		if c.Device.DisplayWidth <= 0 || c.Device.DisplayHeight <= 0 {
			return fmt.Errorf("hid 设备的显示分辨率无效: %dx%d", c.Device.DisplayWidth, c.Device.DisplayHeight)
		}
	case "desktop":
		if c.Device.Window.Empty() {
			return fmt.Errorf("desktop 设备需要指定镜像窗口区域")
		}
	default:
		return fmt.Errorf("未知的设备类型: %s (serial|hid|desktop)", c.Device.Kind)
	}

	switch c.Capture.Kind {
	case "video", "screen":
	default:
		return fmt.Errorf("未知的画面源类型: %s (video|screen)", c.Capture.Kind)
	}

	if c.TemplateDir == "" {
		return fmt.Errorf("未指定模板目录")
	}
	if c.MaxErrorCount <= 0 {
		return fmt.Errorf("max_error_count 必须大于 0")
	}
	return nil
}

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return NewManagerWithDir(filepath.Join(homeDir, ".fgoworker"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// Load 加载配置，文件不存在时返回默认配置；文件中缺少的字段保持默认值
func (m *Manager) Load() (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("解析配置文件失败: %w", err)
	}

	return config, nil
}

// Save 保存配置
func (m *Manager) Save(config *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(m.configFile)
}

// GetConfigDir 获取配置目录
func (m *Manager) GetConfigDir() string {
	return m.configDir
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}
