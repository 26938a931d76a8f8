package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.MaxErrorCount != 500 {
		t.Errorf("默认 MaxErrorCount 应为 500, 实际为 %d", config.MaxErrorCount)
	}
	if config.Device.Kind != "serial" || config.Device.BaudRate != 115200 {
		t.Errorf("默认设备应为 115200 baud 的串口, 实际为 %+v", config.Device)
	}
	if config.Delays.Support.Std() != 10*time.Second {
		t.Errorf("默认助战等待应为 10s, 实际为 %v", config.Delays.Support.Std())
	}
	if err := config.Validate(); err != nil {
		t.Errorf("默认配置应有效: %v", err)
	}

	t.Logf("默认配置: %+v", config)
}

func TestManagerSaveAndLoad(t *testing.T) {
	// 使用临时目录
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	// 检查初始状态
	if manager.Exists() {
		t.Error("初始时配置文件不应存在")
	}

	config := DefaultConfig()
	config.Mode = "box"
	config.Device.Kind = "hid"
	config.Device.DisplayWidth = 1080
	config.Delays.Result = Duration(1500 * time.Millisecond)

	if err := manager.Save(config); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}

	if !manager.Exists() {
		t.Error("保存后配置文件应存在")
	}

	data, err := os.ReadFile(manager.GetConfigFile())
	if err != nil {
		t.Fatalf("读取配置文件失败: %v", err)
	}
	if !strings.Contains(string(data), `"result": "1.5s"`) {
		t.Errorf("时间长度应以字符串保存: %s", data)
	}

	loaded, err := manager.Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if loaded.Mode != "box" {
		t.Errorf("Mode 不匹配: 期望 box, 实际 %s", loaded.Mode)
	}
	if loaded.Device.Kind != "hid" || loaded.Device.DisplayWidth != 1080 {
		t.Errorf("Device 不匹配: %+v", loaded.Device)
	}
	if loaded.Delays.Result.Std() != 1500*time.Millisecond {
		t.Errorf("Delays.Result 不匹配: %v", loaded.Delays.Result.Std())
	}

	t.Logf("加载的配置: %+v", loaded)
}

func TestManagerLoadPartialFile(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	content := `{"device": {"kind": "desktop", "window": {"x": 0, "y": 0, "width": 960, "height": 540}}, "tick_interval": "500ms"}`
	if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	config, err := manager.Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if config.Device.Kind != "desktop" || config.TickInterval.Std() != 500*time.Millisecond {
		t.Errorf("文件中的字段应被读取: %+v", config)
	}
	// 文件中没有的字段保持默认
	if config.MaxErrorCount != 500 || config.Device.BaudRate != 115200 {
		t.Errorf("缺少的字段应保持默认值: %+v", config)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("配置应有效: %v", err)
	}
}

func TestManagerLoadInvalidFile(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	content := `{"tick_interval": "soon"}`
	if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	config, err := manager.Load()
	if err == nil {
		t.Error("无效的时间长度应返回错误")
	}
	if config == nil || config.MaxErrorCount != 500 {
		t.Error("出错时应返回默认配置")
	}
}

func TestManagerClear(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	if err := manager.Save(DefaultConfig()); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}

	if !manager.Exists() {
		t.Fatal("保存后配置文件应存在")
	}

	if err := manager.Clear(); err != nil {
		t.Fatalf("清除配置失败: %v", err)
	}

	if manager.Exists() {
		t.Error("清除后配置文件不应存在")
	}

	// 清除不存在的文件不应报错
	if err := manager.Clear(); err != nil {
		t.Errorf("清除不存在的配置不应报错: %v", err)
	}
}

func TestManagerLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	// 加载不存在的配置应返回默认值
	config, err := manager.Load()
	if err != nil {
		t.Fatalf("加载不存在的配置不应报错: %v", err)
	}
	if config.Profile != "960x540" {
		t.Errorf("应返回默认配置, Profile=%s", config.Profile)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{"未知模式", func(c *Config) { c.Mode = "farm" }, "运行模式"},
		{"未知设备", func(c *Config) { c.Device.Kind = "bluetooth" }, "设备类型"},
		{"串口缺少端口", func(c *Config) { c.Device.Port = "" }, "VID/PID"},
		{"HID 缺少分辨率", func(c *Config) { c.Device.Kind = "hid"; c.Device.DisplayWidth = 0 }, "显示分辨率"},
		{"桌面缺少窗口", func(c *Config) { c.Device.Kind = "desktop" }, "镜像窗口"},
		{"未知画面源", func(c *Config) { c.Capture.Kind = "file" }, "画面源"},
		{"错误上限", func(c *Config) { c.MaxErrorCount = 0 }, "max_error_count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("期望包含 %q 的错误, 实际 %v", tt.want, err)
			}
		})
	}
}
