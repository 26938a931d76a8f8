package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/capture"
	"github.com/zoeyai/fgoworker/pkg/config"
	"github.com/zoeyai/fgoworker/pkg/console"
	"github.com/zoeyai/fgoworker/pkg/device"
	"github.com/zoeyai/fgoworker/pkg/game"
	"github.com/zoeyai/fgoworker/pkg/permissions"
	"github.com/zoeyai/fgoworker/pkg/process"
	"github.com/zoeyai/fgoworker/pkg/profile"
	"github.com/zoeyai/fgoworker/pkg/vision"
	"github.com/zoeyai/fgoworker/pkg/vision/cv"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 命令行参数
	var (
		mode        = flag.String("mode", "", "运行模式: battle | box")
		deviceKind  = flag.String("device", "", "指针设备: serial | hid | desktop")
		port        = flag.String("port", "", "串口 (例: /dev/ttyUSB0)")
		vid         = flag.String("vid", "", "串口设备 USB VID，未指定端口时用于查找")
		pid         = flag.String("pid", "", "串口设备 USB PID")
		baud        = flag.Int("baud", 0, "串口波特率")
		hidPath     = flag.String("hid", "", "HID gadget 设备 (例: /dev/hidg0)")
		captureKind = flag.String("capture", "", "画面源: video | screen")
		pipeline    = flag.String("pipeline", "", "GStreamer 管线")
		profileName = flag.String("profile", "", "内置布局 (例: 960x540)")
		profileFile = flag.String("profile-file", "", "YAML 布局文件，覆盖内置布局中的字段")
		templateDir = flag.String("templates", "", "模板图像目录")
		debugDir    = flag.String("debug-dir", "", "调试画面保存目录")
		debug       = flag.Bool("debug", false, "输出匹配细节与 Brave 链得分")
		maxErrors   = flag.Int("max-errors", 0, "连续判别失败多少次后暂停")
		logLevel    = flag.String("log-level", "", "日志级别: debug | info | warn | error")
		logFile     = flag.String("log-file", "", "日志文件")
		mirror      = flag.String("mirror", "", "启动时检查的镜像程序进程名")
		saveConfig  = flag.Bool("save", false, "保存配置到本地")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	manager := config.NewManager()

	// 显示版本
	if *showVersion {
		printVersion()
		return 0
	}

	// 显示帮助
	if *showHelp {
		printHelp(manager)
		return 0
	}

	// 加载配置
	cfg, err := manager.Load()
	if err != nil {
		fmt.Printf("[WARN] 加载配置失败: %v\n", err)
	}

	// 命令行参数优先级高于配置文件
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	overrideString(set, "mode", &cfg.Mode, *mode)
	overrideString(set, "device", &cfg.Device.Kind, *deviceKind)
	overrideString(set, "port", &cfg.Device.Port, *port)
	overrideString(set, "vid", &cfg.Device.VID, *vid)
	overrideString(set, "pid", &cfg.Device.PID, *pid)
	overrideString(set, "hid", &cfg.Device.HIDPath, *hidPath)
	overrideString(set, "capture", &cfg.Capture.Kind, *captureKind)
	overrideString(set, "pipeline", &cfg.Capture.Pipeline, *pipeline)
	overrideString(set, "profile", &cfg.Profile, *profileName)
	overrideString(set, "profile-file", &cfg.ProfilePath, *profileFile)
	overrideString(set, "templates", &cfg.TemplateDir, *templateDir)
	overrideString(set, "debug-dir", &cfg.DebugDir, *debugDir)
	overrideString(set, "log-level", &cfg.LogLevel, *logLevel)
	overrideString(set, "log-file", &cfg.LogFile, *logFile)
	overrideString(set, "mirror", &cfg.MirrorProcess, *mirror)
	if set["baud"] {
		cfg.Device.BaudRate = *baud
	}
	if set["max-errors"] {
		cfg.MaxErrorCount = *maxErrors
	}
	if set["debug"] {
		cfg.Debug = *debug
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		fmt.Printf("[ERROR] 配置无效: %v\n", err)
		printHelp(manager)
		return 1
	}

	// 保存配置
	if *saveConfig {
		if err := manager.Save(cfg); err != nil {
			fmt.Printf("[WARN] 保存配置失败: %v\n", err)
		} else {
			fmt.Printf("[INFO] 配置已保存到 %s\n", manager.GetConfigFile())
		}
	}

	log := logger.New()
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if err := log.SetFile(cfg.LogFile); err != nil {
		fmt.Printf("[WARN] %v\n", err)
	}
	defer log.Close()

	// 打印启动信息
	fmt.Println("========================================")
	fmt.Printf("  FGO Worker v%s\n", Version)
	fmt.Println("========================================")
	fmt.Printf("模式: %s  设备: %s  画面源: %s  布局: %s\n", cfg.Mode, cfg.Device.Kind, cfg.Capture.Kind, cfg.Profile)
	fmt.Println()

	if err := preflight(cfg, log); err != nil {
		log.Error("%v", err)
		return 1
	}

	prof, err := profile.Load(cfg.Profile, cfg.ProfilePath)
	if err != nil {
		log.Error("加载布局失败: %v", err)
		return 1
	}

	// 预加载模板，缺失的模板在启动时就报错
	store := cv.NewStore(cfg.TemplateDir)
	defer store.Close()
	names := prof.TemplateNames()
	if cfg.Mode == "box" {
		names = prof.BoxTemplateNames()
	}
	if err := store.Preload(names...); err != nil {
		log.Error("加载模板失败: %v", err)
		return 1
	}
	log.Info("已加载 %d 个模板: %s", len(names), store)

	ptr, err := openDevice(cfg, prof, log.Named("device"))
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	defer ptr.Close()

	src, err := openSource(cfg)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	grabber := capture.NewGrabber(src, prof.Width, prof.Height, log.Named("capture"),
		capture.WithIdle(cfg.Capture.Idle.Std()))
	grabbed := make(chan struct{})
	go func() {
		grabber.Run(ctx)
		close(grabbed)
	}()
	defer func() {
		stop()
		<-grabbed
		grabber.Close()
	}()

	matcher := vision.NewMatcher(store, log.Named("vision"), vision.WithDebug(cfg.Debug))
	classifier := game.NewClassifier(matcher, prof, log.Named("game"), cfg.Debug)

	var ticker game.Ticker
	switch cfg.Mode {
	case "box":
		ticker = game.NewBoxOpener(classifier, ptr, grabber, game.BoxDelays{
			Tap:  cfg.Delays.BoxTap.Std(),
			Step: cfg.Delays.BoxStep.Std(),
		}, log.Named("box"))
	default:
		ticker = game.NewSelector(classifier, ptr, delaysFrom(cfg.Delays), log.Named("selector"),
			game.WithDebugDir(cfg.DebugDir))
	}

	runner := game.NewRunner(grabber, ptr, ticker, console.New(os.Stdin, os.Stdout), game.RunnerConfig{
		Interval:      cfg.TickInterval.Std(),
		MaxErrorCount: cfg.MaxErrorCount,
	}, log.Named("runner"))

	log.Info("开始运行，按 Ctrl+C 退出")
	err = runner.Run(ctx)
	switch {
	case errors.Is(err, game.ErrTerminated):
		log.Info("已按操作员要求退出")
		return 0
	case errors.Is(err, context.Canceled):
		log.Info("收到退出信号，已退出")
		return 0
	case err != nil:
		log.Error("运行出错: %v", err)
		return 1
	}
	return 0
}

func overrideString(set map[string]bool, name string, dst *string, v string) {
	if set[name] {
		*dst = v
	}
}

// preflight 检查镜像程序与系统权限
func preflight(cfg *config.Config, log *logger.Logger) error {
	if cfg.MirrorProcess != "" && cfg.Capture.Kind == "video" {
		info, err := process.Require(cfg.MirrorProcess)
		if err != nil {
			return err
		}
		log.Info("镜像程序: %s (PID %d)", info.Name, info.PID)
	}

	status := permissions.Check()
	return status.Require(cfg.Device.Kind == "desktop", cfg.Capture.Kind == "screen")
}

// pointerDevice 需要在退出时关闭的指针设备
type pointerDevice interface {
	game.Pointer
	io.Closer
}

func openDevice(cfg *config.Config, prof *profile.Profile, log *logger.Logger) (pointerDevice, error) {
	imageSize := device.Size{Width: prof.Width, Height: prof.Height}
	d := cfg.Device

	switch d.Kind {
	case "hid":
		return device.OpenHID(d.HIDPath, imageSize,
			device.Size{Width: d.DisplayWidth, Height: d.DisplayHeight}, log)
	case "desktop":
		return device.NewDesktop(device.Window{
			X: d.Window.X, Y: d.Window.Y, Width: d.Window.Width, Height: d.Window.Height,
		}, imageSize)
	default:
		return device.OpenSerial(device.SerialConfig{
			Port:     d.Port,
			VID:      d.VID,
			PID:      d.PID,
			BaudRate: d.BaudRate,
			Gap:      d.Gap.Std(),
		}, log)
	}
}

func openSource(cfg *config.Config) (capture.Source, error) {
	c := cfg.Capture
	if c.Kind == "screen" {
		var rect image.Rectangle
		if !c.Screen.Empty() {
			rect = image.Rect(c.Screen.X, c.Screen.Y, c.Screen.X+c.Screen.Width, c.Screen.Y+c.Screen.Height)
		}
		return capture.NewScreen(rect), nil
	}
	return capture.OpenVideo(c.Pipeline, c.DeviceIndex)
}

func delaysFrom(d config.DelayConfig) game.Delays {
	return game.Delays{
		Support:  d.Support.Std(),
		Skill:    d.Skill.Std(),
		Card:     d.Card.Std(),
		Result:   d.Result.Std(),
		Continue: d.Continue.Std(),
		Apple:    d.Apple.Std(),
		Dialog:   d.Dialog.Std(),
	}
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("FGO Worker v%s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp(manager *config.Manager) {
	fmt.Println("FGO Worker - 基于画面识别的自动战斗")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  fgoworker [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 通过串口控制，采集 rpiplay 窗口")
	fmt.Println("  fgoworker -device serial -port /dev/ttyUSB0 -pipeline 'ximagesrc xname=rpiplay ! videoconvert ! appsink'")
	fmt.Println()
	fmt.Println("  # 使用 HID gadget 并保存配置")
	fmt.Println("  fgoworker -device hid -hid /dev/hidg0 -save")
	fmt.Println()
	fmt.Println("  # 抽箱模式")
	fmt.Println("  fgoworker -mode box")
	fmt.Println()
	fmt.Printf("配置文件位置: %s\n", manager.GetConfigFile())
	fmt.Printf("内置布局: %v\n", profile.Names())
}
