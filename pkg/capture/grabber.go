package capture

import (
	"context"
	"sync"
	"time"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/vision"
	"github.com/zoeyai/fgoworker/pkg/vision/cv"
)

// Grabber 在后台读取画面源，缩放到工作分辨率后替换最新帧
//
// 消费方通过 Latest 取得副本，不会读到正在被替换的帧。
type Grabber struct {
	src    Source
	width  int
	height int
	idle   time.Duration
	log    *logger.Logger

	mu     sync.Mutex
	latest *vision.Frame
	frames int
}

// GrabberOption Grabber 配置选项
type GrabberOption func(*Grabber)

// WithIdle 两次读取之间的最短间隔，读取失败时也按该间隔重试
func WithIdle(d time.Duration) GrabberOption {
	return func(g *Grabber) {
		g.idle = d
	}
}

// NewGrabber 创建采集器，width/height 为工作分辨率
func NewGrabber(src Source, width, height int, log *logger.Logger, opts ...GrabberOption) *Grabber {
	g := &Grabber{
		src:    src,
		width:  width,
		height: height,
		idle:   10 * time.Millisecond,
		log:    log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run 持续采集直到 ctx 取消
func (g *Grabber) Run(ctx context.Context) {
	defer g.log.Info("画面采集已停止")
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if mat, ok := g.src.Read(); ok {
			if mat.Cols() != g.width || mat.Rows() != g.height {
				resized := cv.ResizeImage(mat, g.width, g.height)
				mat.Close()
				mat = resized
			}
			g.store(vision.NewFrame(mat))
		}

		t := time.NewTimer(g.idle)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

func (g *Grabber) store(f *vision.Frame) {
	g.mu.Lock()
	old := g.latest
	g.latest = f
	g.frames++
	g.mu.Unlock()
	old.Close()
}

// Latest 返回最新帧的副本，还没有采集到画面时返回 false
func (g *Grabber) Latest() (*vision.Frame, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest == nil {
		return nil, false
	}
	return g.latest.Clone(), true
}

// Frames 已采集的帧数
func (g *Grabber) Frames() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.frames
}

// Close 释放最新帧
func (g *Grabber) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest.Close()
	g.latest = nil
}
