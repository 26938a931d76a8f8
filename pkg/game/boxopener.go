package game

import (
	"context"
	"fmt"
	"time"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/profile"
	"github.com/zoeyai/fgoworker/pkg/vision"
)

// BoxDelays 抽箱模式的等待时间
type BoxDelays struct {
	// Tap 连续点击抽箱按钮的间隔
	Tap time.Duration
	// Step 重置流程每一步之后
	Step time.Duration
}

// DefaultBoxDelays 默认等待时间
func DefaultBoxDelays() BoxDelays {
	return BoxDelays{Tap: 100 * time.Millisecond, Step: 2 * time.Second}
}

const boxTaps = 5

// BoxOpener 活动奖池的自动抽取
//
// 每次 Tick：有抽取按钮就连点；否则按 重置 -> 执行 -> 关闭 的顺序重置奖池，
// 每一步都重新取最新画面；什么都没找到则错误计数加一。
type BoxOpener struct {
	cls    *Classifier
	ptr    Pointer
	frames FrameSource
	delays BoxDelays
	log    *logger.Logger

	errors int
	opened int
	resets int
}

// NewBoxOpener 创建抽箱器
func NewBoxOpener(cls *Classifier, ptr Pointer, frames FrameSource, delays BoxDelays, log *logger.Logger) *BoxOpener {
	return &BoxOpener{cls: cls, ptr: ptr, frames: frames, delays: delays, log: log}
}

// ErrorCount 连续未找到任何按钮的次数
func (b *BoxOpener) ErrorCount() int { return b.errors }

// ResetErrors 清零错误计数
func (b *BoxOpener) ResetErrors() { b.errors = 0 }

// Tick 处理一帧画面
func (b *BoxOpener) Tick(ctx context.Context, f *vision.Frame) error {
	start := time.Now()
	t := b.cls.Profile().Templates

	if pt, ok := b.cls.Find(f, t.OpenBox, nil); ok {
		if err := b.ptr.MoveTo(pt); err != nil {
			return b.failed(start, err)
		}
		for i := 0; i < boxTaps; i++ {
			if err := b.ptr.Tap(); err != nil {
				return b.failed(start, err)
			}
			if err := sleep(ctx, b.delays.Tap); err != nil {
				return b.failed(start, err)
			}
		}
		b.errors = 0
		b.opened += boxTaps
		b.log.LogEvent("OpenBox", true, time.Since(start), fmt.Sprintf("累计点击 %d 次", b.opened))
		return nil
	}

	pt, ok := b.cls.Find(f, t.ResetBox, nil)
	if !ok {
		b.errors++
		b.log.LogEvent("OpenBox", false, time.Since(start), fmt.Sprintf("画面判别中 (%d)", b.errors))
		return nil
	}
	if err := b.tapAt(ctx, pt); err != nil {
		return b.failed(start, err)
	}

	for _, name := range []string{t.ExecuteReset, t.CloseBox} {
		found, err := b.step(ctx, name)
		if err != nil {
			return b.failed(start, err)
		}
		if !found {
			b.errors++
			b.log.LogEvent("ResetBox", false, time.Since(start), "未找到 "+name)
			return nil
		}
	}

	b.errors = 0
	b.resets++
	b.log.LogEvent("ResetBox", true, time.Since(start), fmt.Sprintf("第 %d 次重置", b.resets))
	return nil
}

// step 在最新画面中查找 name 并点击
func (b *BoxOpener) step(ctx context.Context, name string) (bool, error) {
	f, ok := b.frames.Latest()
	if !ok {
		return false, nil
	}
	defer f.Close()

	pt, ok := b.cls.Find(f, name, nil)
	if !ok {
		return false, nil
	}
	return true, b.tapAt(ctx, pt)
}

func (b *BoxOpener) tapAt(ctx context.Context, pt profile.Point) error {
	if err := b.ptr.MoveTo(pt); err != nil {
		return err
	}
	if err := b.ptr.Tap(); err != nil {
		return err
	}
	return sleep(ctx, b.delays.Step)
}

func (b *BoxOpener) failed(start time.Time, err error) error {
	b.log.LogEvent("OpenBox", false, time.Since(start), err.Error())
	return fmt.Errorf("抽箱操作失败: %w", err)
}
