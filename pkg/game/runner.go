package game

import (
	"context"
	"errors"
	"time"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/console"
	"github.com/zoeyai/fgoworker/pkg/vision"
)

// ErrTerminated 操作员选择退出
var ErrTerminated = errors.New("操作员终止运行")

// FrameSource 提供最新画面，返回的 Frame 由调用方关闭
type FrameSource interface {
	Latest() (*vision.Frame, bool)
}

// Ticker 逐帧驱动的自动化流程，Selector 与 BoxOpener 都实现了该接口
type Ticker interface {
	Tick(ctx context.Context, f *vision.Frame) error
	ErrorCount() int
	ResetErrors()
}

// Operator 错误次数达到上限时询问操作员
type Operator interface {
	Prompt(ctx context.Context) (console.Decision, error)
}

// RunnerConfig 主循环参数
type RunnerConfig struct {
	// Interval 两次 Tick 之间的间隔
	Interval time.Duration
	// MaxErrorCount 连续判别失败达到该次数时暂停并询问操作员
	MaxErrorCount int
}

// Runner 主循环：指针归位、取最新画面、Tick、必要时询问操作员
type Runner struct {
	frames FrameSource
	ptr    Pointer
	ticker Ticker
	op     Operator
	cfg    RunnerConfig
	log    *logger.Logger
}

// NewRunner 创建主循环
func NewRunner(frames FrameSource, ptr Pointer, ticker Ticker, op Operator, cfg RunnerConfig, log *logger.Logger) *Runner {
	return &Runner{frames: frames, ptr: ptr, ticker: ticker, op: op, cfg: cfg, log: log}
}

// Run 持续运行直到 ctx 取消或操作员选择退出
//
// ctx 取消时返回 ctx.Err()，操作员退出时返回 ErrTerminated。
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.ptr.Home(); err != nil {
			r.log.Warn("指针归位失败: %v", err)
		}

		if f, ok := r.frames.Latest(); ok {
			err := r.ticker.Tick(ctx, f)
			f.Close()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.log.Error("%v", err)
			}
		}

		if r.cfg.MaxErrorCount > 0 && r.ticker.ErrorCount() >= r.cfg.MaxErrorCount {
			r.log.Error("连续 %d 次无法判别当前画面", r.ticker.ErrorCount())
			decision, err := r.op.Prompt(ctx)
			if err != nil {
				return err
			}
			switch decision {
			case console.Resume:
				r.ticker.ResetErrors()
				r.log.Info("继续运行")
			case console.Terminate:
				return ErrTerminated
			}
		}

		if err := sleep(ctx, r.cfg.Interval); err != nil {
			return err
		}
	}
}
