package game

import (
	"context"
	"errors"
	"testing"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/console"
	"github.com/zoeyai/fgoworker/pkg/vision"
)

// failingTicker 每次 Tick 都判别失败
type failingTicker struct {
	ticks  int
	errors int
	resets int
	onTick func(n int)
}

func (f *failingTicker) Tick(ctx context.Context, frame *vision.Frame) error {
	f.ticks++
	f.errors++
	if f.onTick != nil {
		f.onTick(f.ticks)
	}
	return nil
}

func (f *failingTicker) ErrorCount() int { return f.errors }
func (f *failingTicker) ResetErrors()    { f.errors = 0; f.resets++ }

func TestRunnerEscalatesToOperator(t *testing.T) {
	frames := &fakeFrames{}
	ptr := &fakePointer{}
	ticker := &failingTicker{}
	op := &fakeOperator{decisions: []console.Decision{console.Resume, console.Terminate}}

	r := NewRunner(frames, ptr, ticker, op, RunnerConfig{MaxErrorCount: 3}, logger.Discard())
	err := r.Run(context.Background())

	if !errors.Is(err, ErrTerminated) {
		t.Fatalf("应返回 ErrTerminated, 实际 %v", err)
	}
	if ticker.ticks != 6 || op.prompts != 2 || ticker.resets != 1 {
		t.Errorf("期望 6 次 Tick、2 次询问、1 次清零, 实际 %d %d %d", ticker.ticks, op.prompts, ticker.resets)
	}
	if ptr.homes != ticker.ticks {
		t.Errorf("每次循环都应归位指针, 归位 %d 次, Tick %d 次", ptr.homes, ticker.ticks)
	}
}

func TestRunnerSkipsMissingFrames(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := &fakeFrames{next: func(call int) bool {
		if call == 4 {
			cancel()
		}
		return call%2 == 0
	}}
	ticker := &failingTicker{}
	r := NewRunner(frames, &fakePointer{}, ticker, &fakeOperator{}, RunnerConfig{MaxErrorCount: 10}, logger.Discard())

	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("应返回 context.Canceled, 实际 %v", err)
	}
	if ticker.ticks != 2 {
		t.Errorf("没有画面时应跳过 Tick, 期望 2 次, 实际 %d", ticker.ticks)
	}
}

func TestRunnerCancelledDuringTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := &failingTicker{onTick: func(n int) {
		if n == 3 {
			cancel()
		}
	}}
	r := NewRunner(&fakeFrames{}, &fakePointer{}, ticker, &fakeOperator{}, RunnerConfig{MaxErrorCount: 100}, logger.Discard())

	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("应返回 context.Canceled, 实际 %v", err)
	}
	if ticker.ticks != 3 {
		t.Errorf("取消后不应继续 Tick, 实际 %d", ticker.ticks)
	}
}
