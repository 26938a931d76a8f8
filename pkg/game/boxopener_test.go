package game

import (
	"context"
	"reflect"
	"testing"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/profile"
)

func newTestBoxOpener(eye *fakeEye, ptr *fakePointer) (*BoxOpener, *profile.Profile) {
	p := profile.Default()
	cls := NewClassifier(eye, p, logger.Discard(), false)
	return NewBoxOpener(cls, ptr, &fakeFrames{}, BoxDelays{}, logger.Discard()), p
}

func TestBoxOpenerOpens(t *testing.T) {
	eye := newFakeEye()
	ptr := &fakePointer{}
	b, p := newTestBoxOpener(eye, ptr)
	open := profile.Point{X: 300, Y: 350}
	eye.show(p.Templates.OpenBox, open)
	b.errors = 2

	if err := b.Tick(context.Background(), nil); err != nil {
		t.Fatalf("Tick 失败: %v", err)
	}
	if len(ptr.taps) != boxTaps {
		t.Errorf("应连点 %d 次, 实际 %d", boxTaps, len(ptr.taps))
	}
	for _, tap := range ptr.taps {
		if tap != open {
			t.Errorf("点击位置错误: %v", tap)
		}
	}
	if b.ErrorCount() != 0 {
		t.Errorf("成功后计数应清零, 实际 %d", b.ErrorCount())
	}
}

func TestBoxOpenerReset(t *testing.T) {
	eye := newFakeEye()
	ptr := &fakePointer{}
	b, p := newTestBoxOpener(eye, ptr)

	reset := profile.Point{X: 800, Y: 200}
	execute := profile.Point{X: 630, Y: 420}
	closeBtn := profile.Point{X: 480, Y: 420}
	eye.show(p.Templates.ResetBox, reset)
	eye.show(p.Templates.ExecuteReset, execute)
	eye.show(p.Templates.CloseBox, closeBtn)

	if err := b.Tick(context.Background(), nil); err != nil {
		t.Fatalf("Tick 失败: %v", err)
	}
	if want := []profile.Point{reset, execute, closeBtn}; !reflect.DeepEqual(ptr.taps, want) {
		t.Errorf("重置顺序错误\n期望 %v\n实际 %v", want, ptr.taps)
	}
	if b.resets != 1 || b.ErrorCount() != 0 {
		t.Errorf("应完成一次重置, 实际 resets=%d errors=%d", b.resets, b.ErrorCount())
	}
}

func TestBoxOpenerNothingFound(t *testing.T) {
	eye := newFakeEye()
	ptr := &fakePointer{}
	b, p := newTestBoxOpener(eye, ptr)

	ctx := context.Background()
	for i := 1; i <= 2; i++ {
		if err := b.Tick(ctx, nil); err != nil {
			t.Fatalf("Tick 失败: %v", err)
		}
	}
	if b.ErrorCount() != 2 || len(ptr.taps) != 0 {
		t.Errorf("未找到按钮时计数应累加且不点击, 实际 %d %v", b.ErrorCount(), ptr.taps)
	}

	// 重置流程中途找不到按钮
	eye.show(p.Templates.ResetBox, profile.Point{X: 800, Y: 200})
	if err := b.Tick(ctx, nil); err != nil {
		t.Fatalf("Tick 失败: %v", err)
	}
	if b.ErrorCount() != 3 || len(ptr.taps) != 1 {
		t.Errorf("缺少执行按钮时计数应加一, 实际 %d %v", b.ErrorCount(), ptr.taps)
	}

	b.ResetErrors()
	if b.ErrorCount() != 0 {
		t.Error("ResetErrors 应清零")
	}
}
