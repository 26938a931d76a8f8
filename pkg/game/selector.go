package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/profile"
	"github.com/zoeyai/fgoworker/pkg/vision"
)

// Pointer 模拟触摸的指针设备
type Pointer interface {
	// Home 回到固定原点
	Home() error
	// MoveTo 移动到帧坐标 p
	MoveTo(p profile.Point) error
	// Tap 在当前位置点击
	Tap() error
}

// Delays 各操作之后的等待时间
type Delays struct {
	// Support 选择助战后等待进入战斗
	Support time.Duration
	// Skill 释放技能后等待动画
	Skill time.Duration
	// Card 每次点卡之后
	Card time.Duration
	// Result 结算画面每次点击"下一步"之后
	Result time.Duration
	// Continue 点击连续出击之后
	Continue time.Duration
	// Apple 吃苹果确认之后
	Apple time.Duration
	// Dialog 关闭对话框之后
	Dialog time.Duration
}

// DefaultDelays 默认等待时间
func DefaultDelays() Delays {
	return Delays{
		Support:  10 * time.Second,
		Skill:    3 * time.Second,
		Card:     200 * time.Millisecond,
		Result:   2 * time.Second,
		Continue: 8 * time.Second,
		Apple:    3 * time.Second,
		Dialog:   time.Second,
	}
}

// Selector 战斗流程的状态机，每次 Tick 最多做一次阶段转移
type Selector struct {
	cls      *Classifier
	ptr      Pointer
	delays   Delays
	log      *logger.Logger
	rng      *rand.Rand
	debugDir string

	phase  Phase
	errors int
	// used 本回合已点过的技能，点击 Attack 后清空
	used [3][3]bool
}

// SelectorOption Selector 配置选项
type SelectorOption func(*Selector)

// WithRand 指定随机出卡使用的随机源
func WithRand(rng *rand.Rand) SelectorOption {
	return func(s *Selector) {
		s.rng = rng
	}
}

// WithDebugDir 找不到 Attack 按钮时把画面保存到 dir
func WithDebugDir(dir string) SelectorOption {
	return func(s *Selector) {
		s.debugDir = dir
	}
}

// NewSelector 创建状态机，初始阶段为 PhaseOther
func NewSelector(cls *Classifier, ptr Pointer, delays Delays, log *logger.Logger, opts ...SelectorOption) *Selector {
	s := &Selector{
		cls:    cls,
		ptr:    ptr,
		delays: delays,
		log:    log,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		phase:  PhaseOther,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase 当前阶段
func (s *Selector) Phase() Phase { return s.phase }

// ErrorCount 连续无法判别画面的次数
func (s *Selector) ErrorCount() int { return s.errors }

// ResetErrors 由操作员选择继续时清零
func (s *Selector) ResetErrors() { s.errors = 0 }

// outcome 一次 Tick 的结果
type outcome struct {
	next   Phase
	ok     bool
	detail string
	// keep 成功但不算阶段转移，错误计数保持不变
	keep bool
}

func succeed(next Phase, detail string) outcome {
	return outcome{next: next, ok: true, detail: detail}
}

func fail(detail string) outcome {
	return outcome{next: PhaseOther, detail: detail}
}

// Tick 根据当前阶段处理一帧画面
//
// 成功的阶段分支会把错误计数清零；只有 Other 分支判别失败才会加一。
// 指针设备出错时回到 Other，计数不变，并返回错误。
func (s *Selector) Tick(ctx context.Context, f *vision.Frame) error {
	start := time.Now()
	current := s.phase

	var (
		out outcome
		err error
	)
	switch current {
	case PhaseSupporterSelect:
		out, err = s.supporterSelect(ctx, f)
	case PhaseSkillSelect:
		out, err = s.skillSelect(ctx, f)
	case PhaseCardSelect:
		out, err = s.cardSelect(ctx, f)
	case PhaseResult:
		out, err = s.result(ctx, f)
	case PhaseEndProcess:
		out, err = s.endProcess(ctx, f)
	case PhaseUseApple:
		out, err = s.useApple(ctx, f)
	default:
		out, err = s.other(ctx, f)
	}

	if err != nil {
		s.phase = PhaseOther
		s.log.LogEvent(current.String(), false, time.Since(start), err.Error())
		return fmt.Errorf("%s 阶段操作失败: %w", current, err)
	}

	s.phase = out.next
	if out.ok && !out.keep {
		s.errors = 0
	}
	s.log.LogEvent(current.String(), out.ok, time.Since(start), out.detail)
	return nil
}

func (s *Selector) supporterSelect(ctx context.Context, f *vision.Frame) (outcome, error) {
	p := s.cls.Profile()
	if _, ok := s.cls.Find(f, p.Templates.Support, &p.SupportROI); !ok {
		return fail("未识别到助战选择画面"), nil
	}
	if err := s.tapAt(ctx, p.SupportTap, s.delays.Support); err != nil {
		return outcome{}, err
	}
	return succeed(PhaseSkillSelect, "选择助战"), nil
}

func (s *Selector) skillSelect(ctx context.Context, f *vision.Frame) (outcome, error) {
	p := s.cls.Profile()

	if _, ok := s.cls.Find(f, p.Templates.SkillTarget, &p.SkillTargetROI); ok {
		if err := s.tapAt(ctx, p.SkillTargetTap, s.delays.Skill); err != nil {
			return outcome{}, err
		}
		return succeed(PhaseSkillSelect, "选择技能对象"), nil
	}

	attack, ok := s.cls.Find(f, p.Templates.Attack, &p.AttackROI)
	if !ok {
		s.snapshot(f)
		return fail("未识别到 Attack 按钮"), nil
	}

	for servant := 0; servant < 3; servant++ {
		for skill := 0; skill < 3; skill++ {
			if s.used[servant][skill] || !s.cls.SkillAvailable(f, servant, skill) {
				continue
			}
			s.used[servant][skill] = true
			if err := s.tapAt(ctx, p.SkillIcons[servant][skill].Center(), s.delays.Skill); err != nil {
				return outcome{}, err
			}
			return succeed(PhaseSkillSelect, fmt.Sprintf("释放技能 %d-%d", servant+1, skill+1)), nil
		}
	}

	if err := s.tapAt(ctx, attack, 0); err != nil {
		return outcome{}, err
	}
	s.used = [3][3]bool{}
	return succeed(PhaseCardSelect, "点击 Attack"), nil
}

func (s *Selector) cardSelect(ctx context.Context, f *vision.Frame) (outcome, error) {
	p := s.cls.Profile()
	cards := s.cls.ClassifyCards(f)
	if CountUnknown(cards) >= 3 {
		return fail(fmt.Sprintf("无法识别指令卡 %v", cards)), nil
	}

	gauges := s.cls.NPGauges(f)
	sel := SelectCards(gauges, cards, func() ([]int, bool) { return s.cls.BraveChain(f) }, s.rng)
	s.log.Info("卡色 %v NP %v -> %s", cards, gauges, sel)

	for _, i := range sel.NP {
		if err := s.tapAt(ctx, p.NPTaps[i], s.delays.Card); err != nil {
			return outcome{}, err
		}
	}
	for _, i := range sel.Cards {
		if err := s.tapAt(ctx, p.CardTaps[i], s.delays.Card); err != nil {
			return outcome{}, err
		}
	}
	return succeed(PhaseOther, sel.String()), nil
}

func (s *Selector) result(ctx context.Context, f *vision.Frame) (outcome, error) {
	p := s.cls.Profile()
	if _, ok := s.cls.Find(f, p.Templates.Result, &p.ResultROI); !ok {
		return fail("未识别到结算画面"), nil
	}
	if err := s.ptr.MoveTo(p.ResultNextTap); err != nil {
		return outcome{}, err
	}
	for i := 0; i < p.ResultTaps; i++ {
		if err := s.tap(ctx, s.delays.Result); err != nil {
			return outcome{}, err
		}
	}
	return succeed(PhaseEndProcess, "跳过结算"), nil
}

func (s *Selector) endProcess(ctx context.Context, f *vision.Frame) (outcome, error) {
	p := s.cls.Profile()
	pt, ok := s.cls.Find(f, p.Templates.Continue, &p.ContinueROI)
	if !ok {
		return fail("未识别到连续出击按钮"), nil
	}
	if err := s.tapAt(ctx, pt, s.delays.Continue); err != nil {
		return outcome{}, err
	}
	return succeed(PhaseOther, "连续出击"), nil
}

// useApple 分两步：先选金苹果（没有则银苹果），下一帧出现确认框后再确认
func (s *Selector) useApple(ctx context.Context, f *vision.Frame) (outcome, error) {
	p := s.cls.Profile()

	if pt, ok := s.cls.Find(f, p.Templates.AppleConfirm, &p.AppleConfirmROI); ok {
		if err := s.tapAt(ctx, pt, s.delays.Apple); err != nil {
			return outcome{}, err
		}
		return succeed(PhaseSupporterSelect, "确认使用苹果"), nil
	}

	if _, ok := s.cls.AppleBanner(f); !ok {
		return fail("未识别到体力不足画面"), nil
	}
	for _, name := range []string{p.Templates.GoldApple, p.Templates.SilverApple} {
		if pt, ok := s.cls.Find(f, name, &p.AppleItemROI); ok {
			if err := s.tapAt(ctx, pt, s.delays.Apple); err != nil {
				return outcome{}, err
			}
			return succeed(PhaseUseApple, "选择 "+name), nil
		}
	}
	return fail("没有可用的苹果"), nil
}

func (s *Selector) other(ctx context.Context, f *vision.Frame) (outcome, error) {
	p := s.cls.Profile()

	if pt, ok := s.cls.Find(f, p.Templates.CloseDialog, &p.CloseDialogROI); ok {
		if err := s.tapAt(ctx, pt, s.delays.Dialog); err != nil {
			return outcome{}, err
		}
		return outcome{next: PhaseOther, ok: true, keep: true, detail: "关闭对话框"}, nil
	}

	next := s.cls.Phase(f)
	if next == PhaseOther {
		s.errors++
		return outcome{next: PhaseOther, detail: fmt.Sprintf("画面判别中 (%d)", s.errors)}, nil
	}
	return succeed(next, "识别为 "+next.String()), nil
}

func (s *Selector) snapshot(f *vision.Frame) {
	if s.debugDir == "" {
		return
	}
	if _, err := s.cls.Snapshot(f, s.debugDir); err != nil {
		s.log.Warn("保存画面失败: %v", err)
	}
}

func (s *Selector) tapAt(ctx context.Context, pt profile.Point, delay time.Duration) error {
	if err := s.ptr.MoveTo(pt); err != nil {
		return err
	}
	return s.tap(ctx, delay)
}

func (s *Selector) tap(ctx context.Context, delay time.Duration) error {
	if err := s.ptr.Tap(); err != nil {
		return err
	}
	return sleep(ctx, delay)
}

// sleep 等待 d，ctx 取消时提前返回
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
