package game

import (
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/console"
	"github.com/zoeyai/fgoworker/pkg/profile"
	"github.com/zoeyai/fgoworker/pkg/vision"
)

type matchKey struct {
	name string
	roi  profile.Region
}

// fakeEye 按模板名（可选区域）返回预设的置信度，忽略画面内容
type fakeEye struct {
	conf    map[string]float64
	byROI   map[matchKey]float64
	points  map[string]profile.Point
	errs    map[string]error
	columns map[profile.Region][]float64
	rows    map[profile.Region][]float64
	sim     func(target, tmpl profile.Region) float64

	snapshots int
}

func newFakeEye() *fakeEye {
	return &fakeEye{
		conf:    map[string]float64{},
		byROI:   map[matchKey]float64{},
		points:  map[string]profile.Point{},
		errs:    map[string]error{},
		columns: map[profile.Region][]float64{},
		rows:    map[profile.Region][]float64{},
	}
}

// show 让模板 name 以置信度 0.95 出现在 pt
func (e *fakeEye) show(name string, pt profile.Point) {
	e.conf[name] = 0.95
	e.points[name] = pt
}

func (e *fakeEye) hide(name string) {
	delete(e.conf, name)
}

// cards 设置 5 个卡位的种类
func (e *fakeEye) cards(p *profile.Profile, kinds [5]Card) {
	names := map[Card]string{CardArts: p.Templates.Arts, CardQuick: p.Templates.Quick, CardBuster: p.Templates.Buster}
	for i, k := range kinds {
		for _, n := range names {
			delete(e.byROI, matchKey{n, p.CardRegions[i]})
		}
		if k != CardUnknown {
			e.byROI[matchKey{names[k], p.CardRegions[i]}] = 0.95
		}
	}
}

func (e *fakeEye) Match(f *vision.Frame, name string, roi *profile.Region) (vision.Match, error) {
	if err := e.errs[name]; err != nil {
		return vision.Match{}, err
	}
	c := e.conf[name]
	pt, ok := e.points[name]
	if roi != nil {
		if v, found := e.byROI[matchKey{name, *roi}]; found {
			c = v
		}
		if !ok {
			pt = roi.Center()
		}
	}
	return vision.Match{Point: pt, Confidence: c}, nil
}

func (e *fakeEye) Similarity(f *vision.Frame, target, tmpl profile.Region, ratio float64) (float64, error) {
	if e.sim == nil {
		return 0, nil
	}
	return e.sim(target, tmpl), nil
}

func (e *fakeEye) ColumnMeans(f *vision.Frame, r profile.Region) ([]float64, error) {
	return e.columns[r], nil
}

func (e *fakeEye) RowMeans(f *vision.Frame, r profile.Region) ([]float64, error) {
	return e.rows[r], nil
}

func (e *fakeEye) Snapshot(f *vision.Frame, dir string) (string, error) {
	e.snapshots++
	return dir + "/snapshot.png", nil
}

// fakePointer 记录指针操作，taps 为每次点击时的位置
type fakePointer struct {
	pos     profile.Point
	ops     []string
	taps    []profile.Point
	homes   int
	tapErr  error
	moveErr error
}

func (p *fakePointer) Home() error {
	p.homes++
	p.pos = profile.Point{}
	p.ops = append(p.ops, "home")
	return nil
}

func (p *fakePointer) MoveTo(pt profile.Point) error {
	if p.moveErr != nil {
		return p.moveErr
	}
	p.pos = pt
	p.ops = append(p.ops, fmt.Sprintf("move %d,%d", pt.X, pt.Y))
	return nil
}

func (p *fakePointer) Tap() error {
	if p.tapErr != nil {
		return p.tapErr
	}
	p.taps = append(p.taps, p.pos)
	p.ops = append(p.ops, "tap")
	return nil
}

var errDevice = errors.New("设备已断开")

// brightStrip 一直明亮的 NP 槽，读数为 100
func brightStrip(r profile.Region) []float64 {
	means := make([]float64, r.Width())
	for i := range means {
		means[i] = 200
	}
	return means
}

func newTestSelector(eye *fakeEye, ptr *fakePointer, opts ...SelectorOption) (*Selector, *profile.Profile) {
	p := profile.Default()
	cls := NewClassifier(eye, p, logger.Discard(), false)
	return NewSelector(cls, ptr, Delays{}, logger.Discard(), opts...), p
}

// blankFrame 最小的真实画面，用于需要 Close 的场景
func blankFrame() *vision.Frame {
	return vision.NewFrame(gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3))
}

// fakeFrames 依次返回画面，next 返回 false 表示这一次没有画面
type fakeFrames struct {
	calls int
	next  func(call int) bool
}

func (s *fakeFrames) Latest() (*vision.Frame, bool) {
	s.calls++
	if s.next != nil && !s.next(s.calls) {
		return nil, false
	}
	return blankFrame(), true
}

// fakeOperator 按顺序返回预设的选择
type fakeOperator struct {
	decisions []console.Decision
	prompts   int
}

func (o *fakeOperator) Prompt(ctx context.Context) (console.Decision, error) {
	o.prompts++
	if len(o.decisions) == 0 {
		return console.Terminate, nil
	}
	d := o.decisions[0]
	o.decisions = o.decisions[1:]
	return d, nil
}
