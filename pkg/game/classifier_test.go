package game

import (
	"testing"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/profile"
)

func newTestClassifier(eye *fakeEye) (*Classifier, *profile.Profile) {
	p := profile.Default()
	return NewClassifier(eye, p, logger.Discard(), true), p
}

func TestPhaseCascadePriority(t *testing.T) {
	pt := profile.Point{X: 10, Y: 10}
	tests := []struct {
		name  string
		setup func(e *fakeEye, p *profile.Profile)
		want  Phase
	}{
		{"无任何标记", func(e *fakeEye, p *profile.Profile) {}, PhaseOther},
		{"指令卡优先于 Attack", func(e *fakeEye, p *profile.Profile) {
			e.cards(p, [5]Card{CardArts, CardQuick, CardBuster, CardUnknown, CardUnknown})
			e.show(p.Templates.Attack, pt)
		}, PhaseCardSelect},
		{"三张未识别不算指令卡", func(e *fakeEye, p *profile.Profile) {
			e.cards(p, [5]Card{CardArts, CardQuick, CardUnknown, CardUnknown, CardUnknown})
			e.show(p.Templates.Attack, pt)
		}, PhaseSkillSelect},
		{"Attack 优先于结算", func(e *fakeEye, p *profile.Profile) {
			e.show(p.Templates.Attack, pt)
			e.show(p.Templates.Result, pt)
		}, PhaseSkillSelect},
		{"结算优先于连续出击", func(e *fakeEye, p *profile.Profile) {
			e.show(p.Templates.Result, pt)
			e.show(p.Templates.Continue, pt)
		}, PhaseResult},
		{"连续出击", func(e *fakeEye, p *profile.Profile) {
			e.show(p.Templates.Continue, pt)
			e.show(p.Templates.Support, pt)
		}, PhaseEndProcess},
		{"助战选择", func(e *fakeEye, p *profile.Profile) {
			e.show(p.Templates.Support, pt)
			e.show(p.Templates.AppleBanners[0], pt)
		}, PhaseSupporterSelect},
		{"活动版体力提示", func(e *fakeEye, p *profile.Profile) {
			e.show(p.Templates.AppleBanners[1], pt)
		}, PhaseUseApple},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eye := newFakeEye()
			c, p := newTestClassifier(eye)
			tt.setup(eye, p)
			if got := c.Phase(nil); got != tt.want {
				t.Errorf("期望 %s, 实际 %s", tt.want, got)
			}
		})
	}
}

func TestClassifyCardsThreshold(t *testing.T) {
	eye := newFakeEye()
	c, p := newTestClassifier(eye)

	// 超过通用阈值但未超过卡色阈值
	eye.byROI[matchKey{p.Templates.Arts, p.CardRegions[0]}] = 0.85
	// Arts 与 Quick 都超过阈值时按 Arts 处理
	eye.byROI[matchKey{p.Templates.Arts, p.CardRegions[1]}] = 0.92
	eye.byROI[matchKey{p.Templates.Quick, p.CardRegions[1]}] = 0.99
	eye.byROI[matchKey{p.Templates.Buster, p.CardRegions[4]}] = 0.95

	got := c.ClassifyCards(nil)
	want := [5]Card{CardUnknown, CardArts, CardUnknown, CardUnknown, CardBuster}
	if got != want {
		t.Errorf("期望 %v, 实际 %v", want, got)
	}
}

func TestNPGauges(t *testing.T) {
	eye := newFakeEye()
	c, p := newTestClassifier(eye)

	eye.columns[p.NPStrips[0]] = brightStrip(p.NPStrips[0])
	half := brightStrip(p.NPStrips[1])
	for i := 50; i < len(half); i++ {
		half[i] = 5
	}
	eye.columns[p.NPStrips[1]] = half

	got := c.NPGauges(nil)
	if got != [3]int{100, 50, 0} {
		t.Errorf("期望 [100 50 0], 实际 %v", got)
	}
}

func TestBraveChainUsesPortraits(t *testing.T) {
	eye := newFakeEye()
	c, p := newTestClassifier(eye)

	same := map[profile.Region]bool{p.PortraitRegions[1]: true, p.PortraitRegions[2]: true, p.PortraitRegions[4]: true}
	eye.sim = func(target, tmpl profile.Region) float64 {
		if same[target] && same[tmpl] {
			return 0.97
		}
		return 0.2
	}

	slots, ok := c.BraveChain(nil)
	if !ok || len(slots) != 3 || slots[0] != 1 || slots[1] != 2 || slots[2] != 4 {
		t.Errorf("期望 [1 2 4], 实际 %v %v", slots, ok)
	}
}
