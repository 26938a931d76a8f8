package game

import (
	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/profile"
	"github.com/zoeyai/fgoworker/pkg/vision"
)

// Eye 识别画面所需的能力，*vision.Matcher 实现了该接口
type Eye interface {
	Match(f *vision.Frame, name string, roi *profile.Region) (vision.Match, error)
	Similarity(f *vision.Frame, target, tmpl profile.Region, ratio float64) (float64, error)
	ColumnMeans(f *vision.Frame, r profile.Region) ([]float64, error)
	RowMeans(f *vision.Frame, r profile.Region) ([]float64, error)
	Snapshot(f *vision.Frame, dir string) (string, error)
}

// Classifier 把一帧画面解读为卡色、NP、技能状态和当前阶段
//
// 识别出错（模板缺失、区域越界）只记录日志并按"未找到"处理。
type Classifier struct {
	eye   Eye
	prof  *profile.Profile
	log   *logger.Logger
	debug bool
}

// NewClassifier 创建分类器，debug 为 true 时 Brave 链会完整扫描并输出每个组合的得分
func NewClassifier(eye Eye, prof *profile.Profile, log *logger.Logger, debug bool) *Classifier {
	return &Classifier{eye: eye, prof: prof, log: log, debug: debug}
}

// Profile 使用中的布局
func (c *Classifier) Profile() *profile.Profile { return c.prof }

// Find 在 roi 内查找模板，置信度超过通用阈值时返回其中心点
func (c *Classifier) Find(f *vision.Frame, name string, roi *profile.Region) (profile.Point, bool) {
	return c.find(f, name, roi, c.prof.Thresholds.Match)
}

func (c *Classifier) find(f *vision.Frame, name string, roi *profile.Region, threshold float64) (profile.Point, bool) {
	m, err := c.eye.Match(f, name, roi)
	if err != nil {
		c.log.Warn("匹配 %s 出错, 按未找到处理: %v", name, err)
		return profile.Point{}, false
	}
	return m.Point, m.Found(threshold)
}

func (c *Classifier) cardTemplate(kind Card) string {
	switch kind {
	case CardArts:
		return c.prof.Templates.Arts
	case CardQuick:
		return c.prof.Templates.Quick
	case CardBuster:
		return c.prof.Templates.Buster
	}
	return ""
}

// ClassifyCards 识别 5 张指令卡的种类
func (c *Classifier) ClassifyCards(f *vision.Frame) [5]Card {
	var cards [5]Card
	for i := range cards {
		for _, kind := range chainPriority {
			if _, ok := c.find(f, c.cardTemplate(kind), &c.prof.CardRegions[i], c.prof.Thresholds.Card); ok {
				cards[i] = kind
				break
			}
		}
	}
	if c.debug {
		c.log.Debug("卡色: %v 未识别: %d", cards, CountUnknown(cards))
	}
	return cards
}

// NPGauges 读取 3 个从者的 NP 百分比
func (c *Classifier) NPGauges(f *vision.Frame) [3]int {
	var gauges [3]int
	t := c.prof.Thresholds
	for i, strip := range c.prof.NPStrips {
		means, err := c.eye.ColumnMeans(f, strip)
		if err != nil {
			c.log.Warn("读取 NP 槽 %d 失败: %v", i, err)
			continue
		}
		gauges[i] = vision.NPGauge(means, t.NPSkip, t.NPDark)
	}
	return gauges
}

// SkillAvailable 第 servant 个从者的第 skill 个技能是否可用：图标可见且没有冷却标记
func (c *Classifier) SkillAvailable(f *vision.Frame, servant, skill int) bool {
	rows, err := c.eye.RowMeans(f, c.prof.SkillTopFrames[servant][skill])
	if err != nil {
		c.log.Warn("读取技能 %d-%d 失败: %v", servant+1, skill+1, err)
		return false
	}
	if !vision.IconVisible(rows, c.prof.Thresholds.SkillIcon) {
		return false
	}
	_, cooling := c.Find(f, c.prof.Templates.SkillCooldown, &c.prof.SkillCooldowns[servant][skill])
	return !cooling
}

// BraveChain 查找头像两两相似的三张卡
func (c *Classifier) BraveChain(f *vision.Frame) ([]int, bool) {
	t := c.prof.Thresholds
	sim := func(a, b int) float64 {
		v, err := c.eye.Similarity(f, c.prof.PortraitRegions[a], c.prof.PortraitRegions[b], t.PortraitCrop)
		if err != nil {
			c.log.Warn("比较头像 %d-%d 失败: %v", a, b, err)
			return 0
		}
		return v
	}

	var scan BraveScan
	if c.debug {
		scan = func(combo [3]int, scores [3]float64, ok bool) {
			c.log.Debug("brave %v scores=[%.3f %.3f %.3f] %v", combo, scores[0], scores[1], scores[2], ok)
		}
	}
	return FindBraveChain(sim, t.Brave, scan)
}

// Phase 按固定优先级判断当前画面：
// 指令卡 > Attack 按钮 > 结算 > 连续出击 > 助战选择 > 苹果
func (c *Classifier) Phase(f *vision.Frame) Phase {
	p := c.prof
	if CountUnknown(c.ClassifyCards(f)) < 3 {
		return PhaseCardSelect
	}
	if _, ok := c.Find(f, p.Templates.Attack, &p.AttackROI); ok {
		return PhaseSkillSelect
	}
	if _, ok := c.Find(f, p.Templates.Result, &p.ResultROI); ok {
		return PhaseResult
	}
	if _, ok := c.Find(f, p.Templates.Continue, &p.ContinueROI); ok {
		return PhaseEndProcess
	}
	if _, ok := c.Find(f, p.Templates.Support, &p.SupportROI); ok {
		return PhaseSupporterSelect
	}
	if _, ok := c.AppleBanner(f); ok {
		return PhaseUseApple
	}
	return PhaseOther
}

// AppleBanner 查找两种体力不足提示中的任意一种
func (c *Classifier) AppleBanner(f *vision.Frame) (profile.Point, bool) {
	for _, name := range c.prof.Templates.AppleBanners {
		if name == "" {
			continue
		}
		if pt, ok := c.Find(f, name, &c.prof.AppleROI); ok {
			return pt, true
		}
	}
	return profile.Point{}, false
}

// Snapshot 保存画面用于排查
func (c *Classifier) Snapshot(f *vision.Frame, dir string) (string, error) {
	return c.eye.Snapshot(f, dir)
}
