// Package profile 定义按分辨率划分的画面布局：识别区域、点击坐标、阈值和模板名。
//
// 所有坐标都以工作分辨率下的帧坐标表示，采集到的画面会先缩放到该分辨率再处理。
package profile

import (
	"fmt"
	"image"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Point 二维坐标
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Region 轴对齐矩形区域，Bottom 为开区间
type Region struct {
	TopX    int `yaml:"top_x" json:"top_x"`
	TopY    int `yaml:"top_y" json:"top_y"`
	BottomX int `yaml:"bottom_x" json:"bottom_x"`
	BottomY int `yaml:"bottom_y" json:"bottom_y"`
}

// R 简写构造 Region
func R(topX, topY, bottomX, bottomY int) Region {
	return Region{TopX: topX, TopY: topY, BottomX: bottomX, BottomY: bottomY}
}

// Width 区域宽度
func (r Region) Width() int { return r.BottomX - r.TopX }

// Height 区域高度
func (r Region) Height() int { return r.BottomY - r.TopY }

// Empty 区域是否为空
func (r Region) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Center 区域中心点
func (r Region) Center() Point {
	return Point{X: r.TopX + r.Width()/2, Y: r.TopY + r.Height()/2}
}

// Rect 转换为 image.Rectangle
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.TopX, r.TopY, r.BottomX, r.BottomY)
}

// Thresholds 各识别器使用的阈值
type Thresholds struct {
	// Match 通用模板匹配的置信度阈值
	Match float64 `yaml:"match"`
	// Card 指令卡种类匹配阈值
	Card float64 `yaml:"card"`
	// Brave 角色头像相似度阈值
	Brave float64 `yaml:"brave"`
	// NPDark NP 槽列平均亮度低于等于该值视为空槽
	NPDark float64 `yaml:"np_dark"`
	// NPSkip NP 槽左端需要跳过的暗边像素数
	NPSkip int `yaml:"np_skip"`
	// SkillIcon 技能图标上沿行平均亮度的最大值超过该值视为图标存在
	SkillIcon float64 `yaml:"skill_icon"`
	// PortraitCrop 头像比较时模板取中心区域的比例
	PortraitCrop float64 `yaml:"portrait_crop"`
}

// Templates 参考图像的名称，对应 <模板目录>/<名称>.png
type Templates struct {
	Attack        string    `yaml:"attack"`
	Result        string    `yaml:"result"`
	Continue      string    `yaml:"continue"`
	Support       string    `yaml:"support"`
	AppleBanners  [2]string `yaml:"apple_banners"`
	GoldApple     string    `yaml:"gold_apple"`
	SilverApple   string    `yaml:"silver_apple"`
	AppleConfirm  string    `yaml:"apple_confirm"`
	CloseDialog   string    `yaml:"close_dialog"`
	SkillCooldown string    `yaml:"skill_cooldown"`
	SkillTarget   string    `yaml:"skill_target"`
	Arts          string    `yaml:"arts"`
	Quick         string    `yaml:"quick"`
	Buster        string    `yaml:"buster"`
	OpenBox       string    `yaml:"open_box"`
	ResetBox      string    `yaml:"reset_box"`
	ExecuteReset  string    `yaml:"execute_reset"`
	CloseBox      string    `yaml:"close_box"`
}

// Profile 某一工作分辨率下的完整画面布局
type Profile struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	Thresholds Thresholds `yaml:"thresholds"`
	Templates  Templates  `yaml:"templates"`

	// 指令卡
	CardRegions     [5]Region `yaml:"card_regions"`
	PortraitRegions [5]Region `yaml:"portrait_regions"`
	CardTaps        [5]Point  `yaml:"card_taps"`

	// 宝具
	NPStrips [3]Region `yaml:"np_strips"`
	NPTaps   [3]Point  `yaml:"np_taps"`

	// 技能，按 [从者][技能] 排列
	SkillIcons     [3][3]Region `yaml:"skill_icons"`
	SkillTopFrames [3][3]Region `yaml:"skill_top_frames"`
	SkillCooldowns [3][3]Region `yaml:"skill_cooldowns"`
	SkillTargetROI Region       `yaml:"skill_target_roi"`
	SkillTargetTap Point        `yaml:"skill_target_tap"`

	// 阶段识别
	AttackROI       Region `yaml:"attack_roi"`
	ResultROI       Region `yaml:"result_roi"`
	ContinueROI     Region `yaml:"continue_roi"`
	SupportROI      Region `yaml:"support_roi"`
	AppleROI        Region `yaml:"apple_roi"`
	AppleItemROI    Region `yaml:"apple_item_roi"`
	AppleConfirmROI Region `yaml:"apple_confirm_roi"`
	CloseDialogROI  Region `yaml:"close_dialog_roi"`

	// 固定点击位置
	SupportTap    Point `yaml:"support_tap"`
	ResultNextTap Point `yaml:"result_next_tap"`
	ResultTaps    int   `yaml:"result_taps"`
}

// Default 960x540 布局
func Default() *Profile {
	return &Profile{
		Name:   "960x540",
		Width:  960,
		Height: 540,
		Thresholds: Thresholds{
			Match:        0.80,
			Card:         0.90,
			Brave:        0.90,
			NPDark:       20,
			NPSkip:       10,
			SkillIcon:    200,
			PortraitCrop: 0.6,
		},
		Templates: Templates{
			Attack:        "attack",
			Result:        "result",
			Continue:      "continue",
			Support:       "support",
			AppleBanners:  [2]string{"apple_banner", "apple_banner_event"},
			GoldApple:     "gold_apple",
			SilverApple:   "silver_apple",
			AppleConfirm:  "apple_confirm",
			CloseDialog:   "close",
			SkillCooldown: "skill_cooldown",
			SkillTarget:   "skill_target",
			Arts:          "arts",
			Quick:         "quick",
			Buster:        "buster",
			OpenBox:       "open_box",
			ResetBox:      "reset_box",
			ExecuteReset:  "execute_reset",
			CloseBox:      "close_box",
		},
		CardRegions: [5]Region{
			R(802, 380, 933, 465),
			R(607, 380, 738, 465),
			R(414, 380, 545, 465),
			R(224, 380, 355, 465),
			R(33, 380, 165, 465),
		},
		PortraitRegions: [5]Region{
			R(802, 300, 933, 380),
			R(607, 300, 738, 380),
			R(414, 300, 545, 380),
			R(224, 300, 355, 380),
			R(33, 300, 164, 380),
		},
		CardTaps: [5]Point{{875, 380}, {680, 380}, {485, 380}, {290, 380}, {95, 380}},
		NPStrips: [3]Region{
			R(598, 508, 698, 510),
			R(359, 508, 459, 510),
			R(121, 508, 221, 510),
		},
		NPTaps: [3]Point{{653, 155}, {483, 155}, {313, 155}},
		SkillIcons: [3][3]Region{
			{R(34, 413, 77, 456), R(100, 413, 143, 456), R(166, 413, 209, 456)},
			{R(272, 413, 315, 456), R(338, 413, 381, 456), R(404, 413, 447, 456)},
			{R(510, 413, 553, 456), R(575, 413, 619, 456), R(642, 413, 685, 456)},
		},
		SkillTopFrames: [3][3]Region{
			{R(34, 409, 77, 412), R(100, 409, 143, 412), R(166, 409, 209, 412)},
			{R(272, 409, 315, 412), R(338, 409, 381, 412), R(404, 409, 447, 412)},
			{R(510, 409, 553, 412), R(575, 409, 619, 412), R(642, 409, 685, 412)},
		},
		SkillCooldowns: [3][3]Region{
			{R(27, 449, 53, 462), R(93, 449, 119, 462), R(159, 449, 185, 462)},
			{R(264, 449, 290, 462), R(330, 449, 356, 462), R(396, 449, 422, 462)},
			{R(503, 449, 528, 462), R(569, 449, 594, 462), R(635, 449, 660, 462)},
		},
		SkillTargetROI:  R(300, 60, 660, 140),
		SkillTargetTap:  Point{X: 240, Y: 330},
		AttackROI:       R(789, 391, 909, 439),
		ResultROI:       R(0, 0, 960, 270),
		ContinueROI:     R(562, 392, 700, 452),
		SupportROI:      R(696, 0, 960, 55),
		AppleROI:        R(280, 40, 680, 140),
		AppleItemROI:    R(120, 120, 840, 460),
		AppleConfirmROI: R(480, 380, 780, 480),
		CloseDialogROI:  R(300, 380, 660, 540),
		SupportTap:      Point{X: 100, Y: 200},
		ResultNextTap:   Point{X: 850, Y: 510},
		ResultTaps:      5,
	}
}

var builtin = map[string]func() *Profile{
	"960x540":   Default,
	"1280x720":  func() *Profile { return named(Default().Scale(1280, 720), "1280x720") },
	"1920x1080": func() *Profile { return named(Default().Scale(1920, 1080), "1920x1080") },
}

func named(p *Profile, name string) *Profile {
	p.Name = name
	return p
}

// Names 返回内置布局名称
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup 按名称获取内置布局
func Lookup(name string) (*Profile, error) {
	fn, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("未知的布局: %s (可选: %v)", name, Names())
	}
	return fn(), nil
}

// Load 以内置布局 base 为底，叠加 YAML 文件中出现的字段
func Load(base, path string) (*Profile, error) {
	p, err := Lookup(base)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return p, p.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取布局文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("解析布局文件失败: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("布局文件 %s 无效: %w", path, err)
	}
	return p, nil
}

// Validate 检查区域是否都落在画面内且阈值合理
func (p *Profile) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("分辨率无效: %dx%d", p.Width, p.Height)
	}
	bounds := image.Rect(0, 0, p.Width, p.Height)

	check := func(name string, r Region) error {
		if r.Empty() {
			return fmt.Errorf("%s 区域为空: %+v", name, r)
		}
		if !r.Rect().In(bounds) {
			return fmt.Errorf("%s 区域超出画面: %+v", name, r)
		}
		return nil
	}

	named := map[string]Region{
		"attack_roi":        p.AttackROI,
		"result_roi":        p.ResultROI,
		"continue_roi":      p.ContinueROI,
		"support_roi":       p.SupportROI,
		"apple_roi":         p.AppleROI,
		"apple_item_roi":    p.AppleItemROI,
		"apple_confirm_roi": p.AppleConfirmROI,
		"close_dialog_roi":  p.CloseDialogROI,
		"skill_target_roi":  p.SkillTargetROI,
	}
	for name, r := range named {
		if err := check(name, r); err != nil {
			return err
		}
	}
	for i := range p.CardRegions {
		if err := check(fmt.Sprintf("card_regions[%d]", i), p.CardRegions[i]); err != nil {
			return err
		}
		if err := check(fmt.Sprintf("portrait_regions[%d]", i), p.PortraitRegions[i]); err != nil {
			return err
		}
	}
	for i, r := range p.NPStrips {
		if err := check(fmt.Sprintf("np_strips[%d]", i), r); err != nil {
			return err
		}
		if p.Thresholds.NPSkip >= r.Width() {
			return fmt.Errorf("np_skip=%d 不小于 NP 槽宽度 %d", p.Thresholds.NPSkip, r.Width())
		}
	}
	for s := 0; s < 3; s++ {
		for k := 0; k < 3; k++ {
			for name, r := range map[string]Region{
				"skill_icons":      p.SkillIcons[s][k],
				"skill_top_frames": p.SkillTopFrames[s][k],
				"skill_cooldowns":  p.SkillCooldowns[s][k],
			} {
				if err := check(fmt.Sprintf("%s[%d][%d]", name, s, k), r); err != nil {
					return err
				}
			}
		}
	}

	t := p.Thresholds
	for name, v := range map[string]float64{"match": t.Match, "card": t.Card, "brave": t.Brave} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("阈值 %s=%v 应在 (0, 1] 内", name, v)
		}
	}
	if t.PortraitCrop <= 0 || t.PortraitCrop > 1 {
		return fmt.Errorf("portrait_crop=%v 应在 (0, 1] 内", t.PortraitCrop)
	}
	if p.ResultTaps < 1 {
		return fmt.Errorf("result_taps 至少为 1")
	}
	return nil
}

// TemplateNames 返回布局引用的全部模板名（去重后排序），用于启动时预加载
func (p *Profile) TemplateNames() []string {
	t := p.Templates
	all := []string{
		t.Attack, t.Result, t.Continue, t.Support,
		t.AppleBanners[0], t.AppleBanners[1], t.GoldApple, t.SilverApple, t.AppleConfirm,
		t.CloseDialog, t.SkillCooldown, t.SkillTarget,
		t.Arts, t.Quick, t.Buster,
	}
	return dedupe(all)
}

// BoxTemplateNames 返回抽箱模式使用的模板名
func (p *Profile) BoxTemplateNames() []string {
	t := p.Templates
	return dedupe([]string{t.OpenBox, t.ResetBox, t.ExecuteReset, t.CloseBox})
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
