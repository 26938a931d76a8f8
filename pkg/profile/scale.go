package profile

import "math"

// Scale 按比例把布局换算到另一工作分辨率
//
// 区域与点击坐标按宽高比例缩放并取整，阈值和模板名保持不变；NPSkip 按宽度比例缩放。
// 缩放后的布局通常还需要配套的模板图像，否则匹配置信度会偏低。
func (p *Profile) Scale(width, height int) *Profile {
	sx := float64(width) / float64(p.Width)
	sy := float64(height) / float64(p.Height)

	pt := func(v Point) Point {
		return Point{X: round(float64(v.X) * sx), Y: round(float64(v.Y) * sy)}
	}
	rg := func(r Region) Region {
		return Region{
			TopX:    round(float64(r.TopX) * sx),
			TopY:    round(float64(r.TopY) * sy),
			BottomX: round(float64(r.BottomX) * sx),
			BottomY: round(float64(r.BottomY) * sy),
		}
	}

	out := *p
	out.Width, out.Height = width, height
	out.Thresholds.NPSkip = round(float64(p.Thresholds.NPSkip) * sx)

	for i := range out.CardRegions {
		out.CardRegions[i] = rg(p.CardRegions[i])
		out.PortraitRegions[i] = rg(p.PortraitRegions[i])
		out.CardTaps[i] = pt(p.CardTaps[i])
	}
	for i := range out.NPStrips {
		out.NPStrips[i] = rg(p.NPStrips[i])
		out.NPTaps[i] = pt(p.NPTaps[i])
	}
	for s := 0; s < 3; s++ {
		for k := 0; k < 3; k++ {
			out.SkillIcons[s][k] = rg(p.SkillIcons[s][k])
			out.SkillTopFrames[s][k] = rg(p.SkillTopFrames[s][k])
			out.SkillCooldowns[s][k] = rg(p.SkillCooldowns[s][k])
		}
	}
	out.SkillTargetROI = rg(p.SkillTargetROI)
	out.SkillTargetTap = pt(p.SkillTargetTap)

	out.AttackROI = rg(p.AttackROI)
	out.ResultROI = rg(p.ResultROI)
	out.ContinueROI = rg(p.ContinueROI)
	out.SupportROI = rg(p.SupportROI)
	out.AppleROI = rg(p.AppleROI)
	out.AppleItemROI = rg(p.AppleItemROI)
	out.AppleConfirmROI = rg(p.AppleConfirmROI)
	out.CloseDialogROI = rg(p.CloseDialogROI)

	out.SupportTap = pt(p.SupportTap)
	out.ResultNextTap = pt(p.ResultNextTap)
	return &out
}

func round(v float64) int { return int(math.Round(v)) }
