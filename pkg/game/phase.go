package game

// Phase 当前所处的游戏画面
type Phase int

const (
	PhaseOther Phase = iota
	PhaseSupporterSelect
	PhaseSkillSelect
	PhaseCardSelect
	PhaseResult
	PhaseEndProcess
	PhaseUseApple
)

func (p Phase) String() string {
	switch p {
	case PhaseOther:
		return "Other"
	case PhaseSupporterSelect:
		return "SupporterSelect"
	case PhaseSkillSelect:
		return "SkillSelect"
	case PhaseCardSelect:
		return "CardSelect"
	case PhaseResult:
		return "Result"
	case PhaseEndProcess:
		return "EndProcess"
	case PhaseUseApple:
		return "UseApple"
	default:
		return "Phase(?)"
	}
}
