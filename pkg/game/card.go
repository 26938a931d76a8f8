package game

// Card 指令卡种类
type Card int

const (
	CardUnknown Card = iota
	CardArts
	CardQuick
	CardBuster
)

func (c Card) String() string {
	switch c {
	case CardUnknown:
		return "Unknown"
	case CardArts:
		return "Arts"
	case CardQuick:
		return "Quick"
	case CardBuster:
		return "Buster"
	default:
		return "Card(?)"
	}
}

// chainPriority 同色链的检查顺序
var chainPriority = [...]Card{CardArts, CardQuick, CardBuster}

// CountUnknown 无法识别的卡数
func CountUnknown(cards [5]Card) int {
	n := 0
	for _, c := range cards {
		if c == CardUnknown {
			n++
		}
	}
	return n
}

// FindTypeChain 查找 3 张及以上的同色卡
//
// 无法识别的卡达到 3 张时不成链；否则按 Arts、Quick、Buster 的顺序，
// 第一个出现 3 次以上的种类胜出，返回其全部位置（升序）。
func FindTypeChain(cards [5]Card) (Card, []int, bool) {
	if CountUnknown(cards) >= 3 {
		return CardUnknown, nil, false
	}
	for _, kind := range chainPriority {
		var slots []int
		for i, c := range cards {
			if c == kind {
				slots = append(slots, i)
			}
		}
		if len(slots) >= 3 {
			return kind, slots, true
		}
	}
	return CardUnknown, nil, false
}
