package game

import (
	"fmt"
	"math/rand"
	"sort"
)

// Strategy 出卡策略
type Strategy int

const (
	StrategyNoblePhantasm Strategy = iota
	StrategyTypeChain
	StrategyBraveChain
	StrategyRandom
)

func (s Strategy) String() string {
	switch s {
	case StrategyNoblePhantasm:
		return "NoblePhantasm"
	case StrategyTypeChain:
		return "TypeChain"
	case StrategyBraveChain:
		return "BraveChain"
	case StrategyRandom:
		return "Random"
	default:
		return "Strategy(?)"
	}
}

// Selection 一次出卡的决定，先点宝具再点普通卡
type Selection struct {
	Strategy Strategy
	// Chain 同色链的种类，仅 StrategyTypeChain 有效
	Chain Card
	// NP 要释放的宝具位置
	NP []int
	// Cards 要点击的普通卡位置（升序）
	Cards []int
}

func (s Selection) String() string {
	switch s.Strategy {
	case StrategyNoblePhantasm:
		return fmt.Sprintf("宝具 %v + 普通卡 %v", s.NP, s.Cards)
	case StrategyTypeChain:
		return fmt.Sprintf("%s 链 %v", s.Chain, s.Cards)
	case StrategyBraveChain:
		return fmt.Sprintf("Brave 链 %v", s.Cards)
	default:
		return fmt.Sprintf("随机 %v", s.Cards)
	}
}

// SelectCards 按优先级决定出卡
//
//  1. 任一 NP >= 100：释放所有满 NP 的宝具，再依次点全部 5 张普通卡
//  2. 同色链
//  3. Brave 链，brave 只在前两条都不成立时才调用
//  4. 随机 3 张，按位置升序点击
func SelectCards(gauges [3]int, cards [5]Card, brave func() ([]int, bool), rng *rand.Rand) Selection {
	var np []int
	for i, g := range gauges {
		if g >= 100 {
			np = append(np, i)
		}
	}
	if len(np) > 0 {
		return Selection{Strategy: StrategyNoblePhantasm, NP: np, Cards: []int{0, 1, 2, 3, 4}}
	}

	if kind, slots, ok := FindTypeChain(cards); ok {
		return Selection{Strategy: StrategyTypeChain, Chain: kind, Cards: slots}
	}

	if brave != nil {
		if slots, ok := brave(); ok {
			return Selection{Strategy: StrategyBraveChain, Cards: slots}
		}
	}

	picked := rng.Perm(len(cards))[:3]
	sort.Ints(picked)
	return Selection{Strategy: StrategyRandom, Cards: picked}
}
