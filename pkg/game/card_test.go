package game

import (
	"reflect"
	"testing"
)

// allCardArrays 枚举 5 个卡位的全部 4^5 种组合
func allCardArrays() [][5]Card {
	var out [][5]Card
	for n := 0; n < 1024; n++ {
		var cards [5]Card
		v := n
		for i := range cards {
			cards[i] = Card(v % 4)
			v /= 4
		}
		out = append(out, cards)
	}
	return out
}

func TestFindTypeChainTooManyUnknown(t *testing.T) {
	checked := 0
	for _, cards := range allCardArrays() {
		if CountUnknown(cards) < 3 {
			continue
		}
		checked++
		if kind, slots, ok := FindTypeChain(cards); ok {
			t.Fatalf("%v 有 %d 张未识别卡, 不应成链, 实际 %v %v", cards, CountUnknown(cards), kind, slots)
		}
	}
	if checked == 0 {
		t.Fatal("没有检查任何组合")
	}
}

func TestFindTypeChain(t *testing.T) {
	tests := []struct {
		name  string
		cards [5]Card
		kind  Card
		slots []int
		ok    bool
	}{
		{"Arts 优先", [5]Card{CardArts, CardArts, CardArts, CardQuick, CardQuick}, CardArts, []int{0, 1, 2}, true},
		{"分散的 Buster", [5]Card{CardBuster, CardArts, CardBuster, CardUnknown, CardBuster}, CardBuster, []int{0, 2, 4}, true},
		{"四张 Quick", [5]Card{CardQuick, CardQuick, CardArts, CardQuick, CardQuick}, CardQuick, []int{0, 1, 3, 4}, true},
		{"只有两张同色", [5]Card{CardArts, CardArts, CardQuick, CardBuster, CardUnknown}, CardUnknown, nil, false},
		{"两张未识别仍可成链", [5]Card{CardUnknown, CardBuster, CardUnknown, CardBuster, CardBuster}, CardBuster, []int{1, 3, 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, slots, ok := FindTypeChain(tt.cards)
			if ok != tt.ok || kind != tt.kind || !reflect.DeepEqual(slots, tt.slots) {
				t.Errorf("FindTypeChain(%v) = %v %v %v, want %v %v %v",
					tt.cards, kind, slots, ok, tt.kind, tt.slots, tt.ok)
			}
		})
	}
}

func TestEnumStrings(t *testing.T) {
	if CardBuster.String() != "Buster" || CardUnknown.String() != "Unknown" {
		t.Errorf("Card 名称错误: %s %s", CardBuster, CardUnknown)
	}
	if PhaseUseApple.String() != "UseApple" || PhaseOther.String() != "Other" {
		t.Errorf("Phase 名称错误: %s %s", PhaseUseApple, PhaseOther)
	}
	if Phase(99).String() != "Phase(?)" {
		t.Errorf("越界的 Phase 应有占位名称")
	}
}
