package vision

import (
	"math"
	"testing"
)

// strip 构造一条宽 width 的 NP 槽：前 skip 列为暗边，[skip, k) 明亮，k 之后变暗
func strip(width, skip, k int) []float64 {
	means := make([]float64, width)
	for i := range means {
		switch {
		case i < skip:
			means[i] = 5
		case i < k:
			means[i] = 180
		default:
			means[i] = 8
		}
	}
	return means
}

func TestNPGaugeCrossing(t *testing.T) {
	for _, width := range []int{100, 120, 64} {
		prev := -1
		for k := 10; k < width; k++ {
			got := NPGauge(strip(width, 10, k), 10, 20)
			want := int(math.Round(100 * float64(k) / float64(width)))
			if got != want {
				t.Errorf("width=%d k=%d: 期望 %d, 实际 %d", width, k, want, got)
			}
			if got < prev {
				t.Errorf("width=%d: NP 值应随 k 单调不减, k=%d 时 %d < %d", width, k, got, prev)
			}
			prev = got
		}
	}
}

func TestNPGaugeFull(t *testing.T) {
	if got := NPGauge(strip(100, 10, 100), 10, 20); got != 100 {
		t.Errorf("一直明亮的槽应为 100, 实际 %d", got)
	}
}

func TestNPGaugeSkipsDarkEdge(t *testing.T) {
	// 前 10 列的暗边不应被当作空槽
	means := strip(100, 10, 55)
	if got := NPGauge(means, 10, 20); got != 55 {
		t.Errorf("期望 55, 实际 %d", got)
	}
	if got := NPGauge(means, 0, 20); got != 0 {
		t.Errorf("不跳过暗边时应为 0, 实际 %d", got)
	}
	if got := NPGauge(nil, 10, 20); got != 0 {
		t.Errorf("空槽数据应为 0, 实际 %d", got)
	}
}

func TestIconVisible(t *testing.T) {
	tests := []struct {
		name string
		rows []float64
		want bool
	}{
		{"最亮行超过阈值", []float64{120, 230, 90}, true},
		{"等于阈值不算", []float64{200, 200}, false},
		{"整体偏暗", []float64{60, 80, 70}, false},
		{"无数据", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IconVisible(tt.rows, 200); got != tt.want {
				t.Errorf("IconVisible(%v) = %v, want %v", tt.rows, got, tt.want)
			}
		})
	}
}
