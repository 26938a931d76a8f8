package vision

import "math"

// NPGauge 由 NP 槽各列平均亮度计算 NP 百分比
//
// 从 skip 列开始向右扫描（左端有暗边），第一个亮度 <= dark 的列 k 给出
// round(100*k/宽度)；一直没有变暗则为 100。
func NPGauge(columnMeans []float64, skip int, dark float64) int {
	width := len(columnMeans)
	if width == 0 {
		return 0
	}
	if skip < 0 {
		skip = 0
	}
	for k := skip; k < width; k++ {
		if columnMeans[k] <= dark {
			return int(math.Round(100 * float64(k) / float64(width)))
		}
	}
	return 100
}

// IconVisible 技能图标上沿是否可见：各行平均亮度的最大值超过阈值
func IconVisible(rowMeans []float64, threshold float64) bool {
	if len(rowMeans) == 0 {
		return false
	}
	brightest := rowMeans[0]
	for _, v := range rowMeans[1:] {
		if v > brightest {
			brightest = v
		}
	}
	return brightest > threshold
}
