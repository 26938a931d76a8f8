package game

// braveCombinations 5 张卡取 3 张的全部组合，按字典序排列
var braveCombinations = [10][3]int{
	{0, 1, 2}, {0, 1, 3}, {0, 1, 4}, {0, 2, 3}, {0, 2, 4},
	{0, 3, 4}, {1, 2, 3}, {1, 2, 4}, {1, 3, 4}, {2, 3, 4},
}

// SimilarityFunc 返回头像 a 与头像 b 的相似度，a < b
type SimilarityFunc func(a, b int) float64

// BraveScan 完整扫描时每个组合的回调，scores 依次为 (c0,c1) (c0,c2) (c1,c2)
type BraveScan func(combo [3]int, scores [3]float64, ok bool)

// FindBraveChain 查找三张头像两两相似的组合
//
// 组合按字典序检查，返回第一个三组相似度都超过阈值的组合，而不是得分最高的。
// scan 不为 nil 时会检查全部组合并逐一回调，返回值不变。
func FindBraveChain(sim SimilarityFunc, threshold float64, scan BraveScan) ([]int, bool) {
	var first []int
	for _, combo := range braveCombinations {
		pairs := [3][2]int{{combo[0], combo[1]}, {combo[0], combo[2]}, {combo[1], combo[2]}}

		var scores [3]float64
		ok := true
		for i, p := range pairs {
			scores[i] = sim(p[0], p[1])
			if scores[i] <= threshold {
				ok = false
				if scan == nil {
					break
				}
			}
		}

		if scan != nil {
			scan(combo, scores, ok)
		}
		if ok && first == nil {
			first = []int{combo[0], combo[1], combo[2]}
			if scan == nil {
				return first, true
			}
		}
	}
	return first, first != nil
}
