package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// CalCcoeffConfidence 使用 TM_CCOEFF_NORMED 计算 imgSearch 在 imgSource 中的最大相关系数
func CalCcoeffConfidence(imgSource, imgSearch gocv.Mat) float64 {
	srcGray := ToGray(imgSource)
	searchGray := ToGray(imgSearch)
	defer srcGray.Close()
	defer searchGray.Close()

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(srcGray, searchGray, &result, gocv.TmCcoeffNormed, mask)

	_, maxVal, _, _ := gocv.MinMaxLoc(result)
	return float64(maxVal)
}

// RegionSimilarity 比较同一幅图像中的两个区域
//
// 以 tmpl 区域中心 ratio 比例的部分作为模板，在完整的 target 区域中搜索，返回最大相关系数。
func RegionSimilarity(img gocv.Mat, target, tmpl image.Rectangle, ratio float64) (float64, error) {
	bounds := image.Rect(0, 0, img.Cols(), img.Rows())
	if !target.In(bounds) || !tmpl.In(bounds) {
		return 0, fmt.Errorf("比较区域超出图像范围: %v, %v", target, tmpl)
	}

	targetMat := img.Region(target)
	defer targetMat.Close()
	tmplMat := img.Region(tmpl)
	defer tmplMat.Close()

	center := CenterCrop(tmplMat, ratio)
	defer center.Close()

	if err := checkSourceLargerThanSearch(targetMat, center); err != nil {
		return 0, err
	}
	return CalCcoeffConfidence(targetMat, center), nil
}
