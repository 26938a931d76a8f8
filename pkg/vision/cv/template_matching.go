package cv

import (
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"
)

// TemplateMatching 灰度模板匹配器
type TemplateMatching struct {
	imSearch  gocv.Mat
	imSource  gocv.Mat
	threshold float64
}

// NewTemplateMatching 创建模板匹配器，search 为模板，source 为被搜索图像
func NewTemplateMatching(search, source gocv.Mat, threshold float64) *TemplateMatching {
	return &TemplateMatching{
		imSearch:  search,
		imSource:  source,
		threshold: threshold,
	}
}

// FindBestResult 在整幅图像中查找最佳匹配，置信度低于阈值时返回 nil
func (t *TemplateMatching) FindBestResult() (*MatchResult, error) {
	result, err := t.Best(image.Rectangle{})
	if err != nil {
		return nil, err
	}
	if result.Confidence >= t.threshold {
		return result, nil
	}
	return nil, nil
}

// Best 在 roi 内查找最佳匹配，不做阈值判断
//
// roi 为空矩形时搜索整幅图像。返回的坐标已换算回 source 坐标系。
func (t *TemplateMatching) Best(roi image.Rectangle) (*MatchResult, error) {
	startTime := time.Now()

	src := t.imSource
	offset := image.Point{}
	if !roi.Empty() {
		bounds := image.Rect(0, 0, src.Cols(), src.Rows())
		if !roi.In(bounds) {
			return nil, fmt.Errorf("搜索区域 %v 超出图像范围 %v", roi, bounds)
		}
		region := src.Region(roi)
		defer region.Close()
		src = region
		offset = roi.Min
	}

	if err := checkSourceLargerThanSearch(src, t.imSearch); err != nil {
		return nil, err
	}

	result := t.getTemplateResultMatrix(src)
	defer result.Close()

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)

	h, w := t.imSearch.Rows(), t.imSearch.Cols()
	middlePoint, rectangle := getTargetRectangle(maxLoc.Add(offset), w, h)

	return &MatchResult{
		Result:     middlePoint,
		Rectangle:  rectangle,
		Confidence: float64(maxVal),
		Time:       float64(time.Since(startTime).Microseconds()) / 1000,
	}, nil
}

// getTemplateResultMatrix 计算模板匹配结果矩阵
func (t *TemplateMatching) getTemplateResultMatrix(src gocv.Mat) gocv.Mat {
	srcGray := ToGray(src)
	searchGray := ToGray(t.imSearch)
	defer srcGray.Close()
	defer searchGray.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	result := gocv.NewMat()
	gocv.MatchTemplate(srcGray, searchGray, &result, gocv.TmCcoeffNormed, mask)
	return result
}

// getTargetRectangle 由左上角和模板尺寸计算中心点与四个角点
func getTargetRectangle(leftTopPos image.Point, w, h int) (Point, Rectangle) {
	xMin, yMin := leftTopPos.X, leftTopPos.Y

	middlePoint := Point{X: xMin + w/2, Y: yMin + h/2}

	// 四个角点: 左上 -> 左下 -> 右下 -> 右上
	rectangle := Rectangle{
		TopLeft:     Point{X: xMin, Y: yMin},
		BottomLeft:  Point{X: xMin, Y: yMin + h},
		BottomRight: Point{X: xMin + w, Y: yMin + h},
		TopRight:    Point{X: xMin + w, Y: yMin},
	}

	return middlePoint, rectangle
}

// checkSourceLargerThanSearch 检查源图像是否大于搜索图像
func checkSourceLargerThanSearch(source, search gocv.Mat) error {
	if search.Empty() {
		return fmt.Errorf("模板图像为空")
	}
	if source.Rows() < search.Rows() || source.Cols() < search.Cols() {
		return &ImageSizeError{
			SourceSize: [2]int{source.Cols(), source.Rows()},
			SearchSize: [2]int{search.Cols(), search.Rows()},
		}
	}
	return nil
}

// ImageSizeError 图像尺寸错误
type ImageSizeError struct {
	SourceSize [2]int
	SearchSize [2]int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("搜索图像尺寸 %dx%d 大于源图像 %dx%d",
		e.SearchSize[0], e.SearchSize[1], e.SourceSize[0], e.SourceSize[1])
}
