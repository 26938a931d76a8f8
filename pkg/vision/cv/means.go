package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ColumnMeans 返回灰度图在 rect 内每一列的平均亮度
func ColumnMeans(gray gocv.Mat, rect image.Rectangle) ([]float64, error) {
	if err := checkMeanInput(gray, rect); err != nil {
		return nil, err
	}

	means := make([]float64, rect.Dx())
	for x := rect.Min.X; x < rect.Max.X; x++ {
		sum := 0
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			sum += int(gray.GetUCharAt(y, x))
		}
		means[x-rect.Min.X] = float64(sum) / float64(rect.Dy())
	}
	return means, nil
}

// RowMeans 返回灰度图在 rect 内每一行的平均亮度
func RowMeans(gray gocv.Mat, rect image.Rectangle) ([]float64, error) {
	if err := checkMeanInput(gray, rect); err != nil {
		return nil, err
	}

	means := make([]float64, rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		sum := 0
		for x := rect.Min.X; x < rect.Max.X; x++ {
			sum += int(gray.GetUCharAt(y, x))
		}
		means[y-rect.Min.Y] = float64(sum) / float64(rect.Dx())
	}
	return means, nil
}

func checkMeanInput(gray gocv.Mat, rect image.Rectangle) error {
	if gray.Channels() != 1 {
		return fmt.Errorf("需要单通道灰度图, 实际 %d 通道", gray.Channels())
	}
	if rect.Empty() {
		return fmt.Errorf("统计区域为空: %v", rect)
	}
	if !rect.In(image.Rect(0, 0, gray.Cols(), gray.Rows())) {
		return fmt.Errorf("统计区域 %v 超出图像范围 %dx%d", rect, gray.Cols(), gray.Rows())
	}
	return nil
}
