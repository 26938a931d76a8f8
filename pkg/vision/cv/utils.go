package cv

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// ReadImageGray 读取灰度图像
func ReadImageGray(filename string) (gocv.Mat, error) {
	mat := gocv.IMRead(filename, gocv.IMReadGrayScale)
	if mat.Empty() {
		return mat, fmt.Errorf("无法读取图像: %s", filename)
	}
	return mat, nil
}

// WriteImage 保存图像文件
func WriteImage(filename string, img gocv.Mat) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	if ok := gocv.IMWrite(filename, img); !ok {
		return fmt.Errorf("保存图像失败: %s", filename)
	}
	return nil
}

// ToGray 转换为灰度图，单通道图像返回副本
func ToGray(src gocv.Mat) gocv.Mat {
	if src.Channels() == 1 {
		return src.Clone()
	}
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return dst
}

// CropImage 裁剪图像，超出边界的部分被截掉
func CropImage(img gocv.Mat, rect image.Rectangle) gocv.Mat {
	rect = rect.Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))
	region := img.Region(rect)
	defer region.Close()
	return region.Clone()
}

// CenterCrop 取图像中心 ratio 比例的区域（宽高各自按比例）
//
// 起止坐标按 int(size*(1-ratio)/2) 与 int(size*(1+ratio)/2) 截断。
func CenterCrop(img gocv.Mat, ratio float64) gocv.Mat {
	w, h := img.Cols(), img.Rows()
	lo, hi := (1-ratio)/2, (1+ratio)/2
	rect := image.Rect(
		int(float64(w)*lo), int(float64(h)*lo),
		int(float64(w)*hi), int(float64(h)*hi),
	)
	return CropImage(img, rect)
}

// ResizeImage 调整图像大小
func ResizeImage(img gocv.Mat, width, height int) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Resize(img, &dst, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationLinear)
	return dst
}

// ImageToMat 将 image.Image 转换为 BGR 格式的 gocv.Mat
func ImageToMat(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("图像转换失败: %w", err)
	}
	dst := gocv.NewMat()
	gocv.CvtColor(mat, &dst, gocv.ColorRGBToBGR)
	mat.Close()
	return dst, nil
}
