// Package capture 从镜像画面源持续采集，只保留最新一帧
package capture

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"gocv.io/x/gocv"

	"github.com/zoeyai/fgoworker/pkg/vision/cv"
)

// Source 画面源，Read 返回的 Mat 由调用方关闭
type Source interface {
	Read() (gocv.Mat, bool)
	Close() error
}

// VideoSource 基于 OpenCV VideoCapture 的画面源
type VideoSource struct {
	vc *gocv.VideoCapture
}

// OpenVideo 打开 GStreamer 管线，pipeline 为空时打开编号为 index 的采集设备
//
// 管线示例: ximagesrc xname=rpiplay ! videoconvert ! appsink
func OpenVideo(pipeline string, index int) (*VideoSource, error) {
	var (
		vc  *gocv.VideoCapture
		err error
	)
	if pipeline != "" {
		vc, err = gocv.OpenVideoCaptureWithAPI(pipeline, gocv.VideoCaptureGstreamer)
	} else {
		vc, err = gocv.OpenVideoCapture(index)
	}
	if err != nil {
		return nil, fmt.Errorf("无法打开画面源: %w", err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("画面源未就绪")
	}
	return &VideoSource{vc: vc}, nil
}

// Read 读取一帧
func (v *VideoSource) Read() (gocv.Mat, bool) {
	mat := gocv.NewMat()
	if ok := v.vc.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return gocv.Mat{}, false
	}
	return mat, true
}

// Close 释放采集设备
func (v *VideoSource) Close() error {
	return v.vc.Close()
}

// ScreenSource 截取本机屏幕的一块区域
type ScreenSource struct {
	rect image.Rectangle
}

// NewScreen 创建屏幕画面源，rect 为空时截取全屏
func NewScreen(rect image.Rectangle) *ScreenSource {
	return &ScreenSource{rect: rect}
}

// Read 截屏并转换为 BGR
func (s *ScreenSource) Read() (gocv.Mat, bool) {
	var args []int
	if !s.rect.Empty() {
		args = []int{s.rect.Min.X, s.rect.Min.Y, s.rect.Dx(), s.rect.Dy()}
	}
	img, err := robotgo.CaptureImg(args...)
	if err != nil {
		return gocv.Mat{}, false
	}
	mat, err := cv.ImageToMat(img)
	if err != nil {
		return gocv.Mat{}, false
	}
	return mat, true
}

// Close 无需释放资源
func (s *ScreenSource) Close() error { return nil }
