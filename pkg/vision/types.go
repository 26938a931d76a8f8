// Package vision 在 cv 之上提供按帧的识别能力
//
// 主要功能:
//   - Frame: 一次采集的不可变画面及其灰度视图
//   - Matcher: 按模板名在可选区域内做模板匹配，返回中心点与置信度
//   - 区域读取: NP 槽百分比、技能图标是否存在
//
// 基本用法:
//
//	matcher := vision.NewMatcher(cv.NewStore("./pict"), log)
//	m, err := matcher.Match(frame, "attack", &p.AttackROI)
//	if err == nil && m.Found(0.8) {
//	    fmt.Printf("找到位置: (%d, %d)\n", m.Point.X, m.Point.Y)
//	}
package vision

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/zoeyai/fgoworker/pkg/profile"
	"github.com/zoeyai/fgoworker/pkg/vision/cv"
)

// Match 一次模板匹配的结果
//
// 是否"找到"由调用方按阈值判断，置信度低本身不是错误。
type Match struct {
	// Point 匹配区域中心点（帧坐标）
	Point profile.Point `json:"point"`
	// Confidence 最大相关系数
	Confidence float64 `json:"confidence"`
}

// Found 置信度是否超过阈值
func (m Match) Found(threshold float64) bool {
	return m.Confidence > threshold
}

// Frame 一次采集的画面
//
// 创建后不再修改；裁剪、灰度等操作都生成新的 Mat。
type Frame struct {
	color      gocv.Mat
	gray       gocv.Mat
	capturedAt time.Time
}

// NewFrame 接管 color 的所有权并生成灰度视图
func NewFrame(color gocv.Mat) *Frame {
	return &Frame{
		color:      color,
		gray:       cv.ToGray(color),
		capturedAt: time.Now(),
	}
}

// Color 彩色画面，调用方不得修改或关闭
func (f *Frame) Color() gocv.Mat { return f.color }

// Gray 灰度画面，调用方不得修改或关闭
func (f *Frame) Gray() gocv.Mat { return f.gray }

// Size 画面宽高
func (f *Frame) Size() (int, int) { return f.color.Cols(), f.color.Rows() }

// CapturedAt 采集时间
func (f *Frame) CapturedAt() time.Time { return f.capturedAt }

// Clone 深拷贝
func (f *Frame) Clone() *Frame {
	return &Frame{
		color:      f.color.Clone(),
		gray:       f.gray.Clone(),
		capturedAt: f.capturedAt,
	}
}

// Close 释放资源，nil 安全
func (f *Frame) Close() {
	if f == nil {
		return
	}
	f.color.Close()
	f.gray.Close()
}
