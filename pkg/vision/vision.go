package vision

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/zoeyai/fgoworker/internal/logger"
	"github.com/zoeyai/fgoworker/pkg/profile"
	"github.com/zoeyai/fgoworker/pkg/vision/cv"
)

// Matcher 基于参考图像库的模板匹配器
type Matcher struct {
	store *cv.Store
	log   *logger.Logger
	debug bool
}

// NewMatcher 创建匹配器
func NewMatcher(store *cv.Store, log *logger.Logger, opts ...Option) *Matcher {
	m := &Matcher{
		store: store,
		log:   log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match 在帧的 roi 区域内（nil 表示整帧）匹配名为 name 的参考图像
func (m *Matcher) Match(f *Frame, name string, roi *profile.Region) (Match, error) {
	tmpl, err := m.store.Load(name)
	if err != nil {
		return Match{}, err
	}
	defer tmpl.Close()

	var rect image.Rectangle
	if roi != nil {
		rect = roi.Rect()
	}

	result, err := cv.NewTemplateMatching(tmpl, f.Gray(), 0).Best(rect)
	if err != nil {
		return Match{}, fmt.Errorf("匹配 %s 失败: %w", name, err)
	}

	match := Match{
		Point:      profile.Point{X: result.Result.X, Y: result.Result.Y},
		Confidence: result.Confidence,
	}
	if m.debug {
		m.log.Debug("image_name: %-16s max_val: %.3f  max_loc: (%d, %d)",
			name, result.Confidence, result.Rectangle.TopLeft.X, result.Rectangle.TopLeft.Y)
	}
	return match, nil
}

// Similarity 比较帧内两个区域，tmpl 取中心 ratio 比例后在 target 中搜索
func (m *Matcher) Similarity(f *Frame, target, tmpl profile.Region, ratio float64) (float64, error) {
	return cv.RegionSimilarity(f.Gray(), target.Rect(), tmpl.Rect(), ratio)
}

// ColumnMeans 区域内每一列的平均亮度
func (m *Matcher) ColumnMeans(f *Frame, r profile.Region) ([]float64, error) {
	return cv.ColumnMeans(f.Gray(), r.Rect())
}

// RowMeans 区域内每一行的平均亮度
func (m *Matcher) RowMeans(f *Frame, r profile.Region) ([]float64, error) {
	return cv.RowMeans(f.Gray(), r.Rect())
}

// Snapshot 把彩色画面保存到 dir/<时间戳>.png，返回文件路径
func (m *Matcher) Snapshot(f *Frame, dir string) (string, error) {
	path := filepath.Join(dir, f.CapturedAt().Format("20060102_150405")+".png")
	if err := cv.WriteImage(path, f.Color()); err != nil {
		return "", err
	}
	m.log.Info("画面已保存: %s", path)
	return path, nil
}

