package cv

import (
	"fmt"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"
)

// Store 参考图像库，按名称读取 <Dir>/<名称>.png 的灰度图
//
// 读取过的图像会缓存，Load 每次返回缓存的副本，调用方负责 Close。
type Store struct {
	Dir string

	mu    sync.Mutex
	cache map[string]gocv.Mat
}

// NewStore 创建参考图像库
func NewStore(dir string) *Store {
	return &Store{
		Dir:   dir,
		cache: make(map[string]gocv.Mat),
	}
}

// Path 返回名称对应的文件路径
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name+".png")
}

// Load 读取参考图像的灰度副本
func (s *Store) Load(name string) (gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mat, ok := s.cache[name]; ok {
		return mat.Clone(), nil
	}

	mat, err := ReadImageGray(s.Path(name))
	if err != nil {
		return mat, fmt.Errorf("加载参考图像 %s 失败: %w", name, err)
	}
	s.cache[name] = mat
	return mat.Clone(), nil
}

// Preload 预先读取一组参考图像，任何一个缺失都会返回错误
func (s *Store) Preload(names ...string) error {
	for _, name := range names {
		mat, err := s.Load(name)
		if err != nil {
			return err
		}
		mat.Close()
	}
	return nil
}

// Close 释放缓存的图像
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, mat := range s.cache {
		mat.Close()
		delete(s.cache, name)
	}
}

// String 返回字符串表示
func (s *Store) String() string {
	return fmt.Sprintf("Store(%s)", s.Dir)
}
