// Package process 检查镜像程序等外部进程是否在运行
package process

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Info 进程信息
type Info struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Find 按名称查找进程 (不区分大小写，支持部分匹配)
func Find(name string) ([]Info, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}

	name = strings.ToLower(name)
	var matches []Info

	for _, pid := range pids {
		proc, err := process.NewProcess(pid)
		if err != nil {
			continue
		}

		procName, err := proc.Name()
		if err != nil {
			continue
		}

		if strings.Contains(strings.ToLower(procName), name) {
			exe, _ := proc.Exe()
			matches = append(matches, Info{
				PID:  int(pid),
				Name: procName,
				Path: exe,
			})
		}
	}

	return matches, nil
}

// Require 确认名为 name 的进程正在运行，返回第一个匹配项
func Require(name string) (*Info, error) {
	matches, err := Find(name)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if IsRunning(matches[i].PID) {
			return &matches[i], nil
		}
	}
	return nil, fmt.Errorf("进程 %s 未运行，请先启动镜像程序", name)
}

// IsRunning 检查进程是否正在运行
func IsRunning(pid int) bool {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	running, err := proc.IsRunning()
	if err != nil {
		return false
	}
	return running
}
