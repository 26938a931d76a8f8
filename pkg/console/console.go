// Package console 在无法判别画面时向操作员询问继续还是退出
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Decision 操作员的选择
type Decision int

const (
	Resume Decision = iota
	Terminate
)

func (d Decision) String() string {
	if d == Terminate {
		return "Terminate"
	}
	return "Resume"
}

// Console 从输入读取 r（继续）或 e（退出）
type Console struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan string
}

// New 创建控制台，通常传入 os.Stdin 与 os.Stdout
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out}
}

// start 后台逐行读取输入，输入结束时关闭 lines
func (c *Console) start() {
	c.lines = make(chan string)
	go func() {
		defer close(c.lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			c.lines <- strings.TrimSpace(scanner.Text())
		}
	}()
}

// Prompt 阻塞直到操作员给出有效选择
//
// 输入结束视为退出；ctx 取消时返回 ctx.Err()。
func (c *Console) Prompt(ctx context.Context) (Decision, error) {
	c.once.Do(c.start)

	for {
		fmt.Fprint(c.out, "已暂停 (r 继续, e 退出): ")
		select {
		case <-ctx.Done():
			return Terminate, ctx.Err()
		case line, ok := <-c.lines:
			if !ok {
				return Terminate, nil
			}
			switch strings.ToLower(line) {
			case "r":
				return Resume, nil
			case "e":
				return Terminate, nil
			}
			fmt.Fprintf(c.out, "无效输入: %q\n", line)
		}
	}
}
