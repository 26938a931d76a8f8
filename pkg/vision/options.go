package vision

// Option Matcher 配置选项
type Option func(*Matcher)

// WithDebug 输出每次匹配的名称、置信度和位置
func WithDebug(debug bool) Option {
	return func(m *Matcher) {
		m.debug = debug
	}
}
