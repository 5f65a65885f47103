package dxf

import "log/slog"

type options struct {
	logger *slog.Logger
	digits int
}

// Option 配置读写行为
type Option func(*options)

// WithLogger 设置日志，导入警告以 Debug 级别输出；默认不输出
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPrecision 写出浮点数时只保留 digits 位有效数字；默认(0)输出可精确还原的最短表示
func WithPrecision(digits int) Option {
	return func(o *options) {
		o.digits = digits
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
