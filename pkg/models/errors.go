package models

import "errors"

// ErrUsage 标记用户输入错误，在任何扫描或启动之前返回。
var ErrUsage = errors.New("usage error")
