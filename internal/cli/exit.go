package cli

import (
	"errors"

	"github.com/liangyou/protoncall/internal/config"
	"github.com/liangyou/protoncall/internal/proton"
	"github.com/liangyou/protoncall/internal/version"
)

// 进程退出码，数值保持稳定。
const (
	ExitOK           = 0 // 子进程返回 0
	ExitInternal     = 1 // 内部、用法或 I/O 错误
	ExitConfig       = 2 // 配置文件缺失或无效
	ExitNotInstalled = 3 // 请求的 Proton 或运行时未安装
	ExitProton       = 4 // 子进程非零退出或被信号终止
)

// ExitCode 将错误归类为退出码。
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *proton.ExitError
	switch {
	case errors.As(err, &exitErr):
		return ExitProton
	case errors.Is(err, version.ErrNotInstalled):
		return ExitNotInstalled
	case errors.Is(err, config.ErrConfig):
		return ExitConfig
	default:
		return ExitInternal
	}
}
