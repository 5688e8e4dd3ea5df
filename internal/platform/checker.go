package platform

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/liangyou/protoncall/pkg/models"
)

// Checker 校验当前系统与目录是否满足启动 Proton 的要求。
type Checker struct {
	goos   func() string
	access func(path string, mode uint32) error
}

// NewChecker 创建平台检测器。
func NewChecker() *Checker {
	return &Checker{
		goos:   func() string { return runtime.GOOS },
		access: unix.Access,
	}
}

// ValidateHost 仅允许 Linux。
func (c *Checker) ValidateHost() error {
	if c.goos() != "linux" {
		return fmt.Errorf("%w: platform: unsupported operating system %s", models.ErrUsage, c.goos())
	}
	return nil
}

// EnsureDataDir 确保数据目录存在或可创建。
func (c *Checker) EnsureDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("platform: cannot create data directory %s: %w", dir, err)
	}
	return nil
}

// ValidateExecutable 确认入口文件存在、不是目录且可执行。
func (c *Checker) ValidateExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("platform: entry point missing: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("platform: entry point is a directory: %s", path)
	}
	if err := c.access(path, unix.X_OK); err != nil {
		return fmt.Errorf("platform: entry point %s not executable: %w", path, err)
	}
	return nil
}
