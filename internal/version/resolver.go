package version

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// ErrNotInstalled 表示重建索引后仍未找到请求的版本。
var ErrNotInstalled = errors.New("version not installed")

// NotInstalledError 记录缺失的组件与版本。
type NotInstalledError struct {
	Component string
	Version   string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("%s %s does not exist", e.Component, e.Version)
}

// Unwrap 返回 ErrNotInstalled 以便 errors.Is 判断。
func (e *NotInstalledError) Unwrap() error { return ErrNotInstalled }

// Catalog 是 Resolver 依赖的索引能力。
type Catalog[K any] interface {
	Get(K) (string, bool)
	Build() error
}

// Resolver 先查索引，未命中时重建一次并重试一次。
type Resolver[K fmt.Stringer] struct {
	component string
	catalog   Catalog[K]
	logger    *log.Logger
}

// NewResolver 创建解析器，component 用于日志与错误信息（如 "Proton"）。
func NewResolver[K fmt.Stringer](component string, catalog Catalog[K], logger *log.Logger) *Resolver[K] {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver[K]{component: component, catalog: catalog, logger: logger}
}

// Resolve 返回版本的安装路径。
func (r *Resolver[K]) Resolve(v K) (string, error) {
	if r.catalog == nil {
		return "", errors.New("resolver: catalog is required")
	}
	if path, ok := r.catalog.Get(v); ok {
		return path, nil
	}

	r.logger.Infof("%s %s not found, reindexing", r.component, v)
	if err := r.catalog.Build(); err != nil {
		return "", err
	}
	if path, ok := r.catalog.Get(v); ok {
		return path, nil
	}
	return "", &NotInstalledError{Component: r.component, Version: v.String()}
}
