package version

import (
	"github.com/charmbracelet/log"

	"github.com/liangyou/protoncall/pkg/models"
)

// Lookup 构建索引后解析版本，未命中时由 Resolver 再重建一次。
func Lookup[K Key[K]](component string, idx *Index[K], v K, logger *log.Logger) (string, error) {
	if err := idx.Build(); err != nil {
		return "", err
	}
	return NewResolver[K](component, idx, logger).Resolve(v)
}

// RuntimeLookup 按需扫描 common 目录解析 Steam Linux Runtime。
type RuntimeLookup struct {
	Root   string
	Logger *log.Logger
}

// Resolve 实现 proton.RuntimeResolver。
func (r RuntimeLookup) Resolve(v models.RuntimeVersion) (string, error) {
	idx, err := NewRuntimeIndex(r.Root)
	if err != nil {
		return "", err
	}
	return Lookup("Runtime", idx, v, r.Logger)
}
