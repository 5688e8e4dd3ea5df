package version

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/liangyou/protoncall/pkg/models"
)

// protonDirPrefix 是 Steam 在 steamapps/common 下安装 Proton 时使用的目录前缀。
const protonDirPrefix = "Proton "

// Key 约束可被索引的版本类型。
type Key[K any] interface {
	fmt.Stringer
	IsDefault() bool
	Compare(K) (int, bool)
}

// Entry 是一条已安装版本记录。
type Entry[K any] struct {
	Version K
	Path    string
}

// Index 扫描单个根目录，维护按版本升序排列的安装记录。
type Index[K Key[K]] struct {
	root    string
	parse   func(name string) (K, bool)
	entries []Entry[K]
}

// NewIndex 绑定根目录，不做任何 I/O。
func NewIndex[K Key[K]](root string, parse func(name string) (K, bool)) (*Index[K], error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("index: root directory is required")
	}
	if parse == nil {
		return nil, errors.New("index: name parser is required")
	}
	return &Index[K]{root: root, parse: parse}, nil
}

// NewProtonIndex 创建 Proton 版本索引，目录名可为 "6.3" 或 "Proton 6.3"。
func NewProtonIndex(root string) (*Index[models.Version], error) {
	return NewIndex(root, func(name string) (models.Version, bool) {
		return models.VersionFromDirectoryName(strings.TrimPrefix(name, protonDirPrefix))
	})
}

// NewRuntimeIndex 创建 Steam Linux Runtime 索引。
func NewRuntimeIndex(root string) (*Index[models.RuntimeVersion], error) {
	return NewIndex(root, models.RuntimeFromDirectoryName)
}

// Build 全量扫描根目录并替换现有记录。
func (x *Index[K]) Build() error {
	root, err := filepath.Abs(x.root)
	if err != nil {
		return fmt.Errorf("index: resolve root %s: %w", x.root, err)
	}
	items, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("index: read %s: %w", root, err)
	}

	entries := make([]Entry[K], 0, len(items))
	for _, item := range items {
		v, ok := x.parse(item.Name())
		if !ok {
			continue
		}
		path := filepath.Join(root, item.Name())
		if !isDir(item, path) {
			continue
		}
		entries = upsert(entries, Entry[K]{Version: v, Path: path})
	}
	slices.SortStableFunc(entries, func(a, b Entry[K]) int {
		c, _ := a.Version.Compare(b.Version)
		return c
	})
	x.entries = entries
	return nil
}

// Get 返回版本对应的安装路径；Default 取最大版本，无法比较的版本永不匹配。
func (x *Index[K]) Get(v K) (string, bool) {
	if v.IsDefault() {
		if len(x.entries) == 0 {
			return "", false
		}
		return x.entries[len(x.entries)-1].Path, true
	}
	i, found := slices.BinarySearchFunc(x.entries, v, func(e Entry[K], target K) int {
		c, _ := e.Version.Compare(target)
		return c
	})
	if !found {
		return "", false
	}
	if _, ok := x.entries[i].Version.Compare(v); !ok {
		return "", false
	}
	return x.entries[i].Path, true
}

// Entries 返回升序记录的副本。
func (x *Index[K]) Entries() []Entry[K] {
	return slices.Clone(x.entries)
}

// Len 返回记录条数。
func (x *Index[K]) Len() int { return len(x.entries) }

// String 每行输出 "版本 - 路径"，按版本升序。
func (x *Index[K]) String() string {
	var b strings.Builder
	for _, e := range x.entries {
		b.WriteString(FormatEntry(e))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatEntry 格式化单条记录。
func FormatEntry[K fmt.Stringer](e Entry[K]) string {
	return fmt.Sprintf("%s - %s", e.Version, e.Path)
}

// 版本相同时后扫描到的目录覆盖先前记录。
func upsert[K Key[K]](entries []Entry[K], e Entry[K]) []Entry[K] {
	for i := range entries {
		if c, ok := entries[i].Version.Compare(e.Version); ok && c == 0 {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

// 跟随符号链接；无法 stat 的条目直接跳过。
func isDir(item os.DirEntry, path string) bool {
	if item.IsDir() {
		return true
	}
	if item.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
