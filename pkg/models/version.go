package models

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// versionKind 区分 Version 的三种形态。
type versionKind int

const (
	// kindDefault 表示未指定版本，解析为已安装的最新版本。
	kindDefault versionKind = iota
	// kindRelease 表示形如 6.3 的数字版本。
	kindRelease
	// kindCustom 表示用户直接给出的自定义安装目录。
	kindCustom
)

// Version 描述一个 Proton 版本，零值即 Default。
type Version struct {
	kind  versionKind
	parts []int
	label string
}

// DefaultVersion 返回“使用最新版本”的哨兵值。
func DefaultVersion() Version {
	return Version{}
}

// ParseVersion 解析 "<major>.<minor>[.<patch>...]"，不做首尾空白裁剪。
func ParseVersion(text string) (Version, error) {
	parts, ok := parseParts(text)
	if !ok {
		return Version{}, fmt.Errorf("%w: invalid version %q", ErrUsage, text)
	}
	return Version{kind: kindRelease, parts: parts}, nil
}

// VersionFromDirectoryName 与 ParseVersion 语法一致，不匹配时返回 false 而非错误。
func VersionFromDirectoryName(name string) (Version, bool) {
	parts, ok := parseParts(name)
	if !ok {
		return Version{}, false
	}
	return Version{kind: kindRelease, parts: parts}, true
}

// VersionFromCustomPath 以目录末级名称作为显示标签构造自定义版本。
func VersionFromCustomPath(path string) Version {
	label := filepath.Base(filepath.Clean(path))
	if label == "." || label == string(filepath.Separator) {
		label = path
	}
	return Version{kind: kindCustom, label: label}
}

// IsDefault 报告是否为默认哨兵。
func (v Version) IsDefault() bool { return v.kind == kindDefault }

// IsCustom 报告是否为自定义安装。
func (v Version) IsCustom() bool { return v.kind == kindCustom }

// Compare 仅在两侧都是数字版本时有定义；否则 ok 为 false。
func (v Version) Compare(other Version) (int, bool) {
	if v.kind != kindRelease || other.kind != kindRelease {
		return 0, false
	}
	n := len(v.parts)
	if len(other.parts) > n {
		n = len(other.parts)
	}
	for i := 0; i < n; i++ {
		a, b := -1, -1
		if i < len(v.parts) {
			a = v.parts[i]
		}
		if i < len(other.parts) {
			b = other.parts[i]
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}
	}
	return 0, true
}

// String 渲染版本文本，数字版本可与 ParseVersion 互逆。
func (v Version) String() string {
	switch v.kind {
	case kindRelease:
		items := make([]string, len(v.parts))
		for i, p := range v.parts {
			items[i] = strconv.Itoa(p)
		}
		return strings.Join(items, ".")
	case kindCustom:
		return v.label
	default:
		return "latest"
	}
}

// 至少两个以点分隔的十进制分量，不允许前导零。
func parseParts(text string) ([]int, bool) {
	fields := strings.Split(text, ".")
	if len(fields) < 2 {
		return nil, false
	}
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		if f == "" || (len(f) > 1 && f[0] == '0') {
			return nil, false
		}
		for _, ch := range f {
			if ch < '0' || ch > '9' {
				return nil, false
			}
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		parts = append(parts, n)
	}
	return parts, true
}
