package models

import (
	"fmt"
	"strconv"
	"strings"
)

const runtimeDirPrefix = "SteamLinuxRuntime"

var runtimeNames = map[int]string{
	1: "scout",
	2: "soldier",
	3: "sniper",
}

// RuntimeVersion 描述 Steam Linux Runtime 容器层的代号，零值即 Default。
type RuntimeVersion struct {
	generation int
}

// ParseRuntimeVersion 接受代号（soldier）或代数（2）。
func ParseRuntimeVersion(text string) (RuntimeVersion, error) {
	lowered := strings.ToLower(text)
	for gen, name := range runtimeNames {
		if lowered == name {
			return RuntimeVersion{generation: gen}, nil
		}
	}
	if gen, err := strconv.Atoi(text); err == nil {
		if _, ok := runtimeNames[gen]; ok {
			return RuntimeVersion{generation: gen}, nil
		}
	}
	return RuntimeVersion{}, fmt.Errorf("%w: invalid runtime version %q", ErrUsage, text)
}

// RuntimeFromDirectoryName 识别 SteamLinuxRuntime、SteamLinuxRuntime_soldier 等目录名。
func RuntimeFromDirectoryName(name string) (RuntimeVersion, bool) {
	if name == runtimeDirPrefix {
		return RuntimeVersion{generation: 1}, true
	}
	suffix, ok := strings.CutPrefix(name, runtimeDirPrefix+"_")
	if !ok {
		return RuntimeVersion{}, false
	}
	for gen, n := range runtimeNames {
		if gen > 1 && suffix == n {
			return RuntimeVersion{generation: gen}, true
		}
	}
	return RuntimeVersion{}, false
}

// IsDefault 报告是否未指定代号。
func (r RuntimeVersion) IsDefault() bool { return r.generation == 0 }

// Compare 仅比较具体代号。
func (r RuntimeVersion) Compare(other RuntimeVersion) (int, bool) {
	if r.IsDefault() || other.IsDefault() {
		return 0, false
	}
	switch {
	case r.generation < other.generation:
		return -1, true
	case r.generation > other.generation:
		return 1, true
	}
	return 0, true
}

func (r RuntimeVersion) String() string {
	if name, ok := runtimeNames[r.generation]; ok {
		return name
	}
	return "latest"
}
