package env

import (
	"errors"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/liangyou/protoncall/pkg/models"
)

const (
	// VarCompatData 指向 Proton 的私有前缀目录。
	VarCompatData = "STEAM_COMPAT_DATA_PATH"
	// VarCompatClient 指向 Steam 客户端安装目录。
	VarCompatClient = "STEAM_COMPAT_CLIENT_INSTALL_PATH"
	// VarRuntime 指向选中的 Steam Linux Runtime。
	VarRuntime = "STEAM_RUNTIME"
)

// Inputs 汇总构造子进程环境所需的数据。
type Inputs struct {
	DataDir     string
	SteamDir    string
	RuntimePath string
	Options     []models.Option
}

// Builder 以继承环境为底，叠加显式覆盖项。
type Builder struct {
	environ func() []string
}

// NewBuilder 创建环境构造器，继承当前进程环境。
func NewBuilder() *Builder {
	return &Builder{environ: os.Environ}
}

// NewBuilderFrom 使用给定的继承环境，便于测试固定输入。
func NewBuilderFrom(environ func() []string) *Builder {
	if environ == nil {
		environ = os.Environ
	}
	return &Builder{environ: environ}
}

// Overrides 返回本次启动显式设置的变量。
func (b *Builder) Overrides(in Inputs) (map[string]string, error) {
	if strings.TrimSpace(in.DataDir) == "" {
		return nil, errors.New("env: data directory is required")
	}
	if strings.TrimSpace(in.SteamDir) == "" {
		return nil, errors.New("env: steam directory is required")
	}

	out := map[string]string{
		VarCompatData:   in.DataDir,
		VarCompatClient: in.SteamDir,
	}
	if in.RuntimePath != "" {
		out[VarRuntime] = in.RuntimePath
	}
	for _, opt := range in.Options {
		key, value := opt.Env()
		if key == "" {
			return nil, errors.New("env: unknown option " + string(opt))
		}
		out[key] = value
	}
	return out, nil
}

// Build 合并继承环境与覆盖项，输出按键排序的 KEY=VALUE 列表。
func (b *Builder) Build(in Inputs) ([]string, map[string]string, error) {
	overrides, err := b.Overrides(in)
	if err != nil {
		return nil, nil, err
	}

	merged := parseEnviron(b.environ())
	maps.Copy(merged, overrides)
	return Flatten(merged), overrides, nil
}

// Flatten 将映射按键排序展开为 KEY=VALUE。
func Flatten(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+vars[k])
	}
	return out
}

func parseEnviron(lines []string) map[string]string {
	out := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = value
	}
	return out
}
