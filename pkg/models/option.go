package models

import (
	"fmt"
	"sort"
	"strings"
)

// Option 是传递给 Proton 的运行时开关。
type Option string

const (
	OptionLog      Option = "log"
	OptionWineD3D  Option = "wined3d"
	OptionNoD3D11  Option = "nod3d11"
	OptionNoD3D10  Option = "nod3d10"
	OptionNoEsync  Option = "noesync"
	OptionNoFsync  Option = "nofsync"
	OptionNvapi    Option = "nvapi"
	OptionLargeAdr Option = "laa"
)

var optionVars = map[Option]string{
	OptionLog:      "PROTON_LOG",
	OptionWineD3D:  "PROTON_USE_WINED3D",
	OptionNoD3D11:  "PROTON_NO_D3D11",
	OptionNoD3D10:  "PROTON_NO_D3D10",
	OptionNoEsync:  "PROTON_NO_ESYNC",
	OptionNoFsync:  "PROTON_NO_FSYNC",
	OptionNvapi:    "PROTON_ENABLE_NVAPI",
	OptionLargeAdr: "PROTON_FORCE_LARGE_ADDRESS_AWARE",
}

// ParseOption 将用户输入映射为已知开关（忽略大小写与首尾空白），未知值返回用法错误。
func ParseOption(token string) (Option, error) {
	opt := Option(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := optionVars[opt]; !ok {
		return "", fmt.Errorf("%w: unknown option %q (known: %s)", ErrUsage, token, strings.Join(KnownOptions(), ", "))
	}
	return opt, nil
}

// ParseOptions 按输入顺序解析并去重。
func ParseOptions(tokens []string) ([]Option, error) {
	seen := make(map[Option]struct{}, len(tokens))
	out := make([]Option, 0, len(tokens))
	for _, token := range tokens {
		opt, err := ParseOption(token)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[opt]; dup {
			continue
		}
		seen[opt] = struct{}{}
		out = append(out, opt)
	}
	return out, nil
}

// Env 返回该开关对应的环境变量。
func (o Option) Env() (string, string) {
	return optionVars[o], "1"
}

// KnownOptions 返回排序后的开关名称。
func KnownOptions() []string {
	names := make([]string, 0, len(optionVars))
	for opt := range optionVars {
		names = append(names, string(opt))
	}
	sort.Strings(names)
	return names
}
