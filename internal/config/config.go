package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/liangyou/protoncall/pkg/models"
)

const (
	// FileName 是配置文件名。
	FileName = "proton.conf"
	// EnvPrefix 是环境变量覆盖前缀，例如 PROTON_CALL_DATA。
	EnvPrefix = "PROTON_CALL"
)

var keys = []string{"data", "steam", "common"}

// ErrConfig 标记配置文件缺失或内容无效。
var ErrConfig = errors.New("config error")

// Loader 定位并读取 proton.conf。
type Loader struct {
	path   string
	homeFn func() (string, error)
	envFn  func(string) string
}

// NewLoader 创建加载器；path 非空时只读取该文件。
func NewLoader(path string) *Loader {
	return &Loader{
		path:   path,
		homeFn: os.UserHomeDir,
		envFn:  os.Getenv,
	}
}

// Path 返回将要读取的配置文件路径。
func (l *Loader) Path() (string, error) {
	if l.path != "" {
		return l.path, nil
	}
	if xdg := l.envFn("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, FileName), nil
	}
	home, err := l.homeFn()
	if err != nil {
		return "", fmt.Errorf("%w: home dir: %w", ErrConfig, err)
	}
	return filepath.Join(home, ".config", FileName), nil
}

// Load 读取配置，应用环境变量覆盖，并把三个目录规范为绝对路径。
func (l *Loader) Load() (models.Config, error) {
	path, err := l.Path()
	if err != nil {
		return models.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Config{}, fmt.Errorf("%w: config load failed (%s): %w", ErrConfig, path, err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return models.Config{}, fmt.Errorf("%w: bind %s: %w", ErrConfig, key, err)
		}
	}
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return models.Config{}, fmt.Errorf("%w: config parse failed (%s): %w", ErrConfig, path, err)
	}

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return models.Config{}, fmt.Errorf("%w: config decode failed (%s): %w", ErrConfig, path, err)
	}

	home, _ := l.homeFn()
	fields := map[string]*string{"data": &cfg.Data, "steam": &cfg.Steam, "common": &cfg.Common}
	for _, key := range keys {
		field := fields[key]
		if strings.TrimSpace(*field) == "" {
			return models.Config{}, fmt.Errorf("%w: %s: missing %q", ErrConfig, path, key)
		}
		resolved, err := normalize(*field, home)
		if err != nil {
			return models.Config{}, fmt.Errorf("%w: %s: %s: %w", ErrConfig, path, key, err)
		}
		*field = resolved
	}
	return cfg, nil
}

// Render 以 TOML 输出配置，格式与 proton.conf 一致。
func Render(cfg models.Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("config: render: %w", err)
	}
	return string(data), nil
}

func normalize(path, home string) (string, error) {
	if rest, ok := strings.CutPrefix(path, "~/"); ok && home != "" {
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
