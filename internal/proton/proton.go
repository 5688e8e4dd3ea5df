// Package proton 负责在选定的 Proton 安装下组装并运行目标程序。
package proton

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"github.com/liangyou/protoncall/internal/env"
	"github.com/liangyou/protoncall/pkg/models"
)

const (
	// EntryPoint 是每个 Proton 安装目录中的入口脚本。
	EntryPoint = "proton"
	// Verb 位于入口脚本与目标程序之间。
	Verb = "run"
)

// ErrLaunch 标记子进程无法启动。
var ErrLaunch = errors.New("launch failed")

// Params 汇总一次启动所需的全部参数，仅使用一次。
type Params struct {
	Version  models.Version
	Path     string
	Program  string
	Args     []string
	Options  []models.Option
	DataDir  string
	SteamDir string
	Runtime  *models.RuntimeVersion
}

// RuntimeResolver 解析 Steam Linux Runtime 的安装路径。
type RuntimeResolver interface {
	Resolve(models.RuntimeVersion) (string, error)
}

// Invocation 是组装完成的子进程描述。
type Invocation struct {
	Argv      []string
	Env       []string
	Overrides map[string]string
}

// String 输出覆盖变量与经 shell 转义的命令行，供 --dry-run 展示。
func (inv *Invocation) String() string {
	var b strings.Builder
	for _, kv := range env.Flatten(inv.Overrides) {
		key, value, _ := strings.Cut(kv, "=")
		b.WriteString(key + "=" + quote(value))
		b.WriteByte(' ')
	}
	for i, arg := range inv.Argv {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(quote(arg))
	}
	return b.String()
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return fmt.Sprintf("%q", s)
	}
	return q
}

// Status 是子进程的原始退出状态。
type Status struct {
	// 被信号终止时 Code 为 -1。
	Code   int
	Signal string
}

// Success 报告退出码是否为 0。
func (s Status) Success() bool { return s.Code == 0 }

// Exited 报告子进程是否带数字退出码结束。
func (s Status) Exited() bool { return s.Code >= 0 }

// ExitError 表示子进程已运行但未成功退出。
type ExitError struct {
	Status Status
}

func (e *ExitError) Error() string {
	if e.Status.Exited() {
		return fmt.Sprintf("proton exited with code: %d", e.Status.Code)
	}
	if e.Status.Signal != "" {
		return "proton failed: " + e.Status.Signal
	}
	return "proton failed"
}

// Checker 在启动前校验平台与目录。
type Checker interface {
	ValidateHost() error
	EnsureDataDir(dir string) error
	ValidateExecutable(path string) error
}

// Launcher 组装子进程环境与参数并运行。
type Launcher struct {
	runtimes RuntimeResolver
	checker  Checker
	env      *env.Builder
	logger   *log.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewLauncher 创建启动器；不使用容器运行时时 runtimes 可为 nil。
func NewLauncher(runtimes RuntimeResolver, checker Checker, builder *env.Builder, logger *log.Logger) *Launcher {
	if builder == nil {
		builder = env.NewBuilder()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Launcher{
		runtimes: runtimes,
		checker:  checker,
		env:      builder,
		logger:   logger,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Prepare 解析运行时并组装环境与参数，不启动任何进程。
func (l *Launcher) Prepare(p Params) (*Invocation, error) {
	if strings.TrimSpace(p.Path) == "" {
		return nil, errors.New("proton: installation path is required")
	}
	if strings.TrimSpace(p.Program) == "" {
		return nil, fmt.Errorf("%w: no program to run", models.ErrUsage)
	}

	var runtimePath string
	if p.Runtime != nil {
		if l.runtimes == nil {
			return nil, errors.New("proton: runtime requested without a runtime index")
		}
		path, err := l.runtimes.Resolve(*p.Runtime)
		if err != nil {
			return nil, err
		}
		runtimePath = path
	}

	environ, overrides, err := l.env.Build(env.Inputs{
		DataDir:     p.DataDir,
		SteamDir:    p.SteamDir,
		RuntimePath: runtimePath,
		Options:     p.Options,
	})
	if err != nil {
		return nil, err
	}

	argv := make([]string, 0, len(p.Args)+3)
	argv = append(argv, filepath.Join(p.Path, EntryPoint), Verb, p.Program)
	argv = append(argv, p.Args...)

	return &Invocation{Argv: argv, Env: environ, Overrides: overrides}, nil
}

// Run 组装、校验、启动并等待子进程；非零退出通过 Status 返回而不是错误。
func (l *Launcher) Run(p Params) (Status, error) {
	inv, err := l.Prepare(p)
	if err != nil {
		return Status{}, err
	}
	if l.checker != nil {
		if err := l.checker.ValidateHost(); err != nil {
			return Status{}, err
		}
		if err := l.checker.EnsureDataDir(p.DataDir); err != nil {
			return Status{}, err
		}
		if err := l.checker.ValidateExecutable(inv.Argv[0]); err != nil {
			return Status{}, fmt.Errorf("%w: %w", ErrLaunch, err)
		}
	}

	l.logger.Debug("launching proton", "version", p.Version, "argv", inv.Argv)
	for _, kv := range env.Flatten(inv.Overrides) {
		l.logger.Debug("env", "var", kv)
	}

	cmd := exec.Command(inv.Argv[0], inv.Argv[1:]...)
	cmd.Env = inv.Env
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Start(); err != nil {
		return Status{}, fmt.Errorf("%w: proton: start %s: %w", ErrLaunch, inv.Argv[0], err)
	}
	err = cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Status{}, fmt.Errorf("proton: wait: %w", err)
		}
	}
	return statusOf(cmd.ProcessState), nil
}

func statusOf(state *os.ProcessState) Status {
	s := Status{Code: state.ExitCode()}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		s.Signal = ws.Signal().String()
	}
	return s
}
