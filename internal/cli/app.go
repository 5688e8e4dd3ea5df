package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/liangyou/protoncall/internal/config"
	"github.com/liangyou/protoncall/internal/env"
	"github.com/liangyou/protoncall/internal/logging"
	"github.com/liangyou/protoncall/internal/platform"
	"github.com/liangyou/protoncall/internal/proton"
	"github.com/liangyou/protoncall/internal/version"
	"github.com/liangyou/protoncall/pkg/models"
)

// App 负责 CLI 参数解析与模式分发。
type App struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	version string

	checker proton.Checker
	builder *env.Builder
}

// flags 保存一次调用解析出的命令行参数。
type flags struct {
	program     string
	proton      string
	custom      string
	runtime     string
	data        string
	config      string
	options     []string
	log         bool
	index       bool
	printConfig bool
	dryRun      bool
	verbose     bool

	// extra 是 -r 取值之后的全部词元，原样交给目标程序。
	extra []string
}

// NewApp 创建 CLI 应用实例。
func NewApp(in io.Reader, out, errOut io.Writer, version string) *App {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &App{
		in:      in,
		out:     out,
		errOut:  errOut,
		version: version,
		checker: platform.NewChecker(),
		builder: env.NewBuilder(),
	}
}

// Run 解析参数并执行。
func (a *App) Run(args []string) error {
	cmd, f := a.command()
	head, tail := splitAfterProgram(cmd.Flags(), args)
	f.extra = tail
	cmd.SetArgs(head)
	return cmd.Execute()
}

// splitAfterProgram 在 -r/--run 的取值处切分参数；其后的词元不再按选项解析。
// 位于 -r 之前的 "--" 或位置参数会结束扫描，此时不切分。
func splitAfterProgram(fs *pflag.FlagSet, args []string) ([]string, []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" || len(arg) < 2 || arg[0] != '-' {
			return args, nil
		}
		name, takesNext := flagAt(fs, arg)
		end := i + 1
		if takesNext {
			end++
		}
		if name == "run" {
			if end > len(args) {
				return args, nil
			}
			tail := args[end:]
			if len(tail) > 0 && tail[0] == "--" {
				tail = tail[1:]
			}
			return args[:end], tail
		}
		i = end - 1
	}
	return args, nil
}

// flagAt 返回 arg 中最后一个需要取值的选项名，以及该值是否位于下一个词元。
func flagAt(fs *pflag.FlagSet, arg string) (string, bool) {
	if long, ok := strings.CutPrefix(arg, "--"); ok {
		name, _, inline := strings.Cut(long, "=")
		flag := fs.Lookup(name)
		if flag == nil || flag.NoOptDefVal != "" {
			return "", false
		}
		return flag.Name, !inline
	}
	cluster := arg[1:]
	for j := 0; j < len(cluster); j++ {
		flag := fs.ShorthandLookup(cluster[j : j+1])
		if flag == nil {
			return "", false
		}
		if flag.NoOptDefVal != "" {
			continue
		}
		return flag.Name, j == len(cluster)-1
	}
	return "", false
}

func (a *App) command() (*cobra.Command, *flags) {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "proton-call [OPTIONS]... EXE [EXTRA]...",
		Short: "Run any Windows program through Valve's Proton",
		Long: `Run any Windows program through Valve's Proton.

Defaults to the newest Proton found in 'common'. Everything after EXE is
passed to the program untouched, including arguments that look like
options.

Config:
  $XDG_CONFIG_HOME/proton.conf or $HOME/.config/proton.conf
    data   = "/home/user/Documents/Proton/env/"
    steam  = "/home/user/.steam/steam/"
    common = "/home/user/.steam/steam/steamapps/common/"

Exit codes:
  0 success, 1 internal or usage error, 2 config error,
  3 version not installed, 4 program exited nonzero`,
		Example: `  proton-call -r foo.exe
  proton-call -r foo.exe --goes --to program
  proton-call -p 5.13 foo.exe --goes --to program
  proton-call -c '/path/to/Proton version' -r foo.exe
  proton-call -i`,
		Version:       a.version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, f, args)
		},
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", models.ErrUsage, err)
	})

	fs := cmd.Flags()
	fs.SetInterspersed(false)
	fs.StringVarP(&f.program, "run", "r", "", "run EXE in proton")
	fs.StringVarP(&f.proton, "proton", "p", "", "use Proton VERSION from the common directory")
	fs.StringVarP(&f.custom, "custom", "c", "", "path to a directory containing Proton to use")
	fs.StringVarP(&f.runtime, "runtime", "R", "", "use Steam Linux Runtime VERSION (scout, soldier, sniper)")
	fs.StringVarP(&f.data, "data", "d", "", "use custom data path, ignoring the one in the config")
	fs.StringSliceVarP(&f.options, "options", "o", nil, "pass options to Proton (comma separated)")
	fs.BoolVarP(&f.log, "log", "l", false, "pass PROTON_LOG variable to Proton")
	fs.BoolVarP(&f.index, "index", "i", false, "view an index of installed Proton versions")
	fs.StringVar(&f.config, "config", "", "config file (default $XDG_CONFIG_HOME/proton.conf)")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the resolved configuration and exit")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the command that would run and exit")
	fs.BoolVarP(&f.verbose, "verbose", "V", false, "enable debug logging")
	return cmd, f
}

func (a *App) dispatch(cmd *cobra.Command, f *flags, args []string) error {
	switch {
	case f.index:
		return a.handleIndex(f)
	case f.printConfig:
		return a.handlePrintConfig(f)
	}

	req, err := parseRequest(cmd, f, args)
	if err != nil {
		return err
	}
	return a.handleRun(f, req)
}

// request 是完成用法校验、尚未访问文件系统的启动请求。
type request struct {
	program string
	args    []string
	version models.Version
	custom  string
	runtime *models.RuntimeVersion
	options []models.Option
}

func parseRequest(cmd *cobra.Command, f *flags, args []string) (request, error) {
	var req request

	req.program = f.program
	req.args = append(append([]string(nil), args...), f.extra...)
	if req.program == "" {
		if len(args) == 0 {
			return req, fmt.Errorf("%w: no program to run, view help (-h)", models.ErrUsage)
		}
		req.program = args[0]
		req.args = args[1:]
	}

	if cmd.Flags().Changed("custom") {
		if f.custom == "" {
			return req, fmt.Errorf("%w: custom mode requires a path", models.ErrUsage)
		}
		req.custom = f.custom
		req.version = models.VersionFromCustomPath(f.custom)
	} else if f.proton != "" {
		v, err := models.ParseVersion(f.proton)
		if err != nil {
			return req, err
		}
		req.version = v
	}

	if f.runtime != "" {
		rv, err := models.ParseRuntimeVersion(f.runtime)
		if err != nil {
			return req, err
		}
		req.runtime = &rv
	}

	tokens := append([]string(nil), f.options...)
	if f.log {
		tokens = append(tokens, string(models.OptionLog))
	}
	opts, err := models.ParseOptions(tokens)
	if err != nil {
		return req, err
	}
	req.options = opts
	return req, nil
}

func (a *App) handleRun(f *flags, req request) error {
	cfg, err := config.NewLoader(f.config).Load()
	if err != nil {
		return err
	}
	logger := logging.New(a.errOut, f.verbose)

	installPath := req.custom
	if !req.version.IsCustom() {
		idx, err := version.NewProtonIndex(cfg.Common)
		if err != nil {
			return err
		}
		installPath, err = version.Lookup("Proton", idx, req.version, logger)
		if err != nil {
			return err
		}
	} else if installPath, err = filepath.Abs(req.custom); err != nil {
		return fmt.Errorf("custom path %s: %w", req.custom, err)
	}

	dataDir := cfg.Data
	if f.data != "" {
		if dataDir, err = filepath.Abs(f.data); err != nil {
			return fmt.Errorf("data path %s: %w", f.data, err)
		}
	}

	launcher := a.launcher(cfg.Common, logger)
	params := proton.Params{
		Version:  req.version,
		Path:     installPath,
		Program:  req.program,
		Args:     req.args,
		Options:  req.options,
		DataDir:  dataDir,
		SteamDir: cfg.Steam,
		Runtime:  req.runtime,
	}

	if f.dryRun {
		inv, err := launcher.Prepare(params)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, inv.String())
		return nil
	}

	status, err := launcher.Run(params)
	if err != nil {
		return err
	}
	if !status.Success() {
		return &proton.ExitError{Status: status}
	}
	return nil
}

func (a *App) launcher(common string, logger *log.Logger) *proton.Launcher {
	runtimes := version.RuntimeLookup{Root: common, Logger: logger}
	l := proton.NewLauncher(runtimes, a.checker, a.builder, logger)
	l.Stdin = a.in
	l.Stdout = a.out
	l.Stderr = a.errOut
	return l
}

func (a *App) handleIndex(f *flags) error {
	cfg, err := config.NewLoader(f.config).Load()
	if err != nil {
		return err
	}

	protons, err := version.NewProtonIndex(cfg.Common)
	if err != nil {
		return err
	}
	if err := protons.Build(); err != nil {
		return err
	}
	runtimes, err := version.NewRuntimeIndex(cfg.Common)
	if err != nil {
		return err
	}
	if err := runtimes.Build(); err != nil {
		return err
	}

	if protons.Len() == 0 {
		fmt.Fprintln(a.out, "No Proton versions installed.")
	} else {
		fmt.Fprintln(a.out, "Installed Proton versions:")
		for _, e := range protons.Entries() {
			fmt.Fprintf(a.out, "  %s\n", version.FormatEntry(e))
		}
	}
	if runtimes.Len() > 0 {
		fmt.Fprintln(a.out, "Installed runtimes:")
		for _, e := range runtimes.Entries() {
			fmt.Fprintf(a.out, "  %s\n", version.FormatEntry(e))
		}
	}
	return nil
}

func (a *App) handlePrintConfig(f *flags) error {
	loader := config.NewLoader(f.config)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	rendered, err := config.Render(cfg)
	if err != nil {
		return err
	}
	path, _ := loader.Path()
	fmt.Fprintf(a.out, "# %s\n%s", path, rendered)
	return nil
}
