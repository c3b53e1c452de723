package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Akashdeep-Patra/zed-git-review/internal/app"
	"github.com/Akashdeep-Patra/zed-git-review/internal/common"
	"github.com/Akashdeep-Patra/zed-git-review/internal/config"
	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
	"github.com/Akashdeep-Patra/zed-git-review/internal/logging"
	"github.com/Akashdeep-Patra/zed-git-review/internal/menu"
	"github.com/Akashdeep-Patra/zed-git-review/internal/review"
	"github.com/Akashdeep-Patra/zed-git-review/internal/watcher"
)

// Build-time variables injected via ldflags by GoReleaser / Taskfile.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errNoTTY is returned when zgr is started without a terminal.
var errNoTTY = errors.New("zgr needs an interactive terminal")

const (
	// gitCacheTTL deduplicates git reads within one refresh cycle.
	gitCacheTTL = 2 * time.Second
	// reviewLookupTTL bounds how often gh is asked for the current pull request.
	reviewLookupTTL = 30 * time.Second
)

func init() {
	// A TUI spends its time waiting on git, gh and terminal input. Two OS
	// threads cover the render and dispatch work, and several instances
	// across editor terminals then do not compete for every core.
	// An explicit GOMAXPROCS wins.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(min(2, runtime.NumCPU()))
	}

	// Keep RSS low when many instances share the machine.
	debug.SetMemoryLimit(50 * 1024 * 1024) // 50 MiB
}

func main() {
	rootCmd := buildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zgr:", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zgr",
		Short: "A review menu for Git changes and pull requests",
		Long: `zgr is a keyboard-first review panel designed to run inside Zed's
integrated terminal (or any terminal emulator).

It lists working tree changes (Status mode) and the files of the pull
request open for the current branch (Review mode). Every file gets a
two-key home row code that opens its diff or the file itself.`,
		RunE:          runApp,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"zgr %s\n  commit:  %s\n  built:   %s\n  go:      %s\n  os/arch: %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	))

	rootCmd.AddCommand(buildVersionCmd())
	rootCmd.AddCommand(buildCompletionCmd())
	rootCmd.AddCommand(buildZedCmd())

	rootCmd.Flags().StringP("path", "p", ".", "Path to the git repository")
	rootCmd.Flags().StringP("mode", "m", "", "Initial mode: status or review (default from config)")
	rootCmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().String("log-file", "", "Write JSON logs to this file")

	_ = rootCmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"status", "review"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}

// applyFlags lets command line flags override the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		if _, ok := menu.ParseMode(mode); !ok {
			return fmt.Errorf("--mode %q: want status or review", mode)
		}
		cfg.StartMode = mode
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if file, _ := cmd.Flags().GetString("log-file"); file != "" {
		cfg.LogFile = file
	}
	return nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	repoPath, _ := cmd.Flags().GetString("path")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	closeLog, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closeLog()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTTY
	}

	cliSvc, err := git.NewCLIService(repoPath)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}
	gitSvc := git.NewCachedService(cliSvc, gitCacheTTL)

	// Review mode degrades to its empty state without gh.
	var reviews menu.ReviewSource
	if gh, err := review.NewGHSource(cliSvc.RepoRoot()); err != nil {
		log.Warn().Err(err).Msg("review mode disabled")
	} else {
		reviews = review.NewCachedSource(gh, reviewLookupTTL)
	}

	log.Info().
		Str("repo", cliSvc.RepoRoot()).
		Str("mode", cfg.StartMode).
		Bool("review", reviews != nil).
		Msg("starting")

	model := app.New(gitSvc, reviews, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Only .git internals are watched, so this is safe for huge monorepos.
	if cfg.Watch {
		w, err := watcher.New(cliSvc.GitDir(), cfg.WatchDebounce)
		if err != nil {
			log.Warn().Err(err).Msg("watcher disabled")
		} else {
			defer w.Stop()
			go func() {
				for range w.Events() {
					p.Send(common.RefreshMsg{})
				}
			}()
		}
	}

	_, err = p.Run()
	return err
}

type zedTask struct {
	Label               string            `json:"label"`
	Command             string            `json:"command"`
	Args                []string          `json:"args,omitempty"`
	Env                 map[string]string `json:"env,omitempty"`
	Cwd                 string            `json:"cwd,omitempty"`
	UseNewTerminal      bool              `json:"use_new_terminal,omitempty"`
	AllowConcurrentRuns bool              `json:"allow_concurrent_runs,omitempty"`
	Reveal              string            `json:"reveal,omitempty"`
	Hide                string            `json:"hide,omitempty"`
	Shell               string            `json:"shell,omitempty"`
	ShowSummary         bool              `json:"show_summary,omitempty"`
	ShowCommand         bool              `json:"show_command,omitempty"`
}

const zedLabelPrefix = "zgr:"

func buildZedCmd() *cobra.Command {
	zedCmd := &cobra.Command{
		Use:   "zed",
		Short: "Manage Zed IDE integration",
		Long: `Manage global Zed tasks that open zgr in the current worktree.

Examples:
  zgr zed status
  zgr zed install
  zgr zed uninstall`,
	}

	zedCmd.AddCommand(buildZedInstallCmd())
	zedCmd.AddCommand(buildZedUninstallCmd())
	zedCmd.AddCommand(buildZedStatusCmd())

	return zedCmd
}

func zedTasksPath() (string, error) {
	cfgDir, err := zedConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "tasks.json"), nil
}

func buildZedInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install global Zed tasks for zgr",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasksPath, err := zedTasksPath()
			if err != nil {
				return err
			}
			existing, err := readZedTasks(tasksPath)
			if err != nil {
				return err
			}
			if err := writeZedTasks(tasksPath, mergeZedTasks(existing, defaultZedTasks())); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Installed zgr Zed integration at %s\n", tasksPath)
			fmt.Fprintln(out, "Open Zed and run: task: spawn -> zgr:*")
			return nil
		},
	}
}

func buildZedUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove global Zed tasks managed by zgr",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasksPath, err := zedTasksPath()
			if err != nil {
				return err
			}
			existing, err := readZedTasks(tasksPath)
			if err != nil {
				return err
			}
			if err := writeZedTasks(tasksPath, removeManagedZedTasks(existing)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed zgr Zed integration from %s\n", tasksPath)
			return nil
		},
	}
}

func buildZedStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show global Zed integration status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasksPath, err := zedTasksPath()
			if err != nil {
				return err
			}
			existing, err := readZedTasks(tasksPath)
			if err != nil {
				return err
			}

			var labels []string
			for _, t := range existing {
				if strings.HasPrefix(t.Label, zedLabelPrefix) {
					labels = append(labels, t.Label)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Zed tasks file: %s\n", tasksPath)
			if len(labels) == 0 {
				fmt.Fprintln(out, "zgr integration: not installed")
				return nil
			}

			fmt.Fprintf(out, "zgr integration: installed (%d task(s))\n", len(labels))
			for _, label := range labels {
				fmt.Fprintf(out, "  - %s\n", label)
			}
			return nil
		},
	}
}

func zedConfigDir() (string, error) {
	if override := strings.TrimSpace(os.Getenv("ZGR_ZED_CONFIG_DIR")); override != "" {
		return override, nil
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "zed"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home dir: %w", err)
	}
	return filepath.Join(home, ".config", "zed"), nil
}

func readZedTasks(path string) ([]zedTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read zed tasks file %s: %w", path, err)
	}

	var tasks []zedTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse zed tasks file %s: %w", path, err)
	}
	return tasks, nil
}

func writeZedTasks(path string, tasks []zedTask) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create zed config dir: %w", err)
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize zed tasks: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write zed tasks file %s: %w", path, err)
	}
	return nil
}

func mergeZedTasks(existing, managed []zedTask) []zedTask {
	return append(removeManagedZedTasks(existing), managed...)
}

func removeManagedZedTasks(tasks []zedTask) []zedTask {
	out := make([]zedTask, 0, len(tasks))
	for _, t := range tasks {
		if strings.HasPrefix(t.Label, zedLabelPrefix) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// zgrTask opens zgr in the given mode for the active worktree.
func zgrTask(label, mode string) zedTask {
	return zedTask{
		Label:          label,
		Command:        "zgr",
		Args:           []string{"--path", "$ZED_WORKTREE_ROOT", "--mode", mode},
		Cwd:            "$ZED_WORKTREE_ROOT",
		UseNewTerminal: true,
		Reveal:         "always",
		Hide:           "on_success",
		Shell:          "system",
	}
}

func defaultZedTasks() []zedTask {
	return []zedTask{
		zgrTask("zgr: status (current worktree)", "status"),
		zgrTask("zgr: review (current worktree)", "review"),
	}
}

// buildVersionCmd creates the `zgr version` subcommand supporting --json.
func buildVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
					"go":      runtime.Version(),
					"os":      runtime.GOOS,
					"arch":    runtime.GOARCH,
				})
			}
			fmt.Fprintf(out, "zgr %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
			fmt.Fprintf(out, "  go:      %s\n", runtime.Version())
			fmt.Fprintf(out, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	return cmd
}

// buildCompletionCmd creates the `zgr completion` subcommand for shell completions.
func buildCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for zgr.

Examples:
  # Bash (add to ~/.bashrc)
  zgr completion bash > /etc/bash_completion.d/zgr

  # Zsh (add to ~/.zshrc before compinit)
  zgr completion zsh > "${fpath[1]}/_zgr"

  # Fish
  zgr completion fish > ~/.config/fish/completions/zgr.fish

  # PowerShell
  zgr completion powershell > zgr.ps1`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
