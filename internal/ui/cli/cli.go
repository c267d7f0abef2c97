package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"arrowstyle/internal/shared/version"
	"arrowstyle/internal/ui/report/formats"

	"github.com/spf13/cobra"
)

const (
	exitOK       = 0
	exitProblems = 1
	exitFatal    = 2
)

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

type globalOptions struct {
	verbose   bool
	logFormat string
}

type lintOptions struct {
	configPath    string
	fix           bool
	dryRun        bool
	format        string
	maxLen        int
	rules         []string
	watch         bool
	noCache       bool
	concurrency   int
	metricsAddr   string
	otlpEndpoint  string
	stdin         bool
	stdinFilename string
}

// Run executes the command line and returns the process exit code:
// 0 when clean, 1 when problems remain, 2 on usage or fatal errors.
func Run(args []string) int {
	return run(args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(args []string, s streams) int {
	code := exitOK
	root := newRootCommand(s, &code)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(s.err, "error: %v\n", err)
		return exitFatal
	}
	return code
}

func newRootCommand(s streams, code *int) *cobra.Command {
	var global globalOptions

	root := &cobra.Command{
		Use:           "arrowstyle",
		Short:         "Lint and fix arrow function return style in JavaScript and TypeScript",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return configureLogging(s.err, global.verbose, global.logFormat)
		},
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.err)

	root.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&global.logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(newLintCommand(s, code))
	root.AddCommand(newRulesCommand(s))
	root.AddCommand(newPrintConfigCommand(s))
	root.AddCommand(newVersionCommand(s))
	return root
}

func newLintCommand(s streams, code *int) *cobra.Command {
	var opts lintOptions

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint files and directories, optionally writing fixes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateLintOptions(&opts, args); err != nil {
				return err
			}
			c, err := runLint(cmd, opts, args, s)
			if err != nil {
				return err
			}
			*code = c
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: discovered from the working directory)")
	fs.BoolVar(&opts.fix, "fix", false, "Write fixes back to disk")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Print a unified diff of the fixes without writing them")
	fs.StringVarP(&opts.format, "format", "f", "stylish", "Output format: "+strings.Join(formats.Names(), ", "))
	fs.IntVar(&opts.maxLen, "max-len", 0, "Override the arrow-return-style maxLen option")
	fs.StringArrayVar(&opts.rules, "rule", nil, "Enable or disable a rule: name=on|off (repeatable)")
	fs.BoolVarP(&opts.watch, "watch", "w", false, "Re-lint files as they change")
	fs.BoolVar(&opts.noCache, "no-cache", false, "Disable the result cache")
	fs.IntVar(&opts.concurrency, "concurrency", 0, "Files linted in parallel (0 = number of CPUs)")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address")
	fs.StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "Export traces to this OTLP/gRPC endpoint")
	fs.BoolVar(&opts.stdin, "stdin", false, "Lint source read from standard input")
	fs.StringVar(&opts.stdinFilename, "stdin-filename", "", "Logical filename for --stdin input")
	return cmd
}

func validateLintOptions(opts *lintOptions, args []string) error {
	if opts.fix && opts.dryRun {
		return fmt.Errorf("--fix and --dry-run cannot be used together")
	}
	if opts.stdin {
		if len(args) > 0 {
			return fmt.Errorf("--stdin does not accept path arguments")
		}
		if opts.watch {
			return fmt.Errorf("--stdin and --watch cannot be used together")
		}
	} else if opts.stdinFilename != "" {
		return fmt.Errorf("--stdin-filename requires --stdin")
	}
	if opts.maxLen < 0 {
		return fmt.Errorf("--max-len must not be negative")
	}
	if _, err := parseRuleToggles(opts.rules); err != nil {
		return err
	}
	return nil
}

// parseRuleToggles parses repeated name=on|off flags.
func parseRuleToggles(values []string) (map[string]bool, error) {
	toggles := make(map[string]bool, len(values))
	for _, raw := range values {
		name, state, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--rule must be formatted as name=on|off, got %q", raw)
		}
		switch strings.ToLower(strings.TrimSpace(state)) {
		case "on", "true", "1", "error":
			toggles[name] = true
		case "off", "false", "0":
			toggles[name] = false
		default:
			return nil, fmt.Errorf("--rule %s: unknown state %q (want on or off)", name, state)
		}
	}
	return toggles, nil
}

func newVersionCommand(s streams) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(s.out, "arrowstyle v%s\n", version.String())
		},
	}
}
