package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"arrowstyle/internal/core/config"
	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/shared/util"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newRulesCommand(s streams) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the built-in rules with their messages and default options",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return writeRulesTable(s.out, ruleMetas())
		},
	}
}

func writeRulesTable(w io.Writer, metas []lint.Meta) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Rule", "Fixable", "Messages", "Default options"})
	for _, m := range metas {
		fixable := "no"
		if m.Fixable {
			fixable = "yes"
		}
		tbl.AppendRow(table.Row{
			m.Name + "\n" + m.Description,
			fixable,
			joinMessages(m.Messages),
			joinDefaults(m.Defaults),
		})
		tbl.AppendSeparator()
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("%d rules", len(metas))})
	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func joinMessages(messages map[string]string) string {
	lines := make([]string, 0, len(messages))
	for _, id := range util.SortedStringKeys(messages) {
		lines = append(lines, id+": "+messages[id])
	}
	return strings.Join(lines, "\n")
}

func joinDefaults(defaults map[string]any) string {
	lines := make([]string, 0, len(defaults))
	for _, key := range util.SortedStringKeys(defaults) {
		lines = append(lines, fmt.Sprintf("%s = %v", key, defaults[key]))
	}
	if len(lines) == 0 {
		return "-"
	}
	return strings.Join(lines, "\n")
}

func newPrintConfigCommand(s streams) *cobra.Command {
	var (
		configPath string
		asYAML     bool
	)
	cmd := &cobra.Command{
		Use:   "print-config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, _, err := loadConfig(configPath, cwd)
			if err != nil {
				return err
			}
			config.ApplyEnvOverrides(cfg)
			fillRuleDefaults(cfg, ruleMetas())
			return cfg.Encode(s.out, asYAML)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: discovered from the working directory)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print YAML instead of TOML")
	return cmd
}

// fillRuleDefaults makes every built-in rule and its default options
// explicit, keeping values the config already sets.
func fillRuleDefaults(cfg *config.Config, metas []lint.Meta) {
	for _, m := range metas {
		if _, ok := cfg.Rules[m.Name]; !ok {
			cfg.SetRuleEnabled(m.Name, cfg.RuleEnabled(m.Name))
		}
		current := cfg.RuleOptions(m.Name)
		for key, value := range m.Defaults {
			if _, set := current[key]; !set {
				cfg.SetRuleOption(m.Name, key, value)
			}
		}
	}
}
