package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"apre_report/internal/view"

	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:8080/api"

// buildRootCmd tạo root command cùng các subcommand
func buildRootCmd() *cobra.Command {
	var baseURL string
	rootCmd := &cobra.Command{
		Use:          "apre",
		Short:        "APRE reports client",
		SilenceUsage: true,
	}

	envURL := strings.TrimSpace(os.Getenv("APRE_BASE_URL"))
	if envURL == "" {
		envURL = defaultBaseURL
	}
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", envURL, "Base URL of the reports API (or set APRE_BASE_URL)")

	rootCmd.AddCommand(
		buildOptionsCmd(&baseURL),
		buildReportCmd(&baseURL),
		buildReportsCmd(),
	)
	return rootCmd
}

func buildOptionsCmd(baseURL *string) *cobra.Command {
	names := make([]string, 0, len(view.OptionPaths))
	for name := range view.OptionPaths {
		names = append(names, name)
	}
	sort.Strings(names)

	return &cobra.Command{
		Use:       "options <" + strings.Join(names, "|") + ">",
		Short:     "List the values available for a report filter",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(cmd, *baseURL, args[0])
		},
	}
}

func buildReportCmd(baseURL *string) *cobra.Command {
	var params []string
	var output string
	var fallback string
	cmd := &cobra.Command{
		Use:   "report <name>",
		Short: "Run a report and print its display table",
		Long: `Run a report and print its display table.

Filters are given as --param key=value. Values for filters backed by an
option list must be one of the listed options (see "apre options").

--fallback truthy replaces missing, null, zero, empty and false values
with the column default. --fallback missing replaces only missing and null values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, *baseURL, args[0], params, output, fallback)
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Report filter as key=value (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", view.OutputTable, "Output format: table, json or yaml")
	cmd.Flags().StringVar(&fallback, "fallback", "truthy", "Default-value policy: truthy or missing")
	return cmd
}

func buildReportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List available reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReports(cmd)
		},
	}
}

func parseParams(raw []string) (map[string]string, error) {
	values := make(map[string]string, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q (want key=value)", kv)
		}
		values[key] = value
	}
	return values, nil
}
