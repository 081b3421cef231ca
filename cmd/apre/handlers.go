package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"apre_report/internal/view"

	"github.com/spf13/cobra"
)

func runOptions(cmd *cobra.Command, baseURL, name string) error {
	path, ok := view.OptionPaths[name]
	if !ok {
		return fmt.Errorf("unknown option list %q", name)
	}
	client, err := view.NewClient(baseURL, nil)
	if err != nil {
		return err
	}

	var values []string
	if err := client.GetJSON(cmd.Context(), path, nil, &values); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, v := range values {
		fmt.Fprintln(out, v)
	}
	return nil
}

func runReport(cmd *cobra.Command, baseURL, name string, rawParams []string, output, fallback string) error {
	def, ok := view.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown report %q (see \"apre reports\")", name)
	}
	policy, err := view.ParseFallbackPolicy(fallback)
	if err != nil {
		return err
	}
	values, err := parseParams(rawParams)
	if err != nil {
		return err
	}
	client, err := view.NewClient(baseURL, nil)
	if err != nil {
		return err
	}

	report := view.NewFilteredReport(def, client, policy)
	report.LoadOptions(cmd.Context())
	table, err := report.Submit(cmd.Context(), values)
	if err != nil {
		return err
	}
	return view.Render(cmd.OutOrStdout(), table, output)
}

func runReports(cmd *cobra.Command) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARAMS\tCOLUMNS")
	for _, name := range view.DefinitionNames() {
		def, _ := view.Lookup(name)
		params := make([]string, len(def.Params))
		for i, p := range def.Params {
			params[i] = p.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", def.Name, strings.Join(params, ","), strings.Join(def.Headers(), ", "))
	}
	return w.Flush()
}
