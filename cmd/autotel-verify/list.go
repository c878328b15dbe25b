package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/autotel"
	"github.com/fyrsmithlabs/autotel/detector"
	"github.com/fyrsmithlabs/autotel/instrument"
	"github.com/fyrsmithlabs/autotel/internal/envflag"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output results as JSON")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries and their environment switches",
	Long: `List every instrumentation and resource detector in the catalogs.

Examples:
  # Human-readable tables
  autotel-verify list

  # Machine-readable output
  autotel-verify list --json`,
	RunE: runList,
}

// catalogEntry is the JSON shape for one instrumentation.
type catalogEntry struct {
	Name   string `json:"name"`
	EnvVar string `json:"env_var,omitempty"`
	Module string `json:"module"`
}

func runList(cmd *cobra.Command, args []string) error {
	entries := make([]catalogEntry, 0, len(instrument.Catalog()))
	for _, reg := range instrument.Catalog() {
		entry := catalogEntry{Name: reg.Name, Module: reg.Module}
		if key, ok := envflag.EnvVar(reg.Name); ok {
			entry.EnvVar = key
		}
		entries = append(entries, entry)
	}

	if listJSON {
		out := struct {
			Instrumentations []catalogEntry `json:"instrumentations"`
			Detectors        []string       `json:"detectors"`
		}{
			Instrumentations: entries,
			Detectors:        detector.Tokens(),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTRUMENTATION\tENV VAR\tMODULE")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Name, entry.EnvVar, entry.Module)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "DETECTORS (%s)\n", detector.EnvVar)
	for _, token := range detector.Tokens() {
		fmt.Fprintf(w, "%s\n", token)
	}
	return w.Flush()
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Preview what the current environment enables",
	Long: `Resolve the instrumentation set against the current environment and
show the outcome per catalog entry. Unknown names in list variables are
reported on stderr, exactly as they would be at startup.

Examples:
  OTEL_NODE_DISABLED_INSTRUMENTATIONS=host,runtime autotel-verify env
  OTEL_INSTRUMENTATION_GRPC_ENABLED=false autotel-verify env`,
	RunE: runEnv,
}

func runEnv(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	enabled := make(map[string]bool)
	for _, ins := range autotel.Instrumentations(nil, autotel.WithLogger(logger)) {
		enabled[ins.Name()] = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INSTRUMENTATION\tSTATE")
	for _, reg := range instrument.Catalog() {
		state := "disabled"
		if enabled[reg.Name] {
			state = "enabled"
		}
		fmt.Fprintf(w, "%s\t%s\n", reg.Name, state)
	}

	detectors := detector.FromEnv(detector.WithLogger(logger))
	fmt.Fprintln(w)
	value, set := os.LookupEnv(detector.EnvVar)
	if !set {
		value = "(unset)"
	}
	fmt.Fprintf(w, "%s=%s selects %d of %d detectors\n",
		detector.EnvVar, value, len(detectors), len(detector.Tokens()))
	return w.Flush()
}
