package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/modfile"

	"github.com/fyrsmithlabs/autotel/detector"
	"github.com/fyrsmithlabs/autotel/instrument"
)

var checkGomod string

func init() {
	checkCmd.Flags().StringVar(&checkGomod, "gomod", "go.mod", "Path to the go.mod to check")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that go.mod and the catalogs agree",
	Long: `Check that every catalog entry is backed by a direct go.mod dependency
and that every contrib instrumentation or detector dependency has a
catalog entry. Run it after dependency bumps to catch entries that were
dropped or left behind.

Examples:
  autotel-verify check
  autotel-verify check --gomod ../autotel/go.mod`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(checkGomod)
	if err != nil {
		return fmt.Errorf("reading %s: %w", checkGomod, err)
	}
	f, err := modfile.Parse(checkGomod, data, nil)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", checkGomod, err)
	}

	required := make(map[string]bool)
	for _, r := range f.Require {
		if !r.Indirect {
			required[r.Mod.Path] = true
		}
	}

	backed := make(map[string]bool)
	var problems []string

	for _, reg := range instrument.Catalog() {
		backed[reg.Module] = true
		if !required[reg.Module] {
			problems = append(problems,
				fmt.Sprintf("instrumentation %s: module %s is not a direct dependency", reg.Name, reg.Module))
		}
	}

	for _, mod := range detector.Modules() {
		backed[mod] = true
		if !required[mod] {
			problems = append(problems,
				fmt.Sprintf("detector module %s is not a direct dependency", mod))
		}
	}

	for path := range required {
		switch {
		case strings.HasPrefix(path, "go.opentelemetry.io/contrib/instrumentation/") && !backed[path]:
			problems = append(problems,
				fmt.Sprintf("dependency %s has no instrumentation catalog entry", path))
		case strings.HasPrefix(path, "go.opentelemetry.io/contrib/detectors/") && !backed[path]:
			problems = append(problems,
				fmt.Sprintf("dependency %s has no detector catalog entry", path))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, p)
		}
		return fmt.Errorf("%d catalog problem(s) in %s", len(problems), checkGomod)
	}

	fmt.Printf("ok: %d instrumentations and %d detector modules match %s\n",
		len(instrument.Catalog()), len(detector.Modules()), checkGomod)
	return nil
}
