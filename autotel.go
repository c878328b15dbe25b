package autotel

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/autotel/instrument"
	"github.com/fyrsmithlabs/autotel/internal/envflag"
)

const (
	// EnvEnabledList restricts assembly to the listed short names
	// ("http,grpc"). When unset, the whole catalog is eligible.
	EnvEnabledList = "OTEL_NODE_ENABLED_INSTRUMENTATIONS"

	// EnvDisabledList removes the listed short names from assembly. It is
	// applied after EnvEnabledList.
	EnvDisabledList = "OTEL_NODE_DISABLED_INSTRUMENTATIONS"
)

// Settings configures a single catalog entry.
type Settings struct {
	// Enabled overrides the default-on state when non-nil. Environment
	// switches still outrank it.
	Enabled *bool

	// Options is the adapter-specific payload, e.g. *instrument.HTTPConfig
	// for "autotel/instrumentation-http". nil means adapter defaults; a
	// payload of the wrong type fails that entry's constructor.
	Options any
}

// Config maps catalog identifiers to per-entry settings. Identifiers that
// do not match a catalog entry are reported and otherwise ignored. The map
// is caller-owned and never mutated.
type Config map[string]Settings

// Bool returns a pointer to v, for Settings.Enabled literals.
func Bool(v bool) *bool { return &v }

// options carries the injectable collaborators.
type options struct {
	logger *zap.Logger
	lookup envflag.LookupFunc
}

// Option configures Instrumentations.
type Option func(*options)

// WithLogger sets the sink for assembly diagnostics. The default is the
// process-global zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLookupEnv replaces the environment accessor, primarily for tests.
func WithLookupEnv(lookup envflag.LookupFunc) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger: zap.L(),
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Instrumentations assembles the enabled catalog adapters in catalog
// order.
//
// Every entry starts enabled. Resolution per entry, weakest to strongest:
// the caller's Settings.Enabled, the OTEL_NODE_ENABLED_INSTRUMENTATIONS /
// OTEL_NODE_DISABLED_INSTRUMENTATIONS lists, and finally the per-entry
// OTEL_INSTRUMENTATION_<SUFFIX>_ENABLED switch, which wins in either
// direction. The environment is read on every call.
//
// Nothing here is fatal: unknown config keys, unknown list names and
// failing constructors are reported to the diagnostic sink and skipped,
// and the remaining entries assemble normally.
func Instrumentations(cfg Config, opts ...Option) []instrument.Instrumentation {
	o := newOptions(opts)
	catalog := instrument.Catalog()

	reportUnknownNames(o.logger, catalog, cfg)

	enabledList, enabledListSet := envflag.List(o.lookup, EnvEnabledList)
	disabledList, disabledListSet := envflag.List(o.lookup, EnvDisabledList)
	inEnabled := shortNameSet(o.logger, catalog, enabledList, EnvEnabledList)
	inDisabled := shortNameSet(o.logger, catalog, disabledList, EnvDisabledList)

	instrumentations := make([]instrument.Instrumentation, 0, len(catalog))
	for _, reg := range catalog {
		settings := cfg[reg.Name]

		enabled := true
		if settings.Enabled != nil {
			enabled = *settings.Enabled
		}
		short := strings.TrimPrefix(reg.Name, envflag.Prefix)
		if enabledListSet && !inEnabled[short] {
			enabled = false
		}
		if disabledListSet && inDisabled[short] {
			enabled = false
		}
		if value, ok := envflag.Enabled(o.lookup, reg.Name); ok {
			enabled = value
		}
		if !enabled {
			continue
		}

		inst, err := reg.New(settings.Options)
		if err != nil {
			o.logger.Error(fmt.Sprintf("Could not create instrumentation %s: %s", reg.Name, err))
			continue
		}
		instrumentations = append(instrumentations, inst)
	}
	return instrumentations
}

// reportUnknownNames reports every config key that matches no catalog
// entry. Keys are sorted so diagnostics are deterministic across runs.
func reportUnknownNames(logger *zap.Logger, catalog []instrument.Registration, cfg Config) {
	known := make(map[string]bool, len(catalog))
	for _, reg := range catalog {
		known[reg.Name] = true
	}

	var unknown []string
	for name := range cfg {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		logger.Error(fmt.Sprintf("Provided instrumentation name %q not found", name))
	}
}

// shortNameSet validates list tokens against the catalog's short names and
// returns the valid ones as a set. Unknown names are reported, one
// diagnostic each.
func shortNameSet(logger *zap.Logger, catalog []instrument.Registration, names []string, envVar string) map[string]bool {
	valid := make(map[string]bool, len(catalog))
	for _, reg := range catalog {
		valid[strings.TrimPrefix(reg.Name, envflag.Prefix)] = true
	}

	set := make(map[string]bool, len(names))
	for _, name := range names {
		if !valid[name] {
			logger.Error(fmt.Sprintf(
				"Unknown instrumentation %q specified in the environment variable %s", name, envVar))
			continue
		}
		set[name] = true
	}
	return set
}
