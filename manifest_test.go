package autotel

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mod/modfile"

	"github.com/fyrsmithlabs/autotel/detector"
	"github.com/fyrsmithlabs/autotel/instrument"
)

// The catalogs and go.mod must describe the same set of contrib modules:
// every adapter and cloud detector is backed by a required module, and
// every required instrumentation/detector module has a catalog entry.
// cmd/autotel-verify runs the same check against arbitrary checkouts.
func TestCatalogsMatchGoMod(t *testing.T) {
	data, err := os.ReadFile("go.mod")
	require.NoError(t, err)
	mod, err := modfile.Parse("go.mod", data, nil)
	require.NoError(t, err)

	required := make(map[string]bool)
	for _, r := range mod.Require {
		if !r.Indirect {
			required[r.Mod.Path] = true
		}
	}

	backing := make(map[string]bool)
	for _, reg := range instrument.Catalog() {
		backing[reg.Module] = true
		assert.True(t, required[reg.Module],
			"catalog entry %s needs module %s in go.mod", reg.Name, reg.Module)
	}
	for _, module := range detector.Modules() {
		backing[module] = true
		assert.True(t, required[module],
			"detector catalog needs module %s in go.mod", module)
	}

	for path := range required {
		if strings.HasPrefix(path, "go.opentelemetry.io/contrib/instrumentation/") ||
			strings.HasPrefix(path, "go.opentelemetry.io/contrib/detectors/") {
			assert.True(t, backing[path], "required module %s has no catalog entry", path)
		}
	}
}
