package envflag

import (
	"reflect"
	"testing"
)

// lookupMap adapts a plain map to the LookupFunc signature.
func lookupMap(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestEnvName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		suffix string
		ok     bool
	}{
		{
			name:   "single word",
			input:  "autotel/instrumentation-fs",
			suffix: "FS",
			ok:     true,
		},
		{
			name:   "dashed name",
			input:  "autotel/instrumentation-aws-sdk",
			suffix: "AWS_SDK",
			ok:     true,
		},
		{
			name:   "http",
			input:  "autotel/instrumentation-http",
			suffix: "HTTP",
			ok:     true,
		},
		{
			name:  "missing marker",
			input: "autotel/http",
			ok:    false,
		},
		{
			name:  "wrong namespace",
			input: "otherscope/instrumentation-http",
			ok:    false,
		},
		{
			name:  "bare prefix",
			input: "autotel/instrumentation-",
			ok:    false,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suffix, ok := EnvName(tt.input)
			if ok != tt.ok {
				t.Fatalf("EnvName(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if suffix != tt.suffix {
				t.Errorf("EnvName(%q) = %q, want %q", tt.input, suffix, tt.suffix)
			}
		})
	}
}

func TestEnvVar(t *testing.T) {
	key, ok := EnvVar("autotel/instrumentation-aws-sdk")
	if !ok {
		t.Fatal("EnvVar returned ok=false for a catalog-shaped name")
	}
	if want := "OTEL_INSTRUMENTATION_AWS_SDK_ENABLED"; key != want {
		t.Errorf("EnvVar = %q, want %q", key, want)
	}

	if _, ok := EnvVar("not-an-instrumentation"); ok {
		t.Error("EnvVar returned ok=true for a foreign name")
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		input   string
		enabled bool
		ok      bool
	}{
		{
			name:    "explicit true",
			env:     map[string]string{"OTEL_INSTRUMENTATION_HTTP_ENABLED": "true"},
			input:   "autotel/instrumentation-http",
			enabled: true,
			ok:      true,
		},
		{
			name:    "explicit false",
			env:     map[string]string{"OTEL_INSTRUMENTATION_HTTP_ENABLED": "false"},
			input:   "autotel/instrumentation-http",
			enabled: false,
			ok:      true,
		},
		{
			name:  "unset",
			env:   map[string]string{},
			input: "autotel/instrumentation-http",
			ok:    false,
		},
		{
			name:  "uppercase value is ignored",
			env:   map[string]string{"OTEL_INSTRUMENTATION_HTTP_ENABLED": "TRUE"},
			input: "autotel/instrumentation-http",
			ok:    false,
		},
		{
			name:  "padded value is ignored",
			env:   map[string]string{"OTEL_INSTRUMENTATION_HTTP_ENABLED": " true"},
			input: "autotel/instrumentation-http",
			ok:    false,
		},
		{
			name:  "set but empty",
			env:   map[string]string{"OTEL_INSTRUMENTATION_HTTP_ENABLED": ""},
			input: "autotel/instrumentation-http",
			ok:    false,
		},
		{
			name:  "garbage value",
			env:   map[string]string{"OTEL_INSTRUMENTATION_HTTP_ENABLED": "yes"},
			input: "autotel/instrumentation-http",
			ok:    false,
		},
		{
			name:    "dashed suffix",
			env:     map[string]string{"OTEL_INSTRUMENTATION_AWS_SDK_ENABLED": "false"},
			input:   "autotel/instrumentation-aws-sdk",
			enabled: false,
			ok:      true,
		},
		{
			name:  "unnormalizable name never consults env",
			env:   map[string]string{"OTEL_INSTRUMENTATION_HTTP_ENABLED": "true"},
			input: "not-an-instrumentation",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled, ok := Enabled(lookupMap(tt.env), tt.input)
			if ok != tt.ok {
				t.Fatalf("Enabled ok = %v, want %v", ok, tt.ok)
			}
			if enabled != tt.enabled {
				t.Errorf("Enabled = %v, want %v", enabled, tt.enabled)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain list",
			input: "env,host,os",
			want:  []string{"env", "host", "os"},
		},
		{
			name:  "surrounding whitespace",
			input: " env , host ",
			want:  []string{"env", "host"},
		},
		{
			name:  "empty tokens dropped",
			input: "env,,host,",
			want:  []string{"env", "host"},
		},
		{
			name:  "single token",
			input: "gcp",
			want:  []string{"gcp"},
		},
		{
			name:  "only separators",
			input: ", ,",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	env := map[string]string{
		"SET":   "a,b",
		"BLANK": "   ",
		"EMPTY": "",
	}

	if tokens, ok := List(lookupMap(env), "SET"); !ok || !reflect.DeepEqual(tokens, []string{"a", "b"}) {
		t.Errorf("List(SET) = %v, %v; want [a b], true", tokens, ok)
	}
	if _, ok := List(lookupMap(env), "BLANK"); ok {
		t.Error("List(BLANK) ok = true, want false")
	}
	if _, ok := List(lookupMap(env), "EMPTY"); ok {
		t.Error("List(EMPTY) ok = true, want false")
	}
	if _, ok := List(lookupMap(env), "MISSING"); ok {
		t.Error("List(MISSING) ok = true, want false")
	}
}
