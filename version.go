package autotel

// Version returns the autotel module version, recorded on telemetry
// emitted by the launcher's own instrumentation scope.
func Version() string {
	return "0.2.0"
}
