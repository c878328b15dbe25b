package instrument

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConfigType is returned by adapter constructors when the opaque
	// options payload is not the adapter's config type.
	ErrConfigType = errors.New("unexpected instrumentation config type")
)

// Instrumentation is the contract every catalog adapter satisfies. The
// selection layer treats instances as opaque beyond their identity;
// telemetry wiring happens through adapter-specific accessors.
type Instrumentation interface {
	// Name returns the catalog identifier, e.g. "autotel/instrumentation-http".
	Name() string
}

// Starter is implemented by push-style instrumentations (host, runtime)
// that sample on their own schedule once started. Middleware-style
// adapters do not implement it; their accessors are invoked per use.
type Starter interface {
	Instrumentation
	Start(ctx context.Context) error
}

// Registration ties a catalog identifier to its constructor and to the Go
// module that backs it. Module is checked against go.mod by the manifest
// verifier so the catalog and the dependency list cannot drift apart.
type Registration struct {
	Name   string
	Module string
	New    func(opts any) (Instrumentation, error)
}

// Catalog returns the full adapter catalog in its fixed order, alphabetical
// by short name. The returned slice is freshly allocated; callers may
// filter it freely.
func Catalog() []Registration {
	return []Registration{
		awssdkRegistration(),
		echoRegistration(),
		grpcRegistration(),
		hostRegistration(),
		httpRegistration(),
		httptraceRegistration(),
		mongoRegistration(),
		runtimeRegistration(),
		saramaRegistration(),
	}
}

// coerce accepts nil, *T, or T as an opaque options payload and returns the
// adapter config, defaulting on nil. Any other type reports ErrConfigType.
func coerce[T any](opts any) (*T, error) {
	switch c := opts.(type) {
	case nil:
		return new(T), nil
	case *T:
		if c == nil {
			return new(T), nil
		}
		return c, nil
	case T:
		return &c, nil
	}
	return nil, fmt.Errorf("%w: want %T, got %T", ErrConfigType, new(T), opts)
}
