// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package synclib

import (
	"sync"

	"github.com/clkwork/cdcsim"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A Registry generates CDC parts and deduplicates them: repeated
// requests with identical parameters return the same generated
// specification instead of re-emitting a structurally identical copy.
// The memoization table is keyed by the generated name, which encodes
// the full parameter tuple.
//
// A Registry's lifetime is one elaboration run; call Reset between
// independent designs. The zero-configured registry is silent; pass
// WithLogger to record generation and deduplication events.
type Registry struct {
	mu    sync.Mutex
	prims map[string]*cdcsim.PartSpec
	specs map[string]cdcsim.NewPartFn
	log   *zap.Logger
	run   string // generation-run id, attached to log entries
}

// An Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for elaboration events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		prims: make(map[string]*cdcsim.PartSpec),
		specs: make(map[string]cdcsim.NewPartFn),
		log:   zap.NewNop(),
		run:   uuid.NewString(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Reset clears the memoization table and starts a new generation run.
// Parts generated before and after Reset are structurally identical for
// identical parameters but no longer share specifications.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prims = make(map[string]*cdcsim.PartSpec)
	r.specs = make(map[string]cdcsim.NewPartFn)
	r.run = uuid.NewString()
	r.log.Info("registry reset", zap.String("run", r.run))
}

// primitive returns the memoized 1-bit chain spec for the given
// parameters, generating it on first use. Callers must hold r.mu; the
// width-level constructors call it from inside memoize.
func (r *Registry) primitive(kind ResetKind, depth int, init bool) (*cdcsim.PartSpec, error) {
	name := primitiveName(kind, depth, init)
	if ps, ok := r.prims[name]; ok {
		r.log.Debug("deduplicated primitive",
			zap.String("run", r.run), zap.String("name", name))
		return ps, nil
	}
	ps, err := PrimitiveShiftReg(kind, depth, init)
	if err != nil {
		return nil, err
	}
	r.prims[name] = ps
	r.log.Info("generated primitive",
		zap.String("run", r.run),
		zap.String("name", name),
		zap.Stringer("reset", kind),
		zap.Int("depth", depth),
		zap.Bool("init", init))
	return ps, nil
}

// memoize returns the part generator stored under key, calling gen and
// storing its result on first use.
func (r *Registry) memoize(key, name string, gen func() (cdcsim.NewPartFn, error)) (cdcsim.NewPartFn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn, ok := r.specs[key]; ok {
		r.log.Debug("deduplicated module",
			zap.String("run", r.run), zap.String("name", name))
		return fn, nil
	}
	fn, err := gen()
	if err != nil {
		return nil, err
	}
	r.specs[key] = fn
	r.log.Info("generated module",
		zap.String("run", r.run), zap.String("name", name))
	return fn, nil
}
