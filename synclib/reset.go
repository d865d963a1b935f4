// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package synclib

import "github.com/pkg/errors"

// A ResetKind selects how, if at all, a synchronizer chain's state is
// forced to its initial value independently of the sampled input.
type ResetKind uint8

const (
	// ResetNone: no reset wiring at all. Chain cells power up Undef and
	// only take defined values once the input has propagated through.
	ResetNone ResetKind = iota
	// ResetInferred: the reset timing is not declared by the part itself
	// but resolved from the surrounding context before generation. An
	// inferred request always resolves to ResetSync or ResetAsync; no
	// part is ever generated with an unresolved kind.
	ResetInferred
	// ResetSync: the reset input is sampled at the rising clock edge;
	// while sampled High, every cell loads the initial value at that
	// edge.
	ResetSync
	// ResetAsync: reset assertion forces every cell to the initial value
	// immediately, independent of the clock. De-assertion is only
	// observed at the next rising edge.
	ResetAsync
)

func (k ResetKind) String() string {
	switch k {
	case ResetNone:
		return "NoReset"
	case ResetInferred:
		return "InferredReset"
	case ResetSync:
		return "SyncReset"
	case ResetAsync:
		return "AsyncReset"
	}
	return "InvalidReset"
}

// resettable reports whether parts of this kind carry a reset pin.
func (k ResetKind) resettable() bool {
	return k == ResetSync || k == ResetAsync
}

// A ResetContext carries the ambient reset discipline of the
// surrounding design, used to resolve inferred-reset requests. Callers
// collect it first and pass it to the inferred constructors, which
// resolve it to a concrete kind before generating anything.
type ResetContext struct {
	// Kind must be ResetSync or ResetAsync.
	Kind ResetKind
}

// resolve returns the concrete reset kind for the context.
func (ctx ResetContext) resolve() (ResetKind, error) {
	if !ctx.Kind.resettable() {
		return ctx.Kind, errors.Errorf("reset context must resolve to a concrete sync or async reset, got %s", ctx.Kind)
	}
	return ctx.Kind, nil
}
