// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package synclib

import (
	"fmt"

	"github.com/clkwork/cdcsim"
	"github.com/pkg/errors"
)

// shiftRegName returns the generated identity of a width-w
// synchronizer. The init field is the reset value truncated to the low
// w bits (0 for the no-reset kind), so the name alone recovers the full
// parameter tuple.
func shiftRegName(kind ResetKind, w, depth int, init int64) string {
	return fmt.Sprintf("%sSynchronizerShiftReg_w%d_d%d_i%d", kind, w, depth, init)
}

// truncInit keeps only the low w bits of init. Extra high-order bits
// are ignored, never rejected.
func truncInit(init int64, w int) int64 {
	if w < 64 {
		init &= 1<<uint(w) - 1
	}
	return init
}

// NoResetSynchronizerShiftReg returns a generator for a w-bit
// synchronizer of the given depth with no reset wiring. Each output bit
// is the corresponding input bit passed through its own independent
// 1-bit chain; bits of the same bus may resolve metastability at
// different times, so callers must not assume atomicity across the bus.
//
//	Inputs: in[w]
//	Outputs: out[w]
//
// depth == 0 bypasses synchronization entirely: outputs are wired
// combinationally from the inputs. depth == 1 is a configuration error.
func (r *Registry) NoResetSynchronizerShiftReg(w, depth int) (cdcsim.NewPartFn, error) {
	return r.shiftReg(ResetNone, w, depth, 0)
}

// SyncResetSynchronizerShiftReg returns a generator for a w-bit
// synchronizer whose chains load their initial value at the first
// rising edge where rst is sampled High. Bit i of the output takes
// reset value (init >> i) & 1.
//
//	Inputs: in[w], rst
//	Outputs: out[w]
//
// depth == 0 bypasses synchronization (rst is accepted and ignored);
// depth == 1 is a configuration error.
func (r *Registry) SyncResetSynchronizerShiftReg(w, depth int, init int64) (cdcsim.NewPartFn, error) {
	return r.shiftReg(ResetSync, w, depth, init)
}

// AsyncResetSynchronizerShiftReg returns a generator for a w-bit
// synchronizer whose chains are forced to their initial value
// immediately while rst is High, independent of the clock, and released
// at the next rising edge. Bit i of the output takes reset value
// (init >> i) & 1.
//
//	Inputs: in[w], rst
//	Outputs: out[w]
//
// Unlike the no-reset and sync-reset variants, depth == 0 is rejected:
// an async reset path must never be silently bypassed.
func (r *Registry) AsyncResetSynchronizerShiftReg(w, depth int, init int64) (cdcsim.NewPartFn, error) {
	return r.shiftReg(ResetAsync, w, depth, init)
}

// ResetSynchronizerShiftReg returns a generator for a w-bit
// synchronizer whose reset discipline is inferred from the surrounding
// context. The context is resolved to a concrete sync or async
// discipline first and the generated modules carry the resolved
// discipline's identity, so a generated name always maps to exactly one
// structure. depth == 0 is rejected regardless of how the context
// resolves.
func (r *Registry) ResetSynchronizerShiftReg(ctx ResetContext, w, depth int, init int64) (cdcsim.NewPartFn, error) {
	kind, err := ctx.resolve()
	if err != nil {
		return nil, err
	}
	if depth == 0 {
		return nil, errors.New("inferred reset synchronizer cannot be bypassed with depth 0")
	}
	return r.shiftReg(kind, w, depth, init)
}

func (r *Registry) shiftReg(kind ResetKind, w, depth int, init int64) (cdcsim.NewPartFn, error) {
	if w < 1 {
		return nil, errors.Errorf("%s: width must be at least 1, got %d", kind, w)
	}
	init = truncInit(init, w)

	switch {
	case depth == 0 && (kind == ResetNone || kind == ResetSync):
		return r.passThrough(kind, w, init)
	case depth < 2:
		return nil, errors.Errorf("%s: synchronizer depth %d does not provide a multi-stage metastability guarantee, need at least 2", kind, depth)
	}

	name := shiftRegName(kind, w, depth, init)
	return r.memoize(name, name, func() (cdcsim.NewPartFn, error) {
		ins := cdcsim.In{fmt.Sprintf("in[%d]", w)}
		if kind.resettable() {
			ins = append(ins, pRst)
		}
		parts := make(cdcsim.Parts, w)
		for i := range parts {
			ps, err := r.primitive(kind, depth, init>>uint(i)&1 == 1)
			if err != nil {
				return nil, err
			}
			conn := cdcsim.W{
				pIn:  cdcsim.BusPinName(pIn, i),
				pOut: cdcsim.BusPinName(pOut, i),
			}
			if kind.resettable() {
				conn[pRst] = pRst
			}
			parts[i] = ps.NewPart(conn)
		}
		return cdcsim.Chip(name, ins, cdcsim.Out{fmt.Sprintf("out[%d]", w)}, parts)
	})
}

// passThrough builds the depth-0 bypass: outputs wired combinationally
// from the inputs, no registers. The caller is responsible for the
// input already being synchronous to this clock domain.
func (r *Registry) passThrough(kind ResetKind, w int, init int64) (cdcsim.NewPartFn, error) {
	name := shiftRegName(kind, w, 0, init)
	return r.memoize(name, name, func() (cdcsim.NewPartFn, error) {
		ins := cdcsim.ExpandBus(fmt.Sprintf("in[%d]", w))
		if kind.resettable() {
			ins = append(ins, pRst)
		}
		return (&cdcsim.PartSpec{
			Name:    name,
			Inputs:  ins,
			Outputs: cdcsim.ExpandBus(fmt.Sprintf("out[%d]", w)),
			Mount: func(s *cdcsim.Socket) []cdcsim.Component {
				in, out := s.Bus(pIn, w), s.Bus(pOut, w)
				return []cdcsim.Component{
					func(c *cdcsim.Circuit) {
						for i := range in {
							c.Set(out[i], c.Get(in[i]))
						}
					}}
			}}).NewPart, nil
	})
}
