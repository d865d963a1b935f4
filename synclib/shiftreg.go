// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package synclib

import (
	"strconv"

	"github.com/clkwork/cdcsim"
	"github.com/pkg/errors"
)

// common pin names
const (
	pIn  = "in"
	pOut = "out"
	pRst = "rst"
	pEn  = "en"
)

// primitiveName returns the generated identity of a 1-bit chain. The
// init bit is part of the name only for resettable kinds; back-end
// flows pattern-match these names to swap in vendor metastability
// cells, so identical parameter tuples must map to identical names.
func primitiveName(kind ResetKind, depth int, init bool) string {
	n := kind.String() + "SynchronizerPrimitiveShiftReg_d" + strconv.Itoa(depth)
	if kind.resettable() {
		if init {
			n += "_i1"
		} else {
			n += "_i0"
		}
	}
	return n
}

// PrimitiveShiftReg builds the specification of a one-bit chain of
// depth storage cells used to harden a signal crossing into this clock
// domain. The input is sampled into the cell farthest from the output
// at each rising edge and shifts one cell per edge, so the output is
// the input delayed by depth edges. Each instance mounts its own cell
// storage; no two chains ever share state.
//
//	Inputs: in (plus rst for SyncReset and AsyncReset)
//	Outputs: out
//
// kind must be a concrete discipline: inferred requests are resolved by
// the registry before reaching this level. depth must be at least 1;
// the width-level constructors enforce the stricter depth >= 2 rule.
func PrimitiveShiftReg(kind ResetKind, depth int, init bool) (*cdcsim.PartSpec, error) {
	if depth < 1 {
		return nil, errors.Errorf("%s: depth must be at least 1, got %d", kind, depth)
	}
	if kind == ResetInferred {
		return nil, errors.New("inferred reset must be resolved to sync or async before generation")
	}
	if kind != ResetNone && !kind.resettable() {
		return nil, errors.Errorf("invalid reset kind %d", kind)
	}

	ins := []string{pIn}
	if kind.resettable() {
		ins = []string{pIn, pRst}
	}
	initLvl := cdcsim.LevelOf(init)

	return &cdcsim.PartSpec{
		Name:    primitiveName(kind, depth, init),
		Inputs:  ins,
		Outputs: []string{pOut},
		Mount: func(s *cdcsim.Socket) []cdcsim.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			rst := -1
			if kind.resettable() {
				rst = s.Pin(pRst)
			}
			// cell 0 drives the output, cell depth-1 samples the input.
			// Cells power up Undef.
			cells := make([]cdcsim.Level, depth)

			shift := func(c *cdcsim.Circuit) {
				copy(cells, cells[1:])
				cells[depth-1] = c.Get(in)
			}
			force := func() {
				for i := range cells {
					cells[i] = initLvl
				}
			}

			return []cdcsim.Component{
				func(c *cdcsim.Circuit) {
					switch kind {
					case ResetAsync:
						// level-sensitive: forced on every step while
						// asserted, released only at the next edge.
						if c.Get(rst) == cdcsim.High {
							force()
							c.Set(out, cells[0])
							return
						}
						if c.AtTick() {
							shift(c)
						}
					case ResetSync:
						if c.AtTick() {
							if c.Get(rst) == cdcsim.High {
								force()
							} else {
								shift(c)
							}
						}
					default:
						if c.AtTick() {
							shift(c)
						}
					}
					c.Set(out, cells[0])
				}}
		}}, nil
}
