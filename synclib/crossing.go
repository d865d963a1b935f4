// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package synclib

import (
	"fmt"

	"github.com/clkwork/cdcsim"
	"github.com/pkg/errors"
)

// ClockCrossingReg returns a generator for a w-bit register that latches
// its input at rising edges where en is High and holds its value
// otherwise. It provides no metastability hardening: the input must
// already be stable relative to this clock domain, e.g. because it
// passed through a synchronizer shift register first.
//
//	Inputs: in[w], en
//	Outputs: out[w]
//
// With doInit the register's value is deterministically 0 from
// power-up, modeling its state immediately following reset; without it
// the value is Undef until the first enabled edge.
func (r *Registry) ClockCrossingReg(w int, doInit bool) (cdcsim.NewPartFn, error) {
	if w < 1 {
		return nil, errors.Errorf("ClockCrossingReg: width must be at least 1, got %d", w)
	}
	name := fmt.Sprintf("ClockCrossingReg_w%d", w)
	// doInit is not part of the naming contract but is part of the
	// parameter tuple, so it is folded into the dedup key.
	key := name
	if doInit {
		key += "#init"
	}
	return r.memoize(key, name, func() (cdcsim.NewPartFn, error) {
		return (&cdcsim.PartSpec{
			Name:    name,
			Inputs:  append(cdcsim.ExpandBus(fmt.Sprintf("in[%d]", w)), pEn),
			Outputs: cdcsim.ExpandBus(fmt.Sprintf("out[%d]", w)),
			Mount: func(s *cdcsim.Socket) []cdcsim.Component {
				in, out := s.Bus(pIn, w), s.Bus(pOut, w)
				en := s.Pin(pEn)
				cur := make([]cdcsim.Level, w)
				if doInit {
					for i := range cur {
						cur[i] = cdcsim.Low
					}
				}
				return []cdcsim.Component{
					func(c *cdcsim.Circuit) {
						if c.AtTick() && c.Get(en) == cdcsim.High {
							for i := range cur {
								cur[i] = c.Get(in[i])
							}
						}
						for i := range cur {
							c.Set(out[i], cur[i])
						}
					}}
			}}).NewPart, nil
	})
}
