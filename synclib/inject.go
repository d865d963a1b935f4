// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package synclib

import (
	"github.com/clkwork/cdcsim"
)

// MetastableInput returns a 1 bit input that models a signal crossing
// in from another clock domain: for settle rising edges after the
// driven value changes, the output is Undef before resolving to the new
// value. With settle == 0 it behaves like a registered input.
//
//	Outputs: out
//
// This is test-harness support: feeding one lane of a multi-bit
// synchronizer through a MetastableInput injects a per-lane resolution
// delay without touching the other lanes.
func MetastableInput(f func() bool, settle int) cdcsim.NewPartFn {
	return (&cdcsim.PartSpec{
		Name:    "MetastableInput",
		Inputs:  nil,
		Outputs: []string{pOut},
		Mount: func(s *cdcsim.Socket) []cdcsim.Component {
			out := s.Pin(pOut)
			var (
				started bool
				last    bool
				wait    int
				cur     cdcsim.Level
			)
			return []cdcsim.Component{
				func(c *cdcsim.Circuit) {
					if c.AtTick() {
						v := f()
						switch {
						case !started:
							started = true
							last = v
						case v != last:
							last = v
							wait = settle
						}
						if wait > 0 {
							cur = cdcsim.Undef
							wait--
						} else {
							cur = cdcsim.LevelOf(last)
						}
					}
					c.Set(out, cur)
				}}
		}}).NewPart
}
