// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

import (
	"strconv"
)

// Input returns a 1 bit input driven by f.
//
//	Outputs: out
func Input(f func() bool) NewPartFn {
	p := &PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: []string{"out"},
		Mount: func(s *Socket) []Component {
			out := s.Pin("out")
			return []Component{
				func(c *Circuit) { c.Set(out, LevelOf(f())) },
			}
		}}
	return p.NewPart
}

// Output returns a 1 bit probe. f is called with the pin's Level on
// every simulation step, so callers can observe Undef states.
//
//	Inputs: in
func Output(f func(Level)) NewPartFn {
	p := &PartSpec{
		Name:    "Output",
		Inputs:  []string{"in"},
		Outputs: nil,
		Mount: func(s *Socket) []Component {
			in := s.Pin("in")
			return []Component{
				func(c *Circuit) { f(c.Get(in)) },
			}
		}}
	return p.NewPart
}

// InputN creates an input bus of the given bits size. Bit i of f's
// result drives pin out[i].
func InputN(bits int, f func() int64) NewPartFn {
	bs := strconv.Itoa(bits)
	return (&PartSpec{
		Name:    "Input" + bs,
		Inputs:  nil,
		Outputs: ExpandBus("out[" + bs + "]"),
		Mount: func(s *Socket) []Component {
			pins := s.Bus("out", bits)
			return []Component{
				func(c *Circuit) {
					v := f()
					for i, p := range pins {
						c.Set(p, LevelOf(v>>uint(i)&1 == 1))
					}
				}}
		}}).NewPart
}

// OutputN creates an output bus probe of the given bits size. Undef
// bits read as 0 in the reported value. Use Output on individual pins
// when Undef must be distinguished from Low.
func OutputN(bits int, f func(int64)) NewPartFn {
	bs := strconv.Itoa(bits)
	return (&PartSpec{
		Name:    "Output" + bs,
		Inputs:  ExpandBus("in[" + bs + "]"),
		Outputs: nil,
		Mount: func(s *Socket) []Component {
			pins := s.Bus("in", bits)
			return []Component{
				func(c *Circuit) {
					var v int64
					for i, p := range pins {
						if c.Get(p) == High {
							v |= 1 << uint(i)
						}
					}
					f(v)
				}}
		}}).NewPart
}
