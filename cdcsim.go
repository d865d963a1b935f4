// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set states.
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name: "Not",
//		Inputs: []string{"in"},
//		Outputs: []string{"out"},
//		Mount: func(s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func(c *Circuit) { c.Set(out, c.Get(in).Not()) },
//			}
//		}}
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
// Custom parts are implemented by creating a PartSpec and obtaining
// Part values from its NewPart method:
//
//	var notGate = notSpec.NewPart
//
// which can then be used when building chips:
//
//	c, _ := Chip("dummy", In{"a, b"}, Out{"c, d"}, Parts{
//		notGate(W{"in": "a", "out": "c"}),
//		notGate(W{"in": "b", "out": "d"}),
//	})
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use ExpandBus to expand a declaration like "bus[2]" to
	// []string{"bus[0]", "bus[1]"}.
	Inputs []string
	// Output pin names. Must be distinct pin names.
	Outputs []string
	// Pinout maps the input and output pin names (public interface) of a
	// part to internal (private) names. If nil, the Inputs and Outputs
	// values will be used and mapped one to one.
	// In a MountFn, only private pin names must be used when calling the
	// Socket methods.
	// Most custom part implementations should ignore this field and
	// leave it nil.
	Pinout map[string]string

	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart wraps p together with the given wiring into a Part. Bus
// ranges in w ("in[0..3]") are expanded. NewPart panics on malformed
// wiring maps; pin names are checked against the part interface later,
// by Chip.
func (p *PartSpec) NewPart(w W) Part {
	ex, err := w.expand()
	if err != nil {
		panic(err)
	}
	if p.Pinout == nil {
		p.Pinout = make(map[string]string)
		for _, i := range p.Inputs {
			p.Pinout[i] = i
		}
		for _, o := range p.Outputs {
			p.Pinout[o] = o
		}
	}
	return Part{p, ex}
}

// A NewPartFn is a function that takes a wiring map and returns a new
// Part. See W for the wiring syntax.
type NewPartFn func(w W) Part

// A Part wraps a part specification together with its connections
// within a host chip.
type Part struct {
	*PartSpec
	conns map[string][]string
}

// Spec returns the part's specification.
func (p Part) Spec() *PartSpec { return p.PartSpec }

// wires returns the expanded wiring map: part pin name to the names of
// the container pins it connects to.
func (p Part) wires() map[string][]string { return p.conns }

// An In is a list of input pin declarations for a chip. A declaration
// is either a plain pin name or a bus declaration like "sel[4]".
type In []string

// An Out is a list of output pin declarations for a chip.
type Out []string

// Parts is a convenience wrapper for a list of parts.
type Parts []Part

// Circuit is a runnable circuit simulation.
type Circuit struct {
	s0    []Level // wire states frame #0
	s1    []Level // wire states frame #1
	cs    []Component
	count int  // wire count
	tpc   uint // ticks per clock cycle
	tick  uint

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the
// Circuit each step of the simulation. If less or equal to 0, the value
// of GOMAXPROCS will be used.
//
// stepsPerCycle indicates how many simulation steps to run per clock
// cycle (the Clk signal, not wall clock). It is rounded up to a power
// of two, with a minimum of 2. The exact value to use depends on the
// depth of combinational paths between clocked parts.
//
// All wires start out Undef; parts that need a defined power-up state
// must establish it themselves.
//
// Callers must make sure to call Dispose() once the circuit is no
// longer needed in order to release allocated resources.
func NewCircuit(workers int, stepsPerCycle uint, parts Parts) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	if stepsPerCycle < 2 {
		stepsPerCycle = 2
	}
	stepsPerCycle--
	stepsPerCycle |= stepsPerCycle >> 1
	stepsPerCycle |= stepsPerCycle >> 2
	stepsPerCycle |= stepsPerCycle >> 4
	stepsPerCycle |= stepsPerCycle >> 8
	stepsPerCycle |= stepsPerCycle >> 16
	stepsPerCycle |= stepsPerCycle >> 32
	stepsPerCycle++

	// new circuit with room for constant value pins.
	cc := &Circuit{count: cstCount, tpc: stepsPerCycle}
	wrap, err := Chip("CIRCUIT", nil, nil, parts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chip wrapper")
	}
	ups := wrap(nil).Mount(newSocket(cc))
	ups = append(ups, updClock)
	cc.cs = ups
	cc.s0 = make([]Level, cc.count)
	cc.s1 = make([]Level, cc.count)
	// init constant pins; everything else stays Undef.
	cc.s0[cstClk] = High
	cc.s0[cstFalse] = Low
	cc.s0[cstTrue] = High
	cc.s1[cstFalse] = Low
	cc.s1[cstTrue] = High

	// workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers == 0 {
		workers = 1
	}
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		cc.wc = append(cc.wc, wc)
		go worker(cc, ups[:size], wc)
		ups = ups[size:]
	}

	return cc, nil
}

func updClock(c *Circuit) {
	if c.s0[cstFalse] != Low || c.s0[cstTrue] != High {
		panic("true or false constants have been overwritten")
	}

	// update clock signal
	tick := c.tick + 1
	if tick&(c.tpc-1) == 0 {
		c.s1[cstClk] = High
	} else if tick&(c.tpc/2-1) == 0 {
		c.s1[cstClk] = Low
	} else {
		c.s1[cstClk] = c.s0[cstClk]
	}
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPin allocates a pin and returns its number.
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
func (c *Circuit) Steps() uint {
	return c.tick
}

// SPC returns the stepsPerCycle value.
func (c *Circuit) SPC() uint {
	return c.tpc
}

// AtTick returns true if the current step is at the beginning of a
// clock cycle (rising edge of Clk).
func (c *Circuit) AtTick() bool {
	return c.Steps()&(c.SPC()-1) == 0
}

// AtTock returns true if the current step is at the beginning of the
// second half of a clock cycle (falling edge of Clk).
func (c *Circuit) AtTock() bool {
	return (c.Steps()+c.SPC()/2)&(c.SPC()-1) == 0
}

// Get returns the state of pin n. The value of n should be obtained in
// a MountFn by a call to one of the Socket methods.
func (c *Circuit) Get(n int) Level {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
func (c *Circuit) Set(n int, s Level) {
	c.s1[n] = s
}

// Step advances the simulation by one step.
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}

	c.wg.Wait()
	c.tick++
	c.s0, c.s1 = c.s1, c.s0
}

// Tick runs the simulation until the beginning of the next half clock
// cycle.
func (c *Circuit) Tick() {
	for c.Get(cstClk) == High {
		c.Step()
	}
}

// Tock runs the simulation until the beginning of the next clock cycle.
// Once Tock returns, the output of clocked components should have
// stabilized.
func (c *Circuit) Tock() {
	for c.Get(cstClk) != High {
		c.Step()
	}
}

// TickTock runs the simulation for a whole clock cycle.
func (c *Circuit) TickTock() {
	c.Tick()
	c.Tock()
}

// Size returns the component count in the circuit.
func (c *Circuit) Size() int { return len(c.cs) }
