// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package synclib_test

import (
	"testing"

	cc "github.com/clkwork/cdcsim"
	"github.com/clkwork/cdcsim/synclib"
)

type crossHarness struct {
	c     *cc.Circuit
	in    int64
	en    bool
	lanes []cc.Level
}

func newCrossHarness(t *testing.T, w int, doInit bool) *crossHarness {
	t.Helper()
	reg := synclib.NewRegistry()
	fn, err := reg.ClockCrossingReg(w, doInit)
	if err != nil {
		t.Fatal(err)
	}
	if fn(nil).Spec().Name != "ClockCrossingReg_w2" {
		t.Fatalf("unexpected name %q", fn(nil).Spec().Name)
	}

	h := &crossHarness{lanes: make([]cc.Level, w)}
	parts := cc.Parts{
		cc.InputN(w, func() int64 { return h.in })(cc.W{"out[0..1]": "in[0..1]"}),
		cc.Input(func() bool { return h.en })(cc.W{"out": "e"}),
		fn(cc.W{"in[0..1]": "in[0..1]", "en": "e", "out[0..1]": "out[0..1]"}),
	}
	for i := 0; i < w; i++ {
		n := i
		parts = append(parts, cc.Output(func(l cc.Level) { h.lanes[n] = l })(cc.W{"in": cc.BusPinName("out", i)}))
	}

	c, err := cc.NewCircuit(0, testTPC, parts)
	if err != nil {
		t.Fatal(err)
	}
	h.c = c
	return h
}

func (h *crossHarness) value(t *testing.T) int64 {
	t.Helper()
	var v int64
	for i, l := range h.lanes {
		if l == cc.Undef {
			t.Fatalf("lane %d is undefined", i)
		}
		if l == cc.High {
			v |= 1 << uint(i)
		}
	}
	return v
}

func TestClockCrossingReg_hold(t *testing.T) {
	h := newCrossHarness(t, 2, false)
	defer h.c.Dispose()

	// enable deasserted: output never leaves its power-up state
	h.in = 0b11
	for i := 0; i < 4; i++ {
		h.c.TickTock()
		for n, l := range h.lanes {
			if l != cc.Undef {
				t.Fatalf("lane %d changed with enable deasserted: %s", n, l)
			}
		}
	}

	// one enabled edge captures the input; the value then holds
	h.en = true
	h.c.TickTock()
	h.c.TickTock()
	if v := h.value(t); v != 0b11 {
		t.Fatalf("expected 0b11 after enabled edge, got %#b", v)
	}

	h.en = false
	h.in = 0b01
	for i := 0; i < 4; i++ {
		h.c.TickTock()
		if v := h.value(t); v != 0b11 {
			t.Fatalf("expected held 0b11, got %#b", v)
		}
	}

	h.en = true
	h.c.TickTock()
	h.c.TickTock()
	if v := h.value(t); v != 0b01 {
		t.Fatalf("expected 0b01 after next enabled edge, got %#b", v)
	}
}

func TestClockCrossingReg_doInit(t *testing.T) {
	h := newCrossHarness(t, 2, true)
	defer h.c.Dispose()

	// deterministically zero from power-up, before any enabled edge
	h.in = 0b11
	h.c.TickTock()
	if v := h.value(t); v != 0 {
		t.Fatalf("expected 0 after reset, got %#b", v)
	}
}

func TestClockCrossingReg_params(t *testing.T) {
	reg := synclib.NewRegistry()
	if _, err := reg.ClockCrossingReg(0, false); err == nil {
		t.Fatal("expected error for width 0")
	}

	// doInit is part of the parameter tuple even though it is not part
	// of the name
	fn1, err := reg.ClockCrossingReg(2, false)
	if err != nil {
		t.Fatal(err)
	}
	fn2, err := reg.ClockCrossingReg(2, true)
	if err != nil {
		t.Fatal(err)
	}
	if fn1(nil).Spec() == fn2(nil).Spec() {
		t.Fatal("doInit variants must not share a module")
	}
	if fn1(nil).Spec().Name != fn2(nil).Spec().Name {
		t.Fatal("doInit variants share the same generated name")
	}

	fn3, err := reg.ClockCrossingReg(2, false)
	if err != nil {
		t.Fatal(err)
	}
	if fn1(nil).Spec() != fn3(nil).Spec() {
		t.Fatal("identical parameters must reuse the generated module")
	}
}
