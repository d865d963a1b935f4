// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package synclib_test

import (
	"testing"

	cc "github.com/clkwork/cdcsim"
	"github.com/clkwork/cdcsim/synclib"
)

const testTPC = 8

// chain1 builds a circuit around a single 1-bit chain. The returned
// setters drive the chain's input and reset; the Level pointer tracks
// the chain output after every step.
func chain1(t *testing.T, kind synclib.ResetKind, depth int, init bool) (c *cc.Circuit, in, rst *bool, out *cc.Level) {
	t.Helper()
	ps, err := synclib.PrimitiveShiftReg(kind, depth, init)
	if err != nil {
		t.Fatal(err)
	}

	var inV, rstV bool
	var outV cc.Level

	conns := cc.W{"in": "i", "out": "o"}
	parts := cc.Parts{
		cc.Input(func() bool { return inV })(cc.W{"out": "i"}),
		cc.Output(func(l cc.Level) { outV = l })(cc.W{"in": "o"}),
	}
	if kind == synclib.ResetSync || kind == synclib.ResetAsync {
		conns["rst"] = "r"
		parts = append(parts, cc.Input(func() bool { return rstV })(cc.W{"out": "r"}))
	}
	parts = append(parts, ps.NewPart(conns))

	c, err = cc.NewCircuit(0, testTPC, parts)
	if err != nil {
		t.Fatal(err)
	}
	return c, &inV, &rstV, &outV
}

func TestPrimitiveShiftReg_delay(t *testing.T) {
	for _, depth := range []int{2, 3, 5} {
		c, in, _, out := chain1(t, synclib.ResetNone, depth, false)

		*in = true
		// the input part adds one cycle before the first stage samples;
		// the chain itself delays by exactly depth edges.
		for i := 0; i < depth; i++ {
			c.TickTock()
			if *out != cc.Undef {
				t.Fatalf("depth %d: output defined after %d cycles: %s", depth, i+1, *out)
			}
		}
		c.TickTock()
		if *out != cc.High {
			t.Fatalf("depth %d: expected High after %d cycles, got %s", depth, depth+1, *out)
		}

		*in = false
		for i := 0; i < depth; i++ {
			c.TickTock()
			if *out != cc.High {
				t.Fatalf("depth %d: output changed early after %d cycles: %s", depth, i+1, *out)
			}
		}
		c.TickTock()
		if *out != cc.Low {
			t.Fatalf("depth %d: expected Low after %d cycles, got %s", depth, depth+1, *out)
		}
		c.Dispose()
	}
}

func TestPrimitiveShiftReg_syncReset(t *testing.T) {
	c, in, rst, out := chain1(t, synclib.ResetSync, 3, true)
	defer c.Dispose()

	*in = false
	*rst = true
	c.TickTock()
	// the first rising edge samples the reset input before the reset
	// value could have been synchronized in: output still undefined.
	if *out != cc.Undef {
		t.Fatalf("expected Undef one cycle after assertion, got %s", *out)
	}
	c.TickTock()
	if *out != cc.High {
		t.Fatalf("expected init at next edge after sampled assertion, got %s", *out)
	}

	*rst = false
	// release is sampled one edge later; then the held Low input takes
	// 3 edges to reach the output.
	for i := 0; i < 3; i++ {
		c.TickTock()
		if *out != cc.High {
			t.Fatalf("output released early after %d cycles: %s", i+1, *out)
		}
	}
	c.TickTock()
	if *out != cc.Low {
		t.Fatalf("expected Low after release and propagation, got %s", *out)
	}
}

func TestPrimitiveShiftReg_asyncReset(t *testing.T) {
	c, in, rst, out := chain1(t, synclib.ResetAsync, 3, true)
	defer c.Dispose()

	*in = false
	*rst = true
	c.TickTock()
	// forced mid-cycle, without waiting for an edge.
	if *out != cc.High {
		t.Fatalf("expected init within the assertion cycle, got %s", *out)
	}

	*rst = false
	for i := 0; i < 3; i++ {
		c.TickTock()
		if *out != cc.High {
			t.Fatalf("output released early after %d cycles: %s", i+1, *out)
		}
	}
	c.TickTock()
	if *out != cc.Low {
		t.Fatalf("expected Low after sync release and propagation, got %s", *out)
	}
}

func TestPrimitiveShiftReg_noReset_powerUp(t *testing.T) {
	c, _, _, out := chain1(t, synclib.ResetNone, 2, false)
	defer c.Dispose()

	c.TickTock()
	if *out != cc.Undef {
		t.Fatalf("no-reset chain must power up undefined, got %s", *out)
	}
}

func TestPrimitiveShiftReg_errors(t *testing.T) {
	if _, err := synclib.PrimitiveShiftReg(synclib.ResetNone, 0, false); err == nil {
		t.Fatal("expected error for depth 0")
	}
	if _, err := synclib.PrimitiveShiftReg(synclib.ResetSync, -1, false); err == nil {
		t.Fatal("expected error for negative depth")
	}
	if _, err := synclib.PrimitiveShiftReg(synclib.ResetInferred, 2, false); err == nil {
		t.Fatal("expected error for unresolved inferred reset")
	}
}

func TestPrimitiveShiftReg_naming(t *testing.T) {
	data := []struct {
		kind  synclib.ResetKind
		depth int
		init  bool
		name  string
	}{
		{synclib.ResetNone, 3, false, "NoResetSynchronizerPrimitiveShiftReg_d3"},
		{synclib.ResetNone, 3, true, "NoResetSynchronizerPrimitiveShiftReg_d3"},
		{synclib.ResetSync, 2, true, "SyncResetSynchronizerPrimitiveShiftReg_d2_i1"},
		{synclib.ResetSync, 2, false, "SyncResetSynchronizerPrimitiveShiftReg_d2_i0"},
		{synclib.ResetAsync, 4, true, "AsyncResetSynchronizerPrimitiveShiftReg_d4_i1"},
	}
	for _, d := range data {
		ps, err := synclib.PrimitiveShiftReg(d.kind, d.depth, d.init)
		if err != nil {
			t.Fatal(err)
		}
		if ps.Name != d.name {
			t.Errorf("expected %q, got %q", d.name, ps.Name)
		}
	}
}
