// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
package hwtest

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/clkwork/cdcsim"
)

// wireAll builds an identity wiring map for the given pin names.
func wireAll(names ...[]string) cdcsim.W {
	w := make(cdcsim.W)
	for _, ns := range names {
		for _, n := range ns {
			w[n] = n
		}
	}
	return w
}

// busDecl compresses a list of expanded pin names back to pin
// declarations suitable for Chip: out[0], out[1], sel becomes
// out[2], sel.
func busDecl(pins []string) []string {
	bus := make(map[string]int)
	var decls []string

	for _, n := range pins {
		if b := strings.IndexRune(n, '['); b >= 0 {
			bn := n[:b]
			idx, err := strconv.Atoi(n[b+1 : strings.IndexRune(n, ']')])
			if err != nil {
				panic(err)
			}
			if bidx, ok := bus[bn]; !ok || bidx < idx {
				bus[bn] = idx
			}
		} else {
			decls = append(decls, n)
		}
	}

	for k, n := range bus {
		decls = append(decls, k+"["+strconv.Itoa(n+1)+"]")
	}
	return decls
}

// ComparePart takes two parts and compares their outputs given the same
// input sequences. Both parts must have the same input/output
// interface. Outputs are compared as Levels, so the parts must also
// agree on when their outputs are still undefined.
func ComparePart(t *testing.T, tpc uint, part1, part2 cdcsim.NewPartFn) {
	t.Helper()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	ps1, ps2 := part1(nil).Spec(), part2(nil).Spec()

	if len(ps1.Inputs) != len(ps2.Inputs) {
		t.Fatal("len(ps1.Inputs) != len(ps2.Inputs)")
	}
	if len(ps1.Outputs) != len(ps2.Outputs) {
		t.Fatal("len(ps1.Outputs) != len(ps2.Outputs)")
	}
	for i := range ps1.Inputs {
		if ps1.Inputs[i] != ps2.Inputs[i] {
			t.Fatalf("ps1.Inputs[%d] = %q != ps2.Inputs[%d] = %q", i, ps1.Inputs[i], i, ps2.Inputs[i])
		}
	}
	for i := range ps1.Outputs {
		if ps1.Outputs[i] != ps2.Outputs[i] {
			t.Fatalf("ps1.Outputs[%d] = %q != ps2.Outputs[%d] = %q", i, ps1.Outputs[i], i, ps2.Outputs[i])
		}
	}

	inputs := make([]bool, len(ps1.Inputs))
	outputs := make([][2]cdcsim.Level, len(ps1.Outputs))

	conns := wireAll(ps1.Inputs, ps1.Outputs)

	// build two wrappers with their own set of output probes
	parts1 := cdcsim.Parts{part1(conns)}
	for i, o := range ps1.Outputs {
		n := i
		parts1 = append(parts1, cdcsim.Output(func(l cdcsim.Level) { outputs[n][0] = l })(cdcsim.W{"in": o}))
	}
	parts2 := cdcsim.Parts{part2(conns)}
	for i, o := range ps2.Outputs {
		n := i
		parts2 = append(parts2, cdcsim.Output(func(l cdcsim.Level) { outputs[n][1] = l })(cdcsim.W{"in": o}))
	}
	w1, err := cdcsim.Chip("wrapper1", busDecl(ps1.Inputs), nil, parts1)
	if err != nil {
		t.Fatal(err)
	}
	w2, err := cdcsim.Chip("wrapper2", busDecl(ps2.Inputs), nil, parts2)
	if err != nil {
		t.Fatal(err)
	}

	var parts cdcsim.Parts
	for i, n := range ps1.Inputs {
		k := i
		parts = append(parts, cdcsim.Input(func() bool { return inputs[k] })(cdcsim.W{"out": n}))
	}
	inConns := wireAll(ps1.Inputs)
	parts = append(parts, w1(inConns), w2(inConns))

	c, err := cdcsim.NewCircuit(0, tpc, parts)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	check := func() {
		t.Helper()
		for o, out := range outputs {
			if out[0] != out[1] {
				t.Fatalf("inputs %v: output %s: part1 => %s, part2 => %s",
					inputs, ps1.Outputs[o], out[0], out[1])
			}
		}
	}

	iter := len(ps1.Inputs)
	if iter > 12 {
		iter = 12
	}
	iter = 1 << uint(iter)

	// all zero, then all one, then random sequences
	c.TickTock()
	check()
	for in := range inputs {
		inputs[in] = true
	}
	c.TickTock()
	check()
	for i := 0; i < iter; i++ {
		for in := range inputs {
			inputs[in] = rng.Int63()&(1<<62) != 0
		}
		c.TickTock()
		check()
	}
}
