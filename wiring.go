// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package cdcsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// W is a set of wires, connecting a part's I/O pins (the map key) to
// pins in its container. Both keys and values may use bus ranges like
// "data[0..3]"; a one-to-many or many-to-one mapping connects all pins
// on the many side to the single pin on the other.
type W map[string]string

// expand builds a wire map by expanding bus ranges.
func (w W) expand() (map[string][]string, error) {
	r := make(map[string][]string)
	for k, v := range w {
		if k == "" || v == "" {
			return nil, errors.New("invalid pin mapping " + k + ":" + v)
		}
		ks, err := expandRange(k)
		if err != nil {
			return nil, errors.Wrap(err, "expand key "+k)
		}
		vs, err := expandRange(v)
		if err != nil {
			return nil, errors.Wrap(err, "expand value "+v)
		}
		switch {
		case len(ks) == len(vs):
			// many to many
			for i := range ks {
				r[ks[i]] = []string{vs[i]}
			}
		case len(ks) == 1:
			// one to many
			r[k] = vs
		case len(vs) == 1:
			// many to one
			for _, k := range ks {
				r[k] = vs
			}
		default:
			return nil, errors.New("pin count mismatch in pin mapping: " + k + ":" + v)
		}
	}
	return r, nil
}

func expandRange(name string) ([]string, error) {
	i := strings.IndexRune(name, '[')
	if i < 0 {
		return []string{name}, nil
	}
	bus := name[:i]
	if bus == "" {
		return nil, errors.New("empty bus name")
	}
	n := name[i+1:]
	i = strings.Index(n, "..")
	if i < 0 {
		return []string{name}, nil
	}
	start, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	n = n[i+2:]
	i = strings.IndexRune(n, ']')
	if i < 0 {
		return nil, errors.New("no terminating ] in bus range")
	}
	end, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}

// BusPinName returns the name of pin i of bus b.
func BusPinName(b string, i int) string {
	return b + "[" + strconv.Itoa(i) + "]"
}

// ExpandBus expands a list of pin declarations to individual pin names.
// A declaration is either a plain pin name or a bus declaration like
// "sel[4]", which expands to sel[0], sel[1], sel[2], sel[3].
// ExpandBus panics on malformed declarations.
func ExpandBus(decls ...string) []string {
	var out []string
	for _, d := range decls {
		d = strings.TrimSpace(d)
		i := strings.IndexRune(d, '[')
		if i < 0 {
			out = append(out, d)
			continue
		}
		if d[len(d)-1] != ']' {
			panic(errors.New("no terminating ] in bus declaration " + d))
		}
		n, err := strconv.Atoi(d[i+1 : len(d)-1])
		if err != nil {
			panic(errors.Wrap(err, "invalid bus size in declaration "+d))
		}
		for j := 0; j < n; j++ {
			out = append(out, BusPinName(d[:i], j))
		}
	}
	return out
}

// a pin is identified by the part it belongs to and its name in that
// part's interface.
type pin struct {
	p    int
	name string
}

const (
	typeUnknown = iota
	typeInput
	typeOutput
)

type node struct {
	name string // chip internal pin name
	pin  pin
	outs []*node
	org  *node // pin feeding that node
	typ  int
}

func (n *node) isOutput() bool {
	return n.typ == typeOutput
}

func (n *node) setName(name string) {
	n.name = name
	for _, o := range n.outs {
		o.setName(name)
	}
}

// inputRootName marks the synthetic node feeding all chip inputs.
const inputRootName = "__INPUT__"

type wiring map[pin]*node

func newWiring(ins, outs []string) (wr wiring, inputRoot *node) {
	wr = make(wiring, len(ins)+len(outs)+1)
	// inputRoot serves as a parent marker for chip inputs.
	inputRoot = &node{pin: pin{-1, inputRootName}, outs: make([]*node, len(ins)), typ: typeInput}

	// add true, false and clk as chip inputs
	for _, cst := range []string{True, False, Clk} {
		p := pin{-1, cst}
		wr[p] = &node{pin: p, org: inputRoot, typ: typeUnknown}
	}

	for i, in := range ins {
		p := pin{-1, in}
		n := &node{pin: p, org: inputRoot, typ: typeUnknown}
		wr[p] = n
		inputRoot.outs[i] = n
	}

	for _, out := range outs {
		p := pin{-1, out}
		n := &node{pin: p, org: nil, typ: typeOutput}
		wr[p] = n
	}
	return wr, inputRoot
}

func (wr wiring) add(in pin, iType int, out pin, oType int) error {
	if out.p < 0 {
		switch out.name {
		case False:
			return errors.New("output pin connected to constant false input")
		case True:
			return errors.New("output pin connected to constant true input")
		case Clk:
			return errors.New("output pin connected to clock signal")
		}
	}
	wi := wr[in]
	if wi == nil {
		wi = &node{pin: in, typ: iType}
		wr[in] = wi
	}
	wo := wr[out]
	switch {
	case wo == nil:
		wo = &node{pin: out, org: wi, typ: oType}
		wr[out] = wo
	case wo.org == nil:
		wo.org = wi
	case wo.org.pin.name == inputRootName:
		return errors.New("chip input pin used as output")
	default:
		return errors.New("output pin already used as output")
	}
	wi.outs = append(wi.outs, wo)
	return nil
}
