// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"testing"

	cc "github.com/clkwork/cdcsim"
	"github.com/clkwork/cdcsim/hwtest"
)

func buffer() cc.NewPartFn {
	return (&cc.PartSpec{
		Name:    "BUF2",
		Inputs:  cc.ExpandBus("in[2]"),
		Outputs: cc.ExpandBus("out[2]"),
		Mount: func(s *cc.Socket) []cc.Component {
			in, out := s.Bus("in", 2), s.Bus("out", 2)
			return []cc.Component{
				func(c *cc.Circuit) {
					for i := range in {
						c.Set(out[i], c.Get(in[i]))
					}
				}}
		}}).NewPart
}

func inverter() cc.NewPartFn {
	return (&cc.PartSpec{
		Name:    "INV2",
		Inputs:  cc.ExpandBus("in[2]"),
		Outputs: cc.ExpandBus("out[2]"),
		Mount: func(s *cc.Socket) []cc.Component {
			in, out := s.Bus("in", 2), s.Bus("out", 2)
			return []cc.Component{
				func(c *cc.Circuit) {
					for i := range in {
						c.Set(out[i], c.Get(in[i]).Not())
					}
				}}
		}}).NewPart
}

func TestComparePart(t *testing.T) {
	hwtest.ComparePart(t, 4, buffer(), buffer())
}

// double inversion is equivalent to a buffer, with both layers settling
// within the same cycle
func TestComparePart_composed(t *testing.T) {
	inv2, err := cc.Chip("INVINV", cc.In{"in[2]"}, cc.Out{"out[2]"}, cc.Parts{
		inverter()(cc.W{"in[0..1]": "in[0..1]", "out[0..1]": "x[0..1]"}),
		inverter()(cc.W{"in[0..1]": "x[0..1]", "out[0..1]": "out[0..1]"}),
	})
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 8, buffer(), inv2)
}
