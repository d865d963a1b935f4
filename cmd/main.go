// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Command cdcsim-demo elaborates a synchronizer shift register, runs it
// for a few clock cycles and logs the output bus after every cycle.
//
// Configuration is taken from the environment:
//
//	CDC_WIDTH   bus width (default 4)
//	CDC_DEPTH   synchronizer depth (default 3)
//	CDC_INIT    reset value (default 5)
//	CDC_VALUE   value driven into the synchronizer (default 10)
//	CDC_CYCLES  clock cycles to run after reset release (default 8)
package main

import (
	"fmt"

	"github.com/clkwork/cdcsim"
	"github.com/clkwork/cdcsim/synclib"
	"github.com/xyproto/env/v2"
	"go.uber.org/zap"
)

func main() {
	width := env.Int("CDC_WIDTH", 4)
	depth := env.Int("CDC_DEPTH", 3)
	init := int64(env.Int("CDC_INIT", 5))
	value := int64(env.Int("CDC_VALUE", 10))
	cycles := env.Int("CDC_CYCLES", 8)

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	reg := synclib.NewRegistry(synclib.WithLogger(logger))
	syncReg, err := reg.SyncResetSynchronizerShiftReg(width, depth, init)
	if err != nil {
		logger.Fatal("elaboration failed", zap.Error(err))
	}

	var (
		in  = value
		rst = true
		out int64
	)
	inRange := fmt.Sprintf("in[0..%d]", width-1)
	outRange := fmt.Sprintf("out[0..%d]", width-1)
	c, err := cdcsim.NewCircuit(0, 4, cdcsim.Parts{
		cdcsim.InputN(width, func() int64 { return in })(cdcsim.W{outRange: inRange}),
		cdcsim.Input(func() bool { return rst })(cdcsim.W{"out": "rst"}),
		syncReg(cdcsim.W{inRange: inRange, "rst": "rst", outRange: outRange}),
		cdcsim.OutputN(width, func(v int64) { out = v })(cdcsim.W{inRange: outRange}),
	})
	if err != nil {
		logger.Fatal("circuit build failed", zap.Error(err))
	}
	defer c.Dispose()

	// hold reset for two cycles so the first rising edge samples it
	for i := 0; i < 2; i++ {
		c.TickTock()
		logger.Info("cycle", zap.Bool("reset", rst), zap.Int64("out", out))
	}
	rst = false
	for i := 0; i < cycles; i++ {
		c.TickTock()
		logger.Info("cycle", zap.Bool("reset", rst), zap.Int64("out", out))
	}
}
