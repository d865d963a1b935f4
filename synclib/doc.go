// Copyright 2026 The cdcsim Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package synclib provides parameterized clock-domain-crossing parts
// for cdcsim circuits: metastability-hardening synchronizer shift
// registers in four reset disciplines, a simple clock-crossing
// register, and the registry that gives generated parts deterministic,
// parameter-derived names and deduplicates identical requests.
//
// Generated names follow a fixed convention so that back-end flows can
// recover the full parameter set of an instance from its name:
//
//	<Kind>ResetSynchronizerPrimitiveShiftReg_d<depth>[_i<initBit>]
//	<Kind>ResetSynchronizerShiftReg_w<width>_d<depth>_i<init>
//	ClockCrossingReg_w<width>
package synclib
