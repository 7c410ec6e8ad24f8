// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package krel implements relative permeability models
package krel

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines relative permeability models
//  Note: kr[j] depends on s[j] only; thus dkr[j] = dkr[j]/ds[j]
type Model interface {
	Init(np int, prms fun.Prms) error // Init initialises model for np phases
	GetPrms(example bool) fun.Prms    // gets (an example) of parameters
	Calc(s, kr, dkr []float64)        // Calc computes kr(s) and dkr/ds for all phases
}

// New returns a new relative permeability model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'krel' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// splitKey splits a parameter name such as "sr1" into ("sr", 1).
// A key without trailing digits returns idx = -1, meaning all phases
func splitKey(name string) (key string, idx int) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return strings.ToLower(name), -1
	}
	idx, _ = strconv.Atoi(name[i:])
	return strings.ToLower(name[:i]), idx
}

// setPhaseValue sets v[idx] or all v if idx < 0
func setPhaseValue(v []float64, idx int, val float64, name string) error {
	if idx < 0 {
		for j := range v {
			v[j] = val
		}
		return nil
	}
	if idx >= len(v) {
		return chk.Err("parameter %q refers to phase %d but there are only %d phases", name, idx, len(v))
	}
	v[idx] = val
	return nil
}
