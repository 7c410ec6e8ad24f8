// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krel

import (
	"math"
	"strconv"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Corey implements Corey-type relative permeabilities
//
//   se[j] = (s[j] - sr[j]) / (1 - Σ sr)    clamped to [0,1]
//   kr[j] = krmax[j] ・ se[j]^n[j]
//
type Corey struct {
	Sr    []float64 // residual saturations
	N     []float64 // exponents
	Krmax []float64 // end-point relative permeabilities

	// derived
	linear bool    // n = 1 for all phases
	den    float64 // 1 - Σ sr
}

// add model to factory
func init() {
	allocators["corey"] = func() Model { return new(Corey) }
	allocators["lin"] = func() Model { return &Corey{linear: true} }
}

// Init initialises model
func (o *Corey) Init(np int, prms fun.Prms) (err error) {
	if np < 1 {
		return chk.Err("corey: number of phases must be at least 1. np = %d is invalid", np)
	}
	o.Sr = make([]float64, np)
	o.N = make([]float64, np)
	o.Krmax = make([]float64, np)
	for j := 0; j < np; j++ {
		o.N[j] = 2
		o.Krmax[j] = 1
	}
	if o.linear {
		for j := 0; j < np; j++ {
			o.N[j] = 1
		}
	}
	for _, p := range prms {
		key, idx := splitKey(p.N)
		switch key {
		case "sr":
			err = setPhaseValue(o.Sr, idx, p.V, p.N)
		case "n":
			if o.linear {
				return chk.Err("lin: exponent cannot be set")
			}
			err = setPhaseValue(o.N, idx, p.V, p.N)
		case "krmax":
			err = setPhaseValue(o.Krmax, idx, p.V, p.N)
		default:
			return chk.Err("corey: parameter named %q is incorrect\n", p.N)
		}
		if err != nil {
			return
		}
	}
	o.den = 1
	for j := 0; j < np; j++ {
		if o.Sr[j] < 0 || o.N[j] < 1 || o.Krmax[j] <= 0 {
			return chk.Err("corey: invalid parameters for phase %d: sr=%g n=%g krmax=%g", j, o.Sr[j], o.N[j], o.Krmax[j])
		}
		o.den -= o.Sr[j]
	}
	if o.den <= 0 {
		return chk.Err("corey: sum of residual saturations must be smaller than 1. Σsr = %g is invalid", 1-o.den)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Corey) GetPrms(example bool) fun.Prms {
	if example {
		if o.linear {
			return fun.Prms{&fun.Prm{N: "krmax", V: 1}}
		}
		return fun.Prms{
			&fun.Prm{N: "sr0", V: 0.2},
			&fun.Prm{N: "sr1", V: 0.1},
			&fun.Prm{N: "n", V: 2},
			&fun.Prm{N: "krmax0", V: 0.8},
			&fun.Prm{N: "krmax1", V: 1.0},
		}
	}
	var prms fun.Prms
	for j := range o.Sr {
		prms = append(prms, &fun.Prm{N: "sr" + strconv.Itoa(j), V: o.Sr[j]})
		if !o.linear {
			prms = append(prms, &fun.Prm{N: "n" + strconv.Itoa(j), V: o.N[j]})
		}
		prms = append(prms, &fun.Prm{N: "krmax" + strconv.Itoa(j), V: o.Krmax[j]})
	}
	return prms
}

// Calc computes kr(s) and dkr/ds for all phases
func (o Corey) Calc(s, kr, dkr []float64) {
	for j := range o.Sr {
		se := (s[j] - o.Sr[j]) / o.den
		if se <= 0 {
			kr[j], dkr[j] = 0, 0
			continue
		}
		if se >= 1 {
			kr[j], dkr[j] = o.Krmax[j], 0
			continue
		}
		if o.N[j] == 1 {
			kr[j] = o.Krmax[j] * se
			dkr[j] = o.Krmax[j] / o.den
			continue
		}
		pw := math.Pow(se, o.N[j]-1)
		kr[j] = o.Krmax[j] * pw * se
		dkr[j] = o.Krmax[j] * o.N[j] * pw / o.den
	}
}
