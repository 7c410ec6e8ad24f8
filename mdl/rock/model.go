// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package rock implements rock compaction models; i.e. pore volume as a function of pressure
package rock

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines rock compaction models
type Model interface {
	Init(prms fun.Prms) error                     // Init initialises this structure
	GetPrms(example bool) fun.Prms                // gets (an example) of parameters
	Calc(vref, p, t float64) (vp, dvpdp float64) // Calc computes pore volume and its derivative w.r.t pressure
}

// New returns a new rock model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'rock' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{
	"lin": func() Model { return new(Lin) },
	"exp": func() Model { return new(Exp) },
}

// Lin implements a linear compaction model
//   Vp = Vref・(1 + Cr・(p - Pref))
type Lin struct {
	Pref float64 // reference pressure [psi]
	Cr   float64 // rock compressibility [1/psi]
}

// Init initialises this structure
func (o *Lin) Init(prms fun.Prms) (err error) {
	for _, p := range prms {
		switch p.N {
		case "pref":
			o.Pref = p.V
		case "cr":
			o.Cr = p.V
		default:
			return chk.Err("lin: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Cr < 0 {
		return chk.Err("lin: compressibility must be non-negative. cr = %g is invalid", o.Cr)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Lin) GetPrms(example bool) fun.Prms {
	if example {
		return fun.Prms{
			&fun.Prm{N: "pref", V: 14.7},
			&fun.Prm{N: "cr", V: 3e-6},
		}
	}
	return fun.Prms{
		&fun.Prm{N: "pref", V: o.Pref},
		&fun.Prm{N: "cr", V: o.Cr},
	}
}

// Calc computes pore volume and its derivative w.r.t pressure
func (o Lin) Calc(vref, p, t float64) (vp, dvpdp float64) {
	dvpdp = vref * o.Cr
	vp = vref + dvpdp*(p-o.Pref)
	return
}

// Exp implements an exponential compaction model
//   Vp = Vref・exp(Cr・(p - Pref))
type Exp struct {
	Pref float64 // reference pressure [psi]
	Cr   float64 // rock compressibility [1/psi]
}

// Init initialises this structure
func (o *Exp) Init(prms fun.Prms) (err error) {
	for _, p := range prms {
		switch p.N {
		case "pref":
			o.Pref = p.V
		case "cr":
			o.Cr = p.V
		default:
			return chk.Err("exp: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Cr < 0 {
		return chk.Err("exp: compressibility must be non-negative. cr = %g is invalid", o.Cr)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Exp) GetPrms(example bool) fun.Prms {
	if example {
		return fun.Prms{
			&fun.Prm{N: "pref", V: 14.7},
			&fun.Prm{N: "cr", V: 3e-6},
		}
	}
	return fun.Prms{
		&fun.Prm{N: "pref", V: o.Pref},
		&fun.Prm{N: "cr", V: o.Cr},
	}
}

// Calc computes pore volume and its derivative w.r.t pressure
func (o Exp) Calc(vref, p, t float64) (vp, dvpdp float64) {
	vp = vref * math.Exp(o.Cr*(p-o.Pref))
	dvpdp = o.Cr * vp
	return
}
