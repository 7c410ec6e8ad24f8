// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poro

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Updater applies the solution of the linear system to the primary variables
type Updater interface {
	Update(d *Domain, u []float64) // updates pressures, moles and bottom-hole pressures
}

// NewUpdater returns a new updater
//  dSmaxLim -- max saturation change of one iteration (used by "chop")
func NewUpdater(name string, dSmaxLim float64) (Updater, error) {
	switch name {
	case "chop":
		if dSmaxLim <= 0 {
			return nil, chk.Err("max saturation change of chopped updates must be positive; got %g", dSmaxLim)
		}
		return &ChopUpdater{DSmaxLim: dSmaxLim}, nil
	case "full":
		return new(FullUpdater), nil
	}
	return nil, chk.Err("updater %q is not available", name)
}

// ChopUpdater damps the update of each cell with one scalar such that saturations change by
// no more than DSmaxLim and do not become negative
type ChopUpdater struct {
	DSmaxLim float64   // max saturation change
	ds       []float64 // [np] linearised saturation changes
}

// Update updates the primary variables
func (o *ChopUpdater) Update(d *Domain, u []float64) {
	bk := d.Bulk
	lay := bk.Lay
	bs, np := lay.Block(), lay.Np
	if len(o.ds) != np {
		o.ds = make([]float64, np)
	}
	for n := 0; n < lay.Nb; n++ {
		du := u[n*bs : (n+1)*bs]
		bk.CalcDS(n, du, o.ds)
		chop := Chop(bk.Cur.S[n*np:(n+1)*np], o.ds, bk.Cur.Exist[n*np:(n+1)*np], o.DSmaxLim)
		bk.ApplyUpdate(n, du, o.ds, chop)
	}
	d.Wells.ApplyUpdate(u)
}

// FullUpdater applies the full Newton update
type FullUpdater struct {
	ds []float64 // [np] linearised saturation changes
}

// Update updates the primary variables
func (o *FullUpdater) Update(d *Domain, u []float64) {
	bk := d.Bulk
	lay := bk.Lay
	bs := lay.Block()
	if len(o.ds) != lay.Np {
		o.ds = make([]float64, lay.Np)
	}
	for n := 0; n < lay.Nb; n++ {
		du := u[n*bs : (n+1)*bs]
		bk.CalcDS(n, du, o.ds)
		bk.ApplyUpdate(n, du, o.ds, 1)
	}
	d.Wells.ApplyUpdate(u)
}

// Chop computes the damping factor of the update of one cell. For each existing phase:
//
//   |ds| > dSmaxLim   ⇒  chop ≤ dSmaxLim / |ds|
//   s + ds < 0        ⇒  chop ≤ 0.9・s / |ds|
//
//  Note: the result is in (0, 1] and equals 1 if no phase violates the above conditions
func Chop(s, ds []float64, exist []bool, dSmaxLim float64) (chop float64) {
	chop = 1
	for j, v := range ds {
		if !exist[j] || v == 0 {
			continue
		}
		a := math.Abs(v)
		if a > dSmaxLim {
			chop = math.Min(chop, dSmaxLim/a)
		}
		if s[j]+v < 0 && s[j] > 0 {
			chop = math.Min(chop, 0.9*s[j]/a)
		}
	}
	return
}
