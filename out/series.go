// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// WellSeries returns the history of a quantity of one well
//  key -- "bhp", "rate" or "q<i>" for the molar rate of component i
func (o *Summary) WellSeries(name, key string) (t, v []float64, err error) {
	w := o.Well(name)
	if w == nil {
		return nil, nil, chk.Err("cannot find well %q", name)
	}
	t = w.T
	switch key {
	case "bhp":
		return t, w.BHP, nil
	case "rate":
		return t, w.Rate, nil
	}
	if strings.HasPrefix(key, "q") {
		i, e := strconv.Atoi(key[1:])
		if e == nil && i >= 0 {
			v = make([]float64, len(t))
			for k, q := range w.Qt {
				if i >= len(q) {
					return nil, nil, chk.Err("component %d of well %q is out of range", i, name)
				}
				v[k] = q[i]
			}
			return
		}
	}
	return nil, nil, chk.Err("well quantity %q is not available", key)
}

// StepSeries returns the history of a statistic of accepted steps
//  key -- "dt", "iters", "linits", "cuts", "dpmax", "dsmax" or "cfl"
func (o *Summary) StepSeries(key string) (t, v []float64, err error) {
	t = make([]float64, len(o.Steps))
	v = make([]float64, len(o.Steps))
	for k, s := range o.Steps {
		t[k] = s.T
		switch key {
		case "dt":
			v[k] = s.Dt
		case "iters":
			v[k] = float64(s.Iters)
		case "linits":
			v[k] = float64(s.LinIts)
		case "cuts":
			v[k] = float64(s.Cuts)
		case "dpmax":
			v[k] = s.DPmax
		case "dsmax":
			v[k] = s.DSmax
		case "cfl":
			v[k] = s.CFL
		default:
			return nil, nil, chk.Err("step quantity %q is not available", key)
		}
	}
	return
}

// CellSeries returns the values of one cell at all output times. States are read from files
//  key -- "p", "s" or "ni"
//  n   -- index of cell
//  j   -- index of phase ("s") or component ("ni"); ignored for "p"
func (o *Summary) CellSeries(key string, n, j int) (t, v []float64, err error) {
	t = make([]float64, len(o.OutTimes))
	v = make([]float64, len(o.OutTimes))
	for tidx := range o.OutTimes {
		sta, err := o.ReadState(tidx)
		if err != nil {
			return nil, nil, err
		}
		t[tidx] = sta.T
		v[tidx], err = sta.Get(key, n, j)
		if err != nil {
			return nil, nil, err
		}
	}
	return
}

// Get returns one value of a state
//  key -- "p", "s" or "ni"
//  n   -- index of cell
//  j   -- index of phase ("s") or component ("ni"); ignored for "p"
func (o *State) Get(key string, n, j int) (float64, error) {
	nb := len(o.P)
	if n < 0 || n >= nb {
		return 0, chk.Err("cell %d is out of range [0, %d)", n, nb)
	}
	var vals []float64
	switch key {
	case "p":
		return o.P[n], nil
	case "s":
		vals = o.S
	case "ni":
		vals = o.Ni
	default:
		return 0, chk.Err("cell quantity %q is not available", key)
	}
	m := len(vals) / nb
	if j < 0 || j >= m {
		return 0, chk.Err("index %d of %q is out of range [0, %d)", j, key, m)
	}
	return vals[n*m+j], nil
}
