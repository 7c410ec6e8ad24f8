// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package bulk implements the time-dependent state of cells (bulks): pressure, moles,
// saturations and all derived quantities, including the sensitivity blocks
package bulk

import (
	"math"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/grid"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/mdl/krel"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/mdl/pvt"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/mdl/rock"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Bulk holds the state of all active cells
type Bulk struct {

	// input
	Lay  Layout         // dimensions
	Topo *grid.Topology // topology
	Rock rock.Model     // rock compaction model
	Pvt  pvt.Model      // phase behaviour model
	Krel krel.Model     // relative permeability model

	// static data
	Vref  []float64 // [nb] pore volume at reference pressure
	Depth []float64 // [nb] depth of cell centres

	// states
	Cur  *State // current iterate
	Last *State // last accepted time step

	// Newton-Raphson bookkeeping; not part of states
	DP   []float64 // [nb] last pressure update
	DS   []float64 // [nb・np] last saturation update (linearised)
	DN   []float64 // [nb・nc] last moles update
	Chop []float64 // [nb] last chop factor

	// settings
	NiNegTol float64 // negative moles above -NiNegTol・Nt are reset to a tiny positive value

	// auxiliary
	res *pvt.Result // flash results
	cfl []float64   // [nb・np] throughput volumes for CFL
}

// NewBulk allocates a new structure. The models must be initialised already
func NewBulk(topo *grid.Topology, rk rock.Model, pv pvt.Model, kr krel.Model) (o *Bulk, err error) {
	if topo == nil || rk == nil || pv == nil || kr == nil {
		return nil, chk.Err("bulk: topology and all models must be given")
	}
	o = new(Bulk)
	o.Lay = Layout{Nb: topo.Ncells(), Np: pv.Nphases(), Nc: pv.Ncomps()}
	if o.Lay.Np < 1 || o.Lay.Nc < 1 {
		return nil, chk.Err("bulk: phase behaviour model must have at least one phase and one component")
	}
	o.Topo, o.Rock, o.Pvt, o.Krel = topo, rk, pv, kr
	nb, np, nc := o.Lay.Nb, o.Lay.Np, o.Lay.Nc
	o.Vref = make([]float64, nb)
	o.Depth = make([]float64, nb)
	for n, c := range topo.Cells {
		o.Vref[n] = c.Vref()
		o.Depth[n] = c.Depth
	}
	o.Cur = NewState(o.Lay)
	o.Last = NewState(o.Lay)
	o.DP = make([]float64, nb)
	o.DS = make([]float64, nb*np)
	o.DN = make([]float64, nb*nc)
	o.Chop = make([]float64, nb)
	o.NiNegTol = 1e-3
	o.res = pvt.NewResult(np, nc)
	o.cfl = make([]float64, nb*np)
	return
}

// InitState sets the initial state from pressures and saturations.
//  p -- [nb] pressures or [1] uniform pressure
//  s -- [np] uniform saturations or [nb・np] saturations
func (o *Bulk) InitState(p []float64, t float64, s []float64) (err error) {
	nb, np, nc := o.Lay.Nb, o.Lay.Np, o.Lay.Nc
	if len(p) != 1 && len(p) != nb {
		return chk.Err("bulk: initial pressures must have length 1 or %d; got %d", nb, len(p))
	}
	if len(s) != np && len(s) != nb*np {
		return chk.Err("bulk: initial saturations must have length %d or %d; got %d", np, nb*np, len(s))
	}
	for n := 0; n < nb; n++ {
		pn := p[0]
		if len(p) == nb {
			pn = p[n]
		}
		sn := s
		if len(s) == nb*np {
			sn = s[n*np : (n+1)*np]
		}
		o.Cur.P[n] = pn
		o.Cur.T[n] = t
		vp, _ := o.Rock.Calc(o.Vref[n], pn, t)
		err = o.Pvt.InitMoles(o.Cur.Ni[n*nc:(n+1)*nc], pn, t, vp, sn)
		if err != nil {
			return chk.Err("bulk: cannot compute initial moles of cell %d:\n%v", n, err)
		}
	}
	err = o.Update()
	if err != nil {
		return
	}
	o.ResetNR()
	o.Snapshot()
	return
}

// Update computes all secondary variables from the primary ones
func (o *Bulk) Update() (err error) {
	o.UpdateRock()
	err = o.CalcFlash()
	if err != nil {
		return
	}
	o.CalcKrMobility()
	return
}

// UpdateRock computes pore volumes and their derivatives
func (o *Bulk) UpdateRock() {
	c := o.Cur
	for n := 0; n < o.Lay.Nb; n++ {
		c.Vp[n], c.VpP[n] = o.Rock.Calc(o.Vref[n], c.P[n], c.T[n])
	}
}

// CalcFlash runs the phase behaviour model in all cells
func (o *Bulk) CalcFlash() (err error) {
	c := o.Cur
	np, nc := o.Lay.Np, o.Lay.Nc
	for n := 0; n < o.Lay.Nb; n++ {
		err = o.Pvt.Flash(o.res, c.P[n], c.T[n], c.Ni[n*nc:(n+1)*nc], c.S[n*np:(n+1)*np])
		if err != nil {
			return chk.Err("bulk: flash failed in cell %d:\n%v", n, err)
		}
		o.AcceptPhaseBehavior(n, o.res)
	}
	return
}

// AcceptPhaseBehavior copies the results of a flash calculation into cell n
func (o *Bulk) AcceptPhaseBehavior(n int, res *pvt.Result) {
	c, lay := o.Cur, o.Lay
	for j := 0; j < lay.Np; j++ {
		k := lay.Phase(n, j)
		c.Exist[k] = res.Exist[j]
		c.S[k] = res.S[j]
		c.Xi[k] = res.Xi[j]
		c.Rho[k] = res.Rho[j]
		c.Mu[k] = res.Mu[j]
		c.Pc[k] = res.Pc[j]
		c.Vj[k] = res.Vj[j]
		copy(c.X[lay.PhaseComp(n, j, 0):lay.PhaseComp(n, j, lay.Nc)], res.X[j])
	}
	c.Nt[n] = res.Nt
	c.Vf[n] = res.Vf
	c.VfP[n] = res.VfP
	copy(c.Vfi[lay.Comp(n, 0):lay.Comp(n, lay.Nc)], res.Vfi)
	start := lay.Sec(n, 0, 0, 0)
	copy(c.Dsec[start:start+len(res.D)], res.D)
}

// CalcKrMobility computes relative permeabilities, mobilities and their derivatives
//   λ = kr / μ
//   ∂λ/∂pri = dkr/dS・∂S/∂pri / μ  -  kr・∂μ/∂pri / μ²
func (o *Bulk) CalcKrMobility() {
	c, lay := o.Cur, o.Lay
	np := lay.Np
	for n := 0; n < lay.Nb; n++ {
		o.Krel.Calc(c.S[n*np:(n+1)*np], c.Kr[n*np:(n+1)*np], c.Dkr[n*np:(n+1)*np])
		for j := 0; j < np; j++ {
			k := lay.Phase(n, j)
			if !c.Exist[k] {
				c.Kr[k], c.Dkr[k], c.Lam[k] = 0, 0, 0
				for col := 0; col <= lay.Nc; col++ {
					c.Dlam[lay.PhasePri(n, j, col)] = 0
				}
				continue
			}
			mu := c.Mu[k]
			c.Lam[k] = c.Kr[k] / mu
			for col := 0; col <= lay.Nc; col++ {
				dS := c.Dsec[lay.Sec(n, j, pvt.SecS, col)]
				dmu := c.Dsec[lay.Sec(n, j, pvt.SecMu, col)]
				c.Dlam[lay.PhasePri(n, j, col)] = c.Dkr[k]*dS/mu - c.Kr[k]*dmu/(mu*mu)
			}
		}
	}
}

// Snapshot copies the current state into the last-step state
func (o *Bulk) Snapshot() { o.Last.CopyFrom(o.Cur) }

// Restore copies the last-step state into the current state
func (o *Bulk) Restore() { o.Cur.CopyFrom(o.Last) }

// PhasePressure returns the pressure of phase j in cell n
func (o *Bulk) PhasePressure(n, j int) float64 {
	return o.Cur.P[n] + o.Cur.Pc[o.Lay.Phase(n, j)]
}

// Newton-Raphson bookkeeping ///////////////////////////////////////////////////////////////////

// ResetNR clears the Newton-Raphson bookkeeping
func (o *Bulk) ResetNR() {
	la.VecFill(o.DP, 0)
	la.VecFill(o.DS, 0)
	la.VecFill(o.DN, 0)
	la.VecFill(o.Chop, 1)
}

// CalcDS computes the linearised saturation change of cell n due to primary update du
//   ds[j] = Σ ∂S[j]/∂pri ・ du[pri]
func (o *Bulk) CalcDS(n int, du, ds []float64) {
	lay := o.Lay
	for j := 0; j < lay.Np; j++ {
		ds[j] = 0
		for col := 0; col <= lay.Nc; col++ {
			ds[j] += o.Cur.Dsec[lay.Sec(n, j, pvt.SecS, col)] * du[col]
		}
	}
}

// ApplyUpdate updates the primary variables of cell n with chop・du and records the update.
//  ds -- linearised saturation change due to du (from CalcDS)
func (o *Bulk) ApplyUpdate(n int, du, ds []float64, chop float64) {
	lay := o.Lay
	o.Chop[n] = chop
	o.DP[n] = chop * du[0]
	o.Cur.P[n] += o.DP[n]
	for i := 0; i < lay.Nc; i++ {
		k := lay.Comp(n, i)
		o.DN[k] = chop * du[1+i]
		o.Cur.Ni[k] += o.DN[k]
	}
	for j := 0; j < lay.Np; j++ {
		o.DS[lay.Phase(n, j)] = chop * ds[j]
	}
}

// MaxNR returns the largest absolute pressure and saturation updates of the last iteration
func (o *Bulk) MaxNR() (dPmax, dSmax float64) {
	return la.VecLargest(o.DP, 1), la.VecLargest(o.DS, 1)
}

// IsFinite returns whether all primary variables are finite numbers
func (o *Bulk) IsFinite() bool {
	for _, v := range o.Cur.P {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, v := range o.Cur.Ni {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
