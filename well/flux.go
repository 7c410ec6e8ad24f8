// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"math"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/bulk"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/conn"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/linsys"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/mdl/pvt"

	"github.com/cpmech/gosl/la"
)

// CalcDG computes the pressure differences between the reference depth and all perforations
// by integrating the density of the fluid column in segments no longer than maxseg.
// Injectors use the injected composition; producers use the mixture of the fluids of the
// perforation cells at and below each segment weighted by the outflows of the last accepted step
func (o *Well) CalcDG(bk *bulk.Bulk, maxseg float64) {
	nc := bk.Lay.Nc
	z := make([]float64, nc)
	useflux := false
	if o.Type == Producer {
		for k, p := range o.Perfs {
			if p.Open && o.lastQout[k] > 0 {
				useflux = true
			}
		}
	}
	pres, d := o.BHP, o.Dref
	for k, pf := range o.Perfs {
		if o.Type == Injector {
			copy(z, o.Ctrl.Zinj)
		} else {
			o.mixture(bk, k, useflux, z)
		}
		pres = column(bk.Pvt, pres, d, pf.Depth, bk.Cur.T[pf.Cell], z, maxseg)
		pf.DG = pres - o.BHP
		d = pf.Depth
	}
}

// CalcFlux computes the perforation pressures, the molar rates of all perforations, the well
// rate and all their derivatives.
//
//  producers, for existing phases j:
//   Q[i] = -Σj WI・mult・λj・ξj・xj[i]・(P + Pcj - Pperf)
//
//  injectors:
//   Q[i] = WI・mult・Σλj・ξinj(Pperf)・zinj[i]・(Pperf - P)
//
//  with Pperf = BHP + dG and dG frozen
func (o *Well) CalcFlux(bk *bulk.Bulk) {
	c, lay := bk.Cur, bk.Lay
	np, nc := lay.Np, lay.Nc
	la.VecFill(o.Qt, 0)
	la.VecFill(o.dRate, 0)
	o.Rate, o.dRateB = 0, 0
	if len(o.dlamt) != 1+nc {
		o.dlamt = make([]float64, 1+nc)
	}
	sgn := o.sign()
	for k, p := range o.Perfs {
		la.VecFill(p.Trans, 0)
		la.VecFill(p.Q, 0)
		la.VecFill(p.DQ, 0)
		la.VecFill(p.DQb, 0)
		p.Pperf = o.BHP + p.DG
		if !o.Ctrl.Open || !p.Open {
			continue
		}
		n := p.Cell
		wi := p.WI * p.Mult
		for j := 0; j < np; j++ {
			p.Trans[j] = wi * c.Lam[lay.Phase(n, j)]
		}
		if o.Type == Producer {
			for j := 0; j < np; j++ {
				kj := lay.Phase(n, j)
				if !c.Exist[kj] {
					continue
				}
				lam, xi := c.Lam[kj], c.Xi[kj]
				dp := c.P[n] + c.Pc[kj] - p.Pperf
				for i := 0; i < nc; i++ {
					x := c.X[lay.PhaseComp(n, j, i)]
					a := p.Trans[j] * xi * x
					p.Q[i] -= a * dp
					p.DQb[i] += a
					for col := 0; col <= nc; col++ {
						dlam := c.Dlam[lay.PhasePri(n, j, col)]
						dxi := c.Dsec[lay.Sec(n, j, pvt.SecXi, col)]
						dx := c.Dsec[lay.Sec(n, j, pvt.SecX+i, col)]
						ddp := c.Dsec[lay.Sec(n, j, pvt.SecPc, col)]
						if col == 0 {
							ddp += 1
						}
						da := wi * (dlam*xi*x + lam*dxi*x + lam*xi*dx)
						p.DQ[i*(1+nc)+col] -= da*dp + a*ddp
					}
				}
			}
		} else {
			xinj, dxinj := bk.Pvt.MolarDensity(p.Pperf, c.T[n], o.Ctrl.Zinj)
			var lamt float64
			la.VecFill(o.dlamt, 0)
			for j := 0; j < np; j++ {
				kj := lay.Phase(n, j)
				if !c.Exist[kj] {
					continue
				}
				lamt += c.Lam[kj]
				for col := 0; col <= nc; col++ {
					o.dlamt[col] += c.Dlam[lay.PhasePri(n, j, col)]
				}
			}
			dp := p.Pperf - c.P[n]
			for i := 0; i < nc; i++ {
				z := o.Ctrl.Zinj[i]
				if z == 0 {
					continue
				}
				a := wi * lamt * xinj * z
				p.Q[i] = a * dp
				p.DQb[i] = wi * lamt * z * (dxinj*dp + xinj)
				for col := 0; col <= nc; col++ {
					p.DQ[i*(1+nc)+col] = wi * xinj * z * o.dlamt[col] * dp
				}
				p.DQ[i*(1+nc)] -= a
			}
		}

		// rates
		for i := 0; i < nc; i++ {
			o.Qt[i] += p.Q[i]
			f := sgn * o.Ctrl.Fac[i]
			o.Rate += f * p.Q[i]
			o.dRateB += f * p.DQb[i]
			for col := 0; col <= nc; col++ {
				o.dRate[k*(1+nc)+col] += f * p.DQ[i*(1+nc)+col]
			}
		}
	}
}

// Residual returns the residual of the well equation
//   shut:     BHP - BHPlast
//   bhp mode: BHP - target
//   rate:     Σ fac[i]・q[i] - target
func (o *Well) Residual() float64 {
	switch {
	case !o.Ctrl.Open:
		return o.BHP - o.lastBHP
	case o.Ctrl.Mode == BhpMode:
		return o.BHP - o.Ctrl.BHP
	}
	return o.Rate - o.Ctrl.Rate
}

// AddToRes adds the source terms to the mass balances of perforation cells and sets the
// residual of the well block. CalcFlux must be called first
func (o *Well) AddToRes(res []float64, bs int, dt float64) {
	for _, p := range o.Perfs {
		for i, q := range p.Q {
			res[p.Cell*bs+1+i] -= dt * q
		}
	}
	res[o.Index*bs] = o.Residual()
	for r := 1; r < bs; r++ {
		res[o.Index*bs+r] = 0
	}
}

// AddToJac adds the derivatives of the source terms and of the well equation to the Jacobian.
// CalcFlux must be called first
func (o *Well) AddToJac(J linsys.Adder, bs int, dt float64) {
	w := o.Index
	for r := 1; r < bs; r++ {
		J.Add(w, w, r, r, 1)
	}
	for _, p := range o.Perfs {
		for i := 0; i < bs-1; i++ {
			for col := 0; col < bs; col++ {
				J.Add(p.Cell, p.Cell, 1+i, col, -dt*p.DQ[i*bs+col])
			}
			J.Add(p.Cell, w, 1+i, 0, -dt*p.DQb[i])
		}
	}
	if !o.Ctrl.Open || o.Ctrl.Mode == BhpMode {
		J.Add(w, w, 0, 0, 1)
		return
	}
	for k, p := range o.Perfs {
		for col := 0; col < bs; col++ {
			J.Add(w, p.Cell, 0, col, o.dRate[k*bs+col])
		}
	}
	J.Add(w, w, 0, 0, o.dRateB)
}

// AddCFL accumulates the volumes produced from perforation cells during dt
func (o *Well) AddCFL(bk *bulk.Bulk, dt float64) {
	if o.Type != Producer || !o.Ctrl.Open {
		return
	}
	c, lay := bk.Cur, bk.Lay
	for _, p := range o.Perfs {
		if !p.Open {
			continue
		}
		for j := 0; j < lay.Np; j++ {
			kj := lay.Phase(p.Cell, j)
			if !c.Exist[kj] {
				continue
			}
			if q := p.Trans[j] * (c.P[p.Cell] + c.Pc[kj] - p.Pperf); q > 0 {
				bk.AddCFL(p.Cell, j, q*dt)
			}
		}
	}
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// mixture computes the composition of the fluid flowing in the well above perforation k
func (o *Well) mixture(bk *bulk.Bulk, k int, useflux bool, z []float64) {
	c, lay := bk.Cur, bk.Lay
	la.VecFill(z, 0)
	var wsum float64
	for pass := 0; pass < 2 && wsum == 0; pass++ {
		for m := k; m < len(o.Perfs); m++ {
			p := o.Perfs[m]
			wgt := 1.0
			if useflux && pass == 0 {
				wgt = o.lastQout[m]
			}
			n := p.Cell
			if wgt <= 0 || c.Nt[n] <= 0 {
				continue
			}
			for i := 0; i < lay.Nc; i++ {
				z[i] += wgt * c.Ni[lay.Comp(n, i)] / c.Nt[n]
			}
			wsum += wgt
		}
	}
	if wsum > 0 {
		for i := range z {
			z[i] /= wsum
		}
	}
}

// totalOut returns the total molar rate leaving the reservoir through perforation
func totalOut(p *Perf) (q float64) {
	for _, v := range p.Q {
		q -= v
	}
	return
}

// column integrates dp/dD = γ・ρ(p) from depth d0 to depth d1 starting at pressure p0.
// Each segment is a fixed-point update with the average density at its ends
func column(model pvt.Model, p0, d0, d1, t float64, z []float64, maxseg float64) (p float64) {
	p = p0
	length := d1 - d0
	if length == 0 {
		return
	}
	nseg := int(math.Ceil(math.Abs(length) / maxseg))
	if nseg < 1 {
		nseg = 1
	}
	h := length / float64(nseg)
	for s := 0; s < nseg; s++ {
		rho0 := model.Density(p, t, z)
		p1 := p + conn.GAMMA*rho0*h
		for it := 0; it < 20; it++ {
			pnew := p + conn.GAMMA*0.5*(rho0+model.Density(p1, t, z))*h
			converged := math.Abs(pnew-p1) <= 1e-10*math.Max(1, math.Abs(pnew))
			p1 = pnew
			if converged {
				break
			}
		}
		p = p1
	}
	return
}
