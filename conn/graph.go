// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package conn implements the connections between cells: transmissibilities, upstream
// weighting and the flux terms of the residual and Jacobian
package conn

import (
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/bulk"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/grid"

	"github.com/cpmech/gosl/chk"
)

// constants in field units
const (
	DARCY = 0.0063283  // [ft³/day] per [md・ft²/cp・psi/ft]
	GAMMA = 1.0 / 144. // [psi/ft] per [lbm/ft³]
)

// Conn holds one connection between cells B and E with B > E
type Conn struct {
	B, E int       // cells; B > E
	Axis grid.Axis // principal direction
	Akd  float64   // transmissibility [ft³・cp/(day・psi)]

	// per phase; recomputed at each iteration
	Up   []int     // [np] upstream cell; -1 means no flow
	Rho  []float64 // [np] density used in gravity term
	Dpsi []float64 // [np] potential difference Ψb - Ψe
	Flow []float64 // [np] volumetric flow rate from B to E [ft³/day]
}

// Graph holds all connections
type Graph struct {
	Conns []*Conn     // all connections
	Lay   bulk.Layout // dimensions
	Gamma float64     // gravity factor
	Nbs   [][]int     // [nb] neighbours of each cell (for matrix pattern)

	// scratch
	alpha, dalpha []float64 // λ・ξ・x of upstream and its derivatives
	dpsib, dpsie  []float64 // ∂ΔΨ/∂pri of cells B and E
}

// New builds the connections of topology
func New(topo *grid.Topology, lay bulk.Layout) (o *Graph, err error) {
	if topo.Ncells() != lay.Nb {
		return nil, chk.Err("conn: topology has %d cells but layout has %d", topo.Ncells(), lay.Nb)
	}
	o = &Graph{Lay: lay, Gamma: GAMMA}
	o.Nbs = topo.Neighbors
	for n, nbs := range topo.Neighbors {
		for _, m := range nbs {
			if m >= n {
				continue
			}
			c := &Conn{B: n, E: m, Axis: topo.Axis(n, m), Akd: DARCY * topo.Trans(n, m)}
			c.Up = make([]int, lay.Np)
			c.Rho = make([]float64, lay.Np)
			c.Dpsi = make([]float64, lay.Np)
			c.Flow = make([]float64, lay.Np)
			o.Conns = append(o.Conns, c)
		}
	}
	nc := lay.Nc
	o.alpha = make([]float64, nc)
	o.dalpha = make([]float64, nc*(1+nc))
	o.dpsib = make([]float64, 1+nc)
	o.dpsie = make([]float64, 1+nc)
	return
}

// CalcUpwind computes potential differences, upstream cells and volumetric flows
//   ΔΨ = (Pb + Pcb - γ・ρ・Db) - (Pe + Pce - γ・ρ・De)
//   upstream = B if ΔΨ ≥ 0 else E
//   q = Akd・λup・ΔΨ
func (o *Graph) CalcUpwind(bk *bulk.Bulk) {
	c, lay := bk.Cur, o.Lay
	for _, cn := range o.Conns {
		b, e := cn.B, cn.E
		for j := 0; j < lay.Np; j++ {
			kb, ke := lay.Phase(b, j), lay.Phase(e, j)
			exb, exe := c.Exist[kb], c.Exist[ke]
			cn.Up[j], cn.Rho[j], cn.Dpsi[j], cn.Flow[j] = -1, 0, 0, 0
			if !exb && !exe {
				continue
			}
			switch {
			case exb && exe:
				cn.Rho[j] = 0.5 * (c.Rho[kb] + c.Rho[ke])
			case exb:
				cn.Rho[j] = c.Rho[kb]
			default:
				cn.Rho[j] = c.Rho[ke]
			}
			cn.Dpsi[j] = (c.P[b] + c.Pc[kb] - o.Gamma*cn.Rho[j]*bk.Depth[b]) -
				(c.P[e] + c.Pc[ke] - o.Gamma*cn.Rho[j]*bk.Depth[e])
			up := b
			if cn.Dpsi[j] < 0 {
				up = e
			}
			if !c.Exist[lay.Phase(up, j)] {
				continue
			}
			cn.Up[j] = up
			cn.Flow[j] = cn.Akd * c.Lam[lay.Phase(up, j)] * cn.Dpsi[j]
		}
	}
}

// AddToRes adds the flux terms to the residual of mass balances. CalcUpwind must be called first.
//
//   flux[i] = dt・Σj q[j]・ξup[j]・xup[j][i]
//   R[B][1+i] += flux[i]
//   R[E][1+i] -= flux[i]
//
func (o *Graph) AddToRes(res []float64, bk *bulk.Bulk, dt float64) {
	c, lay := bk.Cur, o.Lay
	bs := lay.Block()
	for _, cn := range o.Conns {
		for j := 0; j < lay.Np; j++ {
			up := cn.Up[j]
			if up < 0 {
				continue
			}
			ku := lay.Phase(up, j)
			for i := 0; i < lay.Nc; i++ {
				flux := dt * cn.Flow[j] * c.Xi[ku] * c.X[lay.PhaseComp(up, j, i)]
				res[cn.B*bs+1+i] += flux
				res[cn.E*bs+1+i] -= flux
			}
		}
	}
}

// AddCFL accumulates the volumes that leave upstream cells during dt
func (o *Graph) AddCFL(bk *bulk.Bulk, dt float64) {
	for _, cn := range o.Conns {
		for j, up := range cn.Up {
			if up >= 0 {
				bk.AddCFL(up, j, cn.Flow[j]*dt)
			}
		}
	}
}
