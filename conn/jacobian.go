// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conn

import (
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/bulk"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/linsys"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/mdl/pvt"
)

// AddToJac adds the derivatives of flux terms to the Jacobian. CalcUpwind must be called first.
//
//   flux[i] = dt・Akd・α[i]・ΔΨ   with   α[i] = λup・ξup・xup[i]
//
//   ∂flux[i]/∂pri(c) = dt・Akd・(δ(c,up)・∂α[i]/∂pri・ΔΨ + α[i]・∂ΔΨ/∂pri(c))
//
//   ∂ΔΨ/∂pri(B) =  δ(pri,P) + ∂Pcb/∂pri - γ・(Db - De)・wb・∂ρb/∂pri
//   ∂ΔΨ/∂pri(E) = -δ(pri,P) - ∂Pce/∂pri - γ・(Db - De)・we・∂ρe/∂pri
//
//  where wb and we are the weights of each side in the density average
func (o *Graph) AddToJac(J linsys.Adder, bk *bulk.Bulk, dt float64) {
	c, lay := bk.Cur, o.Lay
	nc := lay.Nc
	for _, cn := range o.Conns {
		b, e := cn.B, cn.E
		dD := bk.Depth[b] - bk.Depth[e]
		for j := 0; j < lay.Np; j++ {
			up := cn.Up[j]
			if up < 0 {
				continue
			}
			kb, ke, ku := lay.Phase(b, j), lay.Phase(e, j), lay.Phase(up, j)

			// density weights
			wb, we := 0.5, 0.5
			switch {
			case !c.Exist[ke]:
				wb, we = 1, 0
			case !c.Exist[kb]:
				wb, we = 0, 1
			}

			// derivatives of potential difference
			for col := 0; col <= nc; col++ {
				o.dpsib[col] = c.Dsec[lay.Sec(b, j, pvt.SecPc, col)] - o.Gamma*dD*wb*c.Dsec[lay.Sec(b, j, pvt.SecRho, col)]
				o.dpsie[col] = -c.Dsec[lay.Sec(e, j, pvt.SecPc, col)] - o.Gamma*dD*we*c.Dsec[lay.Sec(e, j, pvt.SecRho, col)]
			}
			o.dpsib[0] += 1
			o.dpsie[0] -= 1

			// upstream properties and their derivatives
			lam, xi := c.Lam[ku], c.Xi[ku]
			for i := 0; i < nc; i++ {
				x := c.X[lay.PhaseComp(up, j, i)]
				o.alpha[i] = lam * xi * x
				for col := 0; col <= nc; col++ {
					dlam := c.Dlam[lay.PhasePri(up, j, col)]
					dxi := c.Dsec[lay.Sec(up, j, pvt.SecXi, col)]
					dx := c.Dsec[lay.Sec(up, j, pvt.SecX+i, col)]
					o.dalpha[i*(1+nc)+col] = dlam*xi*x + lam*dxi*x + lam*xi*dx
				}
			}

			// add to matrix
			coef := dt * cn.Akd
			for i := 0; i < nc; i++ {
				r := 1 + i
				for col := 0; col <= nc; col++ {
					db := coef * o.alpha[i] * o.dpsib[col]
					de := coef * o.alpha[i] * o.dpsie[col]
					du := coef * o.dalpha[i*(1+nc)+col] * cn.Dpsi[j]
					if up == b {
						db += du
					} else {
						de += du
					}
					J.Add(b, b, r, col, db)
					J.Add(b, e, r, col, de)
					J.Add(e, b, r, col, -db)
					J.Add(e, e, r, col, -de)
				}
			}
		}
	}
}
