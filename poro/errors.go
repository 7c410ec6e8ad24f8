// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poro

import (
	"errors"
	"fmt"
)

// ErrStepTooSmall is returned (wrapped in a FatalError) when the time step would have to be
// cut below the minimum allowed value
var ErrStepTooSmall = errors.New("time step is smaller than the minimum allowed")

// FatalError stops the simulation at time T
type FatalError struct {
	T   float64 // time of last accepted state
	Dt  float64 // time step that failed
	Err error   // cause
}

// Error implements error
func (e *FatalError) Error() string {
	return fmt.Sprintf("simulation stopped at t = %g with dt = %g: %v", e.T, e.Dt, e.Err)
}

// Unwrap returns the cause
func (e *FatalError) Unwrap() error { return e.Err }
