// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// State holds the reservoir state at one output time
type State struct {
	T  float64   // time
	P  []float64 // [nb] pressures
	S  []float64 // [nb・np] saturations
	Ni []float64 // [nb・nc] moles
}

// SaveState saves a state to a file which name is set with tidx (time output index)
func SaveState(dir, fnkey, enctype string, tidx int, sta *State, verbose bool) (err error) {
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	err = enc.Encode(sta)
	if err != nil {
		return chk.Err("cannot encode state @ t=%g\n%v", sta.T, err)
	}
	fn := out_sta_path(dir, fnkey, enctype, tidx)
	return save_file(fn, &buf, verbose)
}

// ReadState reads the state saved with time output index tidx
func ReadState(dir, fnkey, enctype string, tidx int) (sta *State, err error) {

	// open file
	fn := out_sta_path(dir, fnkey, enctype, tidx)
	fil, err := os.Open(fn)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()

	// decode
	sta = new(State)
	dec := GetDecoder(fil, enctype)
	err = dec.Decode(sta)
	if err != nil {
		return nil, chk.Err("cannot decode state from <%s>\n%v", fn, err)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func out_sum_path(dir, fnkey, enctype string) string {
	return path.Join(dir, io.Sf("%s_sum.%s", fnkey, enctype))
}

func out_sta_path(dir, fnkey, enctype string, tidx int) string {
	return path.Join(dir, io.Sf("%s_sta_%010d.%s", fnkey, tidx, enctype))
}

func save_file(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
