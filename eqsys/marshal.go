package eqsys

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// snapshot is the serialized, declarative form of a system: normalized
// equation text plus per-variable state. Deserialization re-runs full
// construction, so corrupt or hand-edited snapshots are rejected by the same
// validation as fresh input.
type snapshot struct {
	Equations []string
	Variables []varSnapshot
}

type varSnapshot struct {
	Name     string
	Value    float64
	HasValue bool
	Tol      float64
	Known    bool
	Derived  bool
}

// WriteTo serializes the system with CBOR.
func (sys *System) WriteTo(w io.Writer) (int64, error) {
	snap := snapshot{
		Equations: make([]string, len(sys.equations)),
		Variables: make([]varSnapshot, 0, sys.store.Len()),
	}
	for i, eq := range sys.equations {
		snap.Equations[i] = eq.String()
	}
	for _, name := range sys.store.order {
		v := sys.store.vars[name]
		tol, known := v.tol.Value()
		snap.Variables = append(snap.Variables, varSnapshot{
			Name:     v.Name,
			Value:    v.value,
			HasValue: v.hasValue,
			Tol:      tol,
			Known:    known,
			Derived:  v.derived,
		})
	}

	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: w}
	if err := enc.NewEncoder(cw).Encode(snap); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadSystemFrom deserializes a system written by WriteTo.
func ReadSystemFrom(r io.Reader) (*System, error) {
	dm, err := cbor.DecOptions{
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DecMode()
	if err != nil {
		return nil, err
	}

	var snap snapshot
	if err := dm.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}

	store := NewStore()
	for _, v := range snap.Variables {
		if !v.HasValue {
			if v.Known {
				return nil, fmt.Errorf("%q: snapshot has a tolerance but no value", v.Name)
			}
			if err := store.DeclareOutput(v.Name); err != nil {
				return nil, err
			}
			continue
		}
		if err := store.Declare(v.Name, v.Value, Unknown()); err != nil {
			return nil, err
		}
		if v.Known {
			if err := store.SetTolerance(v.Name, v.Tol, v.Derived); err != nil {
				return nil, err
			}
		}
	}

	return NewSystem(snap.Equations, store)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
