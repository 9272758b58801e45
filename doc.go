// Package errprop derives worst case error tolerances for systems of explicit
// equations, the way hand propagation of measurement uncertainty works: each
// equation is linearized at the measurement point and the absolute partial
// contributions of its inputs are accumulated into the tolerance of its
// output.
//
// The packages compose as follows:
//   - expr: expression parsing, evaluation and symbolic differentiation
//   - deriv: interchangeable differentiation engines
//   - eqsys: equations, variable stores and validated systems
//   - solver: the pass based propagation engine
//   - solution: frozen results and report rendering
//   - eqfile: the .ef equation file format
//   - pipeline: chained multi system solves
package errprop

import (
	"github.com/blang/semver/v4"
)

var Version = semver.MustParse("0.1.0")
