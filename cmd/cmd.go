/*
Copyright © 2020 ConsenSys

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cmd is a CLI tool to run tolerance propagation over equation files
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/consensys/errprop/deriv"
	"github.com/consensys/errprop/eqfile"
	"github.com/consensys/errprop/eqsys"
	"github.com/consensys/errprop/solution"
	"github.com/consensys/errprop/solver"
)

// inputFile is the YAML measurement file handed to solve and check.
type inputFile struct {
	Values     map[string]float64 `yaml:"values"`
	Tolerances map[string]float64 `yaml:"tolerances"`
	Const      map[string]float64 `yaml:"const"`
}

func cmdSolve(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing equation file -- errprop solve -h for help")
		os.Exit(-1)
	}
	path := filepath.Clean(args[0])

	f, err := eqfile.Load(path)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %d equations\n", "loaded equation file", path, len(f.Equations))

	in, err := loadInput(fInputPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %-30s %d values, %d tolerances\n", "loaded input", fInputPath, len(in.Values), len(in.Tolerances))

	opts, err := solveOptions(in)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	combos := fCombos
	if len(combos) == 0 {
		combos = []string{""}
	}

	// combos are independent systems; solve them concurrently and print the
	// reports in flag order
	start := time.Now()
	results := make([]*bytes.Buffer, len(combos))
	var g errgroup.Group
	for i, combo := range combos {
		g.Go(func() error {
			sys, err := buildSystem(f, in, combo)
			if err != nil {
				return comboErr(combo, err)
			}
			sol, err := solver.Solve(sys, opts...)
			if err != nil {
				return comboErr(combo, err)
			}
			buf := new(bytes.Buffer)
			if err := render(buf, combo, sol); err != nil {
				return comboErr(combo, err)
			}
			results[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	duration := time.Since(start)

	out := os.Stdout
	if fOutputPath != "" {
		fh, err := os.Create(filepath.Clean(fOutputPath))
		if err != nil {
			fmt.Println("error:", err)
			os.Exit(-1)
		}
		defer fh.Close()
		out = fh
	}
	for _, buf := range results {
		if _, err := buf.WriteTo(out); err != nil {
			fmt.Println("error:", err)
			os.Exit(-1)
		}
	}
	fmt.Printf("%-30s %d combo(s) %-30s\n", "solved", len(combos), duration)
}

func cmdCheck(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing equation file -- errprop check -h for help")
		os.Exit(-1)
	}
	path := filepath.Clean(args[0])

	f, err := eqfile.Load(path)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	in, err := loadInput(fInputPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	ok := true
	for _, combo := range append([]string{""}, f.ComboNames()...) {
		sys, err := checkSystem(f, in, combo)
		if err != nil {
			fmt.Printf("%-30s %s\n", comboLabel(combo), err)
			ok = false
			continue
		}

		levels := sys.Levels()
		assigned := 0
		for _, level := range levels {
			assigned += len(level)
		}
		fmt.Printf("%-30s %d equations, %d variables, depth %d\n",
			comboLabel(combo), sys.Len(), sys.Store().Len(), len(levels))
		if assigned != sys.Len() {
			fmt.Printf("%-30s %d equations caught in a dependency cycle\n",
				comboLabel(combo), sys.Len()-assigned)
			ok = false
		}
	}
	if !ok {
		os.Exit(-1)
	}
}

func cmdFmt(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		fmt.Println("missing equation file -- errprop fmt -h for help")
		os.Exit(-1)
	}
	path := filepath.Clean(args[0])

	f, err := eqfile.Load(path)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}

	// normalize the equation texts through a parse and print round trip
	for i, text := range f.Equations {
		eq, err := eqsys.ParseEquation(text)
		if err != nil {
			fmt.Println("error:", err)
			os.Exit(-1)
		}
		f.Equations[i] = eq.String()
	}

	if !fWrite {
		if _, err := f.WriteTo(os.Stdout); err != nil {
			fmt.Println("error:", err)
			os.Exit(-1)
		}
		return
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		fmt.Println("error:", err)
		os.Exit(-1)
	}
	fmt.Printf("%-30s %s\n", "rewrote", path)
}

// loadInput reads the YAML input file. Unknown keys are rejected so typos in
// section names surface instead of dropping measurements.
func loadInput(path string) (*inputFile, error) {
	var in inputFile
	if path == "" {
		return &in, nil
	}
	fh, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &in, nil
}

func solveOptions(in *inputFile) ([]solver.Option, error) {
	var opts []solver.Option
	if fNumeric {
		engine, err := deriv.FiniteDifference()
		if err != nil {
			return nil, err
		}
		opts = append(opts, solver.WithEngine(engine))
	}
	if fCheck {
		opts = append(opts, solver.WithValueCheck(fCheckTol))
	}
	if len(in.Const) > 0 {
		opts = append(opts, solver.WithConstError(in.Const))
	}
	return opts, nil
}

// buildSystem declares the input file's variables in sorted name order, adds
// every remaining equation output as a derived output and validates the
// selected equations against them.
func buildSystem(f *eqfile.File, in *inputFile, combo string) (*eqsys.System, error) {
	equations, err := f.Select(combo)
	if err != nil {
		return nil, err
	}

	store := eqsys.NewStore()
	declared, err := declareInputs(store, in)
	if err != nil {
		return nil, err
	}

	for _, text := range equations {
		eq, err := eqsys.ParseEquation(text)
		if err != nil {
			return nil, err
		}
		out := renamed(f, eq.Output)
		if declared[out] {
			continue
		}
		declared[out] = true
		if err := store.DeclareOutput(out); err != nil {
			return nil, err
		}
	}

	return eqsys.NewSystem(equations, store, eqsys.WithNames(f.Names))
}

// checkSystem builds the system for structural validation only. Inputs the
// input file does not cover are declared with placeholder values, so a bare
// equation file can be checked without any measurement data.
func checkSystem(f *eqfile.File, in *inputFile, combo string) (*eqsys.System, error) {
	equations, err := f.Select(combo)
	if err != nil {
		return nil, err
	}

	parsed := make([]eqsys.Equation, 0, len(equations))
	for _, text := range equations {
		eq, err := eqsys.ParseEquation(text)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, eq)
	}

	store := eqsys.NewStore()
	declared, err := declareInputs(store, in)
	if err != nil {
		return nil, err
	}
	for _, eq := range parsed {
		out := renamed(f, eq.Output)
		if declared[out] {
			continue
		}
		declared[out] = true
		if err := store.DeclareOutput(out); err != nil {
			return nil, err
		}
	}
	for _, eq := range parsed {
		for _, input := range eq.Inputs {
			name := renamed(f, input)
			if declared[name] {
				continue
			}
			declared[name] = true
			if err := store.Declare(name, 0, eqsys.Unknown()); err != nil {
				return nil, err
			}
		}
	}

	return eqsys.NewSystem(equations, store, eqsys.WithNames(f.Names))
}

// declareInputs declares every variable of the input file, in sorted name
// order so reports are stable across runs.
func declareInputs(store *eqsys.Store, in *inputFile) (map[string]bool, error) {
	declared := make(map[string]bool, len(in.Values)+len(in.Tolerances))
	names := make([]string, 0, len(in.Values)+len(in.Tolerances))
	for name := range in.Values {
		if !declared[name] {
			declared[name] = true
			names = append(names, name)
		}
	}
	for name := range in.Tolerances {
		if !declared[name] {
			declared[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		value, hasValue := in.Values[name]
		if !hasValue {
			return nil, fmt.Errorf("variable %q has a tolerance but no value", name)
		}
		tol := eqsys.Unknown()
		if t, ok := in.Tolerances[name]; ok {
			tol = eqsys.Known(t)
		}
		if err := store.Declare(name, value, tol); err != nil {
			return nil, err
		}
	}
	return declared, nil
}

// renamed maps a variable through the file's [names] section.
func renamed(f *eqfile.File, name string) string {
	if to, ok := f.Names[name]; ok {
		return to
	}
	return name
}

func render(w io.Writer, combo string, sol *solution.Solution) error {
	if combo != "" {
		if _, err := fmt.Fprintf(w, "# combo: %s\n", combo); err != nil {
			return err
		}
	}
	switch fFormat {
	case "table":
		_, err := io.WriteString(w, sol.String())
		return err
	case "csv":
		return sol.WriteCSV(w)
	default:
		return fmt.Errorf("unknown format %q, want table or csv", fFormat)
	}
}

func comboErr(combo string, err error) error {
	if combo == "" {
		return err
	}
	return fmt.Errorf("combo %q: %w", combo, err)
}

func comboLabel(combo string) string {
	if combo == "" {
		return "all equations"
	}
	return "combo " + combo
}
