// Package eqfile reads and writes .ef equation files, the on-disk input
// format of the resolver. A file is line oriented; # starts a comment and
// blank lines are skipped. Content is grouped into sections:
//
//	[equations]
//	A = pi * r**2    # one equation per line
//	V = A * h
//
//	[names]
//	A : area         # rename A to area in every equation
//
//	[combos]
//	area : 0         # named subsets of equations, by index
//	all : 0 1
//
// Sections may appear in any order and may repeat; repeating a section
// appends to it. Anything structurally wrong fails parsing with the
// offending line number.
package eqfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrInvalidSection is returned when a file contains a section header
	// other than [equations], [names] or [combos].
	ErrInvalidSection = errors.New("unknown section")

	// ErrMalformedLine is returned when a line does not fit its section's
	// format.
	ErrMalformedLine = errors.New("malformed line")

	// ErrUnknownCombo is returned by Select for a combo name the file does
	// not define.
	ErrUnknownCombo = errors.New("combo is not defined")
)

const (
	sectionEquations = "equations"
	sectionNames     = "names"
	sectionCombos    = "combos"
)

// File is the parsed content of an .ef equation file.
type File struct {
	// Equations holds the equation texts in file order. Combo indices refer
	// to positions in this slice.
	Equations []string

	// Names maps variable names as written in the equations to the names the
	// caller wants to work with.
	Names map[string]string

	// Combos maps a combo name to the indices of the equations it selects.
	Combos map[string][]int
}

// Load reads and parses the .ef file at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse reads an .ef file from r.
func Parse(r io.Reader) (*File, error) {
	f := &File{
		Names:  make(map[string]string),
		Combos: make(map[string][]int),
	}

	section := ""
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			switch section {
			case sectionEquations, sectionNames, sectionCombos:
			default:
				return nil, fmt.Errorf("line %d: %q: %w", n, section, ErrInvalidSection)
			}
			continue
		}

		switch section {
		case sectionEquations:
			f.Equations = append(f.Equations, line)

		case sectionNames:
			from, to, err := splitPair(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			if _, ok := f.Names[from]; ok {
				return nil, fmt.Errorf("line %d: name %q redefined: %w", n, from, ErrMalformedLine)
			}
			f.Names[from] = to

		case sectionCombos:
			name, rest, err := splitPair(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			if _, ok := f.Combos[name]; ok {
				return nil, fmt.Errorf("line %d: combo %q redefined: %w", n, name, ErrMalformedLine)
			}
			fields := strings.Fields(rest)
			indices := make([]int, 0, len(fields))
			for _, field := range fields {
				i, err := strconv.Atoi(field)
				if err != nil {
					return nil, fmt.Errorf("line %d: combo %q: %q is not an equation index: %w", n, name, field, ErrMalformedLine)
				}
				indices = append(indices, i)
			}
			f.Combos[name] = indices

		default:
			return nil, fmt.Errorf("line %d: content before a section header: %w", n, ErrMalformedLine)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for name, indices := range f.Combos {
		for _, i := range indices {
			if i < 0 || i >= len(f.Equations) {
				return nil, fmt.Errorf("combo %q: equation index %d out of range: %w", name, i, ErrMalformedLine)
			}
		}
	}
	return f, nil
}

// splitPair parses a "key : value" line. Exactly one colon is allowed and
// neither side may be empty.
func splitPair(line string) (string, string, error) {
	if strings.Count(line, ":") != 1 {
		return "", "", fmt.Errorf("%q: expected \"key : value\": %w", line, ErrMalformedLine)
	}
	before, after, _ := strings.Cut(line, ":")
	k, v := strings.TrimSpace(before), strings.TrimSpace(after)
	if k == "" || v == "" {
		return "", "", fmt.Errorf("%q: expected \"key : value\": %w", line, ErrMalformedLine)
	}
	return k, v, nil
}

// Select returns the equations of the named combo, in combo order. The empty
// combo name selects every equation in file order.
func (f *File) Select(combo string) ([]string, error) {
	if combo == "" {
		out := make([]string, len(f.Equations))
		copy(out, f.Equations)
		return out, nil
	}
	indices, ok := f.Combos[combo]
	if !ok {
		return nil, fmt.Errorf("%q: %w", combo, ErrUnknownCombo)
	}
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(f.Equations) {
			return nil, fmt.Errorf("combo %q: equation index %d out of range: %w", combo, i, ErrMalformedLine)
		}
		out = append(out, f.Equations[i])
	}
	return out, nil
}

// ComboNames returns the combo names in sorted order.
func (f *File) ComboNames() []string {
	names := make([]string, 0, len(f.Combos))
	for name := range f.Combos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteTo writes the file in canonical form: sections in a fixed order, one
// blank line between sections, names and combos sorted by key. Empty
// sections are omitted.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	if len(f.Equations) > 0 {
		buf.WriteString("[" + sectionEquations + "]\n")
		for _, eq := range f.Equations {
			buf.WriteString(eq)
			buf.WriteByte('\n')
		}
	}

	if len(f.Names) > 0 {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString("[" + sectionNames + "]\n")
		froms := make([]string, 0, len(f.Names))
		for from := range f.Names {
			froms = append(froms, from)
		}
		sort.Strings(froms)
		for _, from := range froms {
			fmt.Fprintf(&buf, "%s : %s\n", from, f.Names[from])
		}
	}

	if len(f.Combos) > 0 {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString("[" + sectionCombos + "]\n")
		for _, name := range f.ComboNames() {
			indices := f.Combos[name]
			strs := make([]string, len(indices))
			for i, v := range indices {
				strs[i] = strconv.Itoa(v)
			}
			fmt.Fprintf(&buf, "%s : %s\n", name, strings.Join(strs, " "))
		}
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}
