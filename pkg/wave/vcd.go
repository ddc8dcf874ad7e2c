package wave

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// VCD header scanning. Only the declaration section matters here: scopes,
// vars and upscopes up to $enddefinitions. Value changes are skipped
// entirely; the panel only needs the scope structure.

// LoadVCD reads the scope tree from a VCD file on disk.
func LoadVCD(path string) (*Wave, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wave file: %w", err)
	}
	defer f.Close()
	w, err := ParseVCD(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// ParseVCD scans a VCD declaration section from r.
func ParseVCD(r io.Reader) (*Wave, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	w := &Wave{}
	var stack []*Scope

	for sc.Scan() {
		switch sc.Text() {
		case "$scope":
			args, err := collectUntilEnd(sc)
			if err != nil {
				return nil, err
			}
			if len(args) < 2 {
				return nil, fmt.Errorf("malformed $scope declaration")
			}
			s := &Scope{Kind: args[0], Name: args[1]}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				s.Parent = parent
				parent.Scopes = append(parent.Scopes, s)
			} else {
				w.Roots = append(w.Roots, s)
			}
			stack = append(stack, s)

		case "$upscope":
			if _, err := collectUntilEnd(sc); err != nil {
				return nil, err
			}
			if len(stack) == 0 {
				return nil, fmt.Errorf("$upscope without matching $scope")
			}
			stack = stack[:len(stack)-1]

		case "$var":
			args, err := collectUntilEnd(sc)
			if err != nil {
				return nil, err
			}
			// $var <type> <width> <id> <name> [range] $end
			if len(args) < 4 {
				return nil, fmt.Errorf("malformed $var declaration")
			}
			if len(stack) == 0 {
				return nil, fmt.Errorf("$var outside any $scope")
			}
			width, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("bad $var width %q", args[1])
			}
			parent := stack[len(stack)-1]
			parent.Signals = append(parent.Signals, &Signal{
				Name:   args[3],
				Width:  width,
				Dir:    varDirection(args[0]),
				Parent: parent,
			})

		case "$enddefinitions":
			if len(stack) != 0 {
				return nil, fmt.Errorf("unbalanced $scope at end of declarations")
			}
			if len(w.Roots) == 0 {
				return nil, fmt.Errorf("no scope declarations found")
			}
			return w, nil

		case "$comment", "$date", "$timescale", "$version":
			if _, err := collectUntilEnd(sc); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning wave header: %w", err)
	}
	if len(w.Roots) == 0 {
		return nil, fmt.Errorf("no scope declarations found")
	}
	return w, nil
}

// varDirection maps dumped var types to a port direction. Plain VCD types
// (wire, reg, ...) carry no direction.
func varDirection(typ string) Direction {
	switch typ {
	case "input", "in":
		return DirInput
	case "output", "out":
		return DirOutput
	case "inout":
		return DirInout
	default:
		return DirNone
	}
}

func collectUntilEnd(sc *bufio.Scanner) ([]string, error) {
	var args []string
	for sc.Scan() {
		tok := sc.Text()
		if tok == "$end" {
			return args, nil
		}
		args = append(args, tok)
	}
	return nil, fmt.Errorf("unterminated directive in wave header")
}
