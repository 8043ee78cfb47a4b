// Package jsonl reads and writes changeset specs as JSON Lines.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/changediff"
)

// maxLineSize bounds a single spec; commit bodies can be long.
const maxLineSize = 16 * 1024 * 1024

// Loader reads changeset specs from a JSONL file, one spec per line.
type Loader struct{}

// NewLoader creates a new JSONL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every spec in path. Blank lines are skipped.
func (l *Loader) Load(path string) ([]changediff.ChangesetSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.Read(f)
}

// Read decodes specs from r.
func (l *Loader) Read(r io.Reader) ([]changediff.ChangesetSpec, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var specs []changediff.ChangesetSpec
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var spec changediff.ChangesetSpec
		if err := json.Unmarshal(line, &spec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		specs = append(specs, spec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return specs, nil
}

// Write encodes specs to w, one per line.
func Write(w io.Writer, specs []changediff.ChangesetSpec) error {
	enc := json.NewEncoder(w)
	for i, spec := range specs {
		if err := enc.Encode(spec); err != nil {
			return fmt.Errorf("spec %d: %w", i, err)
		}
	}
	return nil
}
