// Package scenario runs scripted allocate/free/resize sequences against a pool.
//
// Scripts are YAML documents:
//
//	order_max: 4
//	order_min: 2
//	steps:
//	  - {op: alloc, name: a, size: 4}
//	  - {op: fill, name: a, data: "abcd"}
//	  - {op: realloc, name: a, size: 16, expect: out_of_space}
//	  - {op: free, name: a}
//	  - {op: report, level: total, label: done}
//
// Named handles stand for block offsets. Freeing or resizing an unknown name
// passes an offset outside the pool, which the pool rejects.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/buddy"
)

var (
	// ErrScript indicates a malformed script or a step referring to nothing.
	ErrScript = errors.New("scenario: bad script")

	// ErrUnexpected indicates a step whose outcome differs from its expectation.
	ErrUnexpected = errors.New("scenario: unexpected outcome")
)

// Op names a step kind.
type Op string

const (
	OpAlloc   Op = "alloc"
	OpFree    Op = "free"
	OpRealloc Op = "realloc"
	OpReset   Op = "reset"
	OpReport  Op = "report"
	OpFill    Op = "fill"
	OpCheck   Op = "check"
)

// Expected outcomes.
const (
	ExpectOK              = "ok"
	ExpectOutOfSpace      = "out_of_space"
	ExpectInvalidArgument = "invalid_argument"
)

// Script is a pool configuration plus the steps to run against it.
type Script struct {
	OrderMax int    `yaml:"order_max"`
	OrderMin int    `yaml:"order_min"`
	Steps    []Step `yaml:"steps"`
}

// Step is one operation. Which fields matter depends on Op.
type Step struct {
	Op     Op     `yaml:"op"`
	Name   string `yaml:"name,omitempty"`
	Size   int    `yaml:"size,omitempty"`
	Data   string `yaml:"data,omitempty"`
	Level  string `yaml:"level,omitempty"`
	Label  string `yaml:"label,omitempty"`
	Expect string `yaml:"expect,omitempty"`
}

func (s Step) String() string {
	if s.Name == "" {
		return string(s.Op)
	}
	return fmt.Sprintf("%s %s", s.Op, s.Name)
}

// Load decodes a script, rejecting unknown fields.
func Load(r io.Reader) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Script{}, fmt.Errorf("%w: %w", ErrScript, err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Marshal encodes the script as YAML.
func (s Script) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks that every step is well formed. Pool orders are left to
// buddy.New so its own limits apply.
func (s Script) Validate() error {
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("%w: step %d (%s): %s", ErrScript, i, st, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	switch s.Expect {
	case "", ExpectOK, ExpectOutOfSpace, ExpectInvalidArgument:
	default:
		return fmt.Errorf("unknown expectation %q", s.Expect)
	}

	switch s.Op {
	case OpAlloc, OpRealloc, OpFree, OpFill, OpCheck:
		if s.Name == "" {
			return errors.New("missing name")
		}
	case OpReset:
	case OpReport:
		if _, err := buddy.ParseReportLevel(s.Level); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	return nil
}

// Demo is the 16-byte pool walk-through: four minimum blocks fill the pool,
// a fifth request fails, and freeing them merges the pool back into one block.
func Demo() Script {
	return Script{
		OrderMax: 4,
		OrderMin: 2,
		Steps: []Step{
			{Op: OpReport, Level: "total", Label: "fresh"},
			{Op: OpAlloc, Name: "a", Size: 4},
			{Op: OpFill, Name: "a", Data: "abcd"},
			{Op: OpAlloc, Name: "b", Size: 4},
			{Op: OpAlloc, Name: "c", Size: 4},
			{Op: OpAlloc, Name: "d", Size: 4},
			{Op: OpAlloc, Name: "e", Size: 4, Expect: ExpectOutOfSpace},
			{Op: OpReport, Level: "detail", Label: "full"},
			{Op: OpRealloc, Name: "a", Size: 8, Expect: ExpectOutOfSpace},
			{Op: OpCheck, Name: "a", Data: "abcd"},
			{Op: OpFree, Name: "a"},
			{Op: OpFree, Name: "b"},
			{Op: OpFree, Name: "c"},
			{Op: OpFree, Name: "d"},
			{Op: OpFree, Name: "a", Expect: ExpectInvalidArgument},
			{Op: OpAlloc, Name: "whole", Size: 16},
			{Op: OpReport, Level: "total", Label: "merged"},
		},
	}
}
