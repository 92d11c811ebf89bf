package scenario

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/buddy"
)

const script = `
order_max: 5
order_min: 2
steps:
  - {op: alloc, name: hdr, size: 3}
  - {op: fill, name: hdr, data: "v1"}
  - {op: alloc, name: body, size: 9}
  - {op: realloc, name: hdr, size: 8}
  - {op: check, name: hdr, data: "v1"}
  - {op: report, level: total, label: mid}
  - {op: free, name: body}
  - {op: free, name: body, expect: invalid_argument}
  - {op: alloc, name: big, size: 64, expect: out_of_space}
  - {op: reset}
  - {op: report, level: total, label: end}
`

func TestLoadAndExecute(t *testing.T) {
	s, err := Load(strings.NewReader(script))
	require.NoError(t, err)
	require.Equal(t, 5, s.OrderMax)
	require.Equal(t, 2, s.OrderMin)
	require.Len(t, s.Steps, 11)

	var out bytes.Buffer
	results, err := Execute(s, &out, zerolog.Nop(), buddy.WithSource(buddy.HeapSource()))
	require.NoError(t, err)
	require.Len(t, results, 11)

	require.Equal(t, 0, results[0].Offset)  // hdr [0, 4)
	require.Equal(t, 16, results[2].Offset) // body [16, 32)
	require.Equal(t, 0, results[3].Offset)  // hdr grows in place into [0, 8)
	require.Equal(t, ExpectInvalidArgument, results[7].Outcome())
	require.Equal(t, ExpectOutOfSpace, results[8].Outcome())

	require.Equal(t,
		"3 4\nbuddy: (24 / 32) used: mid\n"+
			"buddy: (0 / 32) used: end\n",
		out.String())
}

func TestDemo(t *testing.T) {
	s := Demo()
	require.NoError(t, s.Validate())

	var out bytes.Buffer
	results, err := Execute(s, &out, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, results, len(s.Steps))
	require.True(t, strings.HasSuffix(out.String(), "4\nbuddy: (16 / 16) used: merged\n"), out.String())
	require.Contains(t, out.String(), " 2: 0x0000: 61 62 63 64\n")
}

func TestUnexpectedOutcome(t *testing.T) {
	s := Script{OrderMax: 4, OrderMin: 2, Steps: []Step{
		{Op: OpAlloc, Name: "a", Size: 16},
		{Op: OpAlloc, Name: "b", Size: 1},
	}}
	results, err := Execute(s, &bytes.Buffer{}, zerolog.Nop())
	require.ErrorIs(t, err, ErrUnexpected)
	require.Contains(t, err.Error(), "step 1 (alloc b): want ok, got out_of_space")
	require.Len(t, results, 2)
}

func TestCheckMismatch(t *testing.T) {
	s := Script{OrderMax: 4, OrderMin: 2, Steps: []Step{
		{Op: OpAlloc, Name: "a", Size: 4},
		{Op: OpFill, Name: "a", Data: "abcd"},
		{Op: OpCheck, Name: "a", Data: "abce"},
	}}
	_, err := Execute(s, &bytes.Buffer{}, zerolog.Nop())
	require.ErrorIs(t, err, ErrUnexpected)
}

func TestRunnerTracksHandles(t *testing.T) {
	p, err := buddy.New(4, 2, buddy.WithLogger(zerolog.Nop()), buddy.WithSource(buddy.HeapSource()))
	require.NoError(t, err)
	defer p.Close()

	r := NewRunner(p, &bytes.Buffer{}, zerolog.Nop())
	_, err = r.Run([]Step{{Op: OpAlloc, Name: "x", Size: 8}, {Op: OpAlloc, Name: "y", Size: 4}})
	require.NoError(t, err)

	off, ok := r.Offset("y")
	require.True(t, ok)
	require.Equal(t, 8, off)

	_, err = r.Run([]Step{{Op: OpReset}})
	require.NoError(t, err)
	_, ok = r.Offset("x")
	require.False(t, ok)

	_, err = r.Run([]Step{{Op: OpFill, Name: "x", Data: "zz"}})
	require.ErrorIs(t, err, ErrScript)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "order_max: 4\norder_min: 2\ncolour: red\n"},
		{"unknown op", "steps:\n  - {op: compact}\n"},
		{"missing name", "steps:\n  - {op: alloc, size: 4}\n"},
		{"bad level", "steps:\n  - {op: report, level: loud}\n"},
		{"bad expectation", "steps:\n  - {op: reset, expect: maybe}\n"},
		{"not yaml", "steps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, ErrScript)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Demo().Marshal()
	require.NoError(t, err)
	require.Contains(t, string(data), "order_max: 4")

	s, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, Demo(), s)
}

func TestExecuteBadOrders(t *testing.T) {
	_, err := Execute(Script{OrderMax: 2, OrderMin: 2}, &bytes.Buffer{}, zerolog.Nop())
	require.ErrorIs(t, err, buddy.ErrConfig)
}
