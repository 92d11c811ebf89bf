package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pavanmanishd/buddy"
)

// Result records what a step did. Offset is -1 when no block is involved.
type Result struct {
	Index  int
	Step   Step
	Offset int
	Err    error
}

// Outcome names the result's error the way expectations do.
func (r Result) Outcome() string {
	return outcome(r.Err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return ExpectOK
	case errors.Is(err, buddy.ErrOutOfSpace):
		return ExpectOutOfSpace
	case errors.Is(err, buddy.ErrInvalidArgument):
		return ExpectInvalidArgument
	default:
		return err.Error()
	}
}

// Runner executes steps against one pool and tracks named blocks.
type Runner struct {
	pool    *buddy.Pool
	out     io.Writer
	log     zerolog.Logger
	handles map[string]int
}

// NewRunner returns a Runner writing reports to out.
func NewRunner(p *buddy.Pool, out io.Writer, log zerolog.Logger) *Runner {
	return &Runner{pool: p, out: out, log: log, handles: make(map[string]int)}
}

// Run executes the steps in order. A step whose outcome differs from its
// expectation (ok when unset) stops the run with ErrUnexpected; the results
// gathered so far are returned with it.
func (r *Runner) Run(steps []Step) ([]Result, error) {
	results := make([]Result, 0, len(steps))
	for i, st := range steps {
		if err := st.validate(); err != nil {
			return results, fmt.Errorf("%w: step %d (%s): %s", ErrScript, i, st, err)
		}

		res, err := r.step(i, st)
		if err != nil {
			return results, err
		}
		results = append(results, res)

		want := st.Expect
		if want == "" {
			want = ExpectOK
		}
		got := res.Outcome()
		r.log.Debug().Int("step", i).Str("op", string(st.Op)).Str("name", st.Name).
			Int("offset", res.Offset).Str("outcome", got).Msg("step")
		if got != want {
			return results, fmt.Errorf("%w: step %d (%s): want %s, got %s", ErrUnexpected, i, st, want, got)
		}
	}
	return results, nil
}

// Offset returns the block offset bound to name.
func (r *Runner) Offset(name string) (int, bool) {
	off, ok := r.handles[name]
	return off, ok
}

// step runs one operation. Pool errors go into the Result; only script
// errors are returned.
func (r *Runner) step(i int, st Step) (Result, error) {
	res := Result{Index: i, Step: st, Offset: -1}

	switch st.Op {
	case OpAlloc:
		off, err := r.pool.AllocOffset(st.Size)
		res.Offset, res.Err = off, err
		if err == nil {
			r.handles[st.Name] = off
		}

	case OpFree:
		off := r.lookup(st.Name)
		res.Offset, res.Err = off, r.pool.FreeOffset(off)
		if res.Err == nil {
			delete(r.handles, st.Name)
		}

	case OpRealloc:
		off, err := r.pool.ResizeOffset(r.lookup(st.Name), st.Size)
		res.Offset, res.Err = off, err
		if err == nil {
			r.handles[st.Name] = off
		}

	case OpReset:
		res.Err = r.pool.Reset()
		clear(r.handles)

	case OpReport:
		level, _ := buddy.ParseReportLevel(st.Level)
		_, res.Err = r.pool.Report(r.out, level, st.Label)

	case OpFill, OpCheck:
		off, ok := r.handles[st.Name]
		if !ok {
			return res, fmt.Errorf("%w: step %d (%s): no live block named %q", ErrScript, i, st, st.Name)
		}
		res.Offset = off
		b, err := r.pool.Bytes(off, len(st.Data))
		if err != nil {
			res.Err = err
			break
		}
		if st.Op == OpFill {
			copy(b, st.Data)
			break
		}
		if !bytes.Equal(b, []byte(st.Data)) {
			return res, fmt.Errorf("%w: step %d (%s): block holds %q, want %q", ErrUnexpected, i, st, b, st.Data)
		}
	}
	return res, nil
}

// lookup returns the offset bound to name, or -1 which no pool accepts.
func (r *Runner) lookup(name string) int {
	if off, ok := r.handles[name]; ok {
		return off
	}
	return -1
}

// Execute creates a pool for the script, runs it and closes the pool.
func Execute(s Script, out io.Writer, log zerolog.Logger, opts ...buddy.Option) ([]Result, error) {
	opts = append([]buddy.Option{buddy.WithLogger(log)}, opts...)
	p, err := buddy.New(s.OrderMax, s.OrderMin, opts...)
	if err != nil {
		return nil, err
	}
	results, err := NewRunner(p, out, log).Run(s.Steps)
	return results, errors.Join(err, p.Close())
}
