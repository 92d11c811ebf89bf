package buddy

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// ReportLevel selects how much Report prints.
type ReportLevel int

const (
	ReportNone   ReportLevel = iota // print nothing
	ReportTotal                     // print the order of every live block
	ReportDetail                    // also dump every live block's bytes
)

func (l ReportLevel) String() string {
	switch l {
	case ReportNone:
		return "none"
	case ReportTotal:
		return "total"
	case ReportDetail:
		return "detail"
	default:
		return fmt.Sprintf("ReportLevel(%d)", int(l))
	}
}

// ParseReportLevel accepts the names printed by ReportLevel.String.
func ParseReportLevel(s string) (ReportLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return ReportNone, nil
	case "total":
		return ReportTotal, nil
	case "detail":
		return ReportDetail, nil
	}
	return ReportNone, fmt.Errorf("%w: unknown report level %q", ErrInvalidArgument, s)
}

// Usage is the summary a report ends with.
type Usage struct {
	Used     int // bytes in live blocks
	Capacity int // arena size
}

// Report writes the live blocks of the pool to w and returns the totals.
// ReportNone writes nothing and returns a zero Usage. Both other levels end
// with a "(used / capacity)" line tagged with label.
func (p *Pool) Report(w io.Writer, level ReportLevel, label string) (Usage, error) {
	if level == ReportNone {
		return Usage{}, nil
	}
	if err := p.check("status"); err != nil {
		return Usage{}, err
	}
	if level != ReportTotal && level != ReportDetail {
		return Usage{}, p.reject("status", fmt.Errorf("%w: report level %d", ErrInvalidArgument, int(level)))
	}

	var buf bytes.Buffer
	u := Usage{Capacity: len(p.arena)}
	p.tree.walk(func(i int, order uint8) {
		size := 1 << order
		u.Used += size
		if level == ReportTotal {
			if u.Used != size {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%d", order)
			return
		}
		off := p.tree.offset(i, order)
		fmt.Fprintf(&buf, "%2d: 0x%04x:", order, off)
		for _, c := range p.arena[off : off+size] {
			fmt.Fprintf(&buf, " %02X", c)
		}
		buf.WriteByte('\n')
	})

	if level == ReportTotal && u.Used != 0 {
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "buddy: (%d / %d) used: %s\n", u.Used, u.Capacity, label)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return u, fmt.Errorf("buddy: writing report: %w", err)
	}
	return u, nil
}
