package diff

import (
	"strings"
)

// Kind classifies a line level change.
type Kind string

const (
	Addition     Kind = "addition"
	Deletion     Kind = "deletion"
	Modification Kind = "modification"
)

// Change is a single line level difference. Line numbers are 1-based and
// zero when the side does not apply (destination of a deletion, origin of
// an addition).
type Change struct {
	Kind            Kind   `json:"kind"`
	OriginLine      int    `json:"originLine,omitempty"`
	DestinationLine int    `json:"destinationLine,omitempty"`
	OriginText      string `json:"originText,omitempty"`
	DestinationText string `json:"destinationText,omitempty"`
}

// Result is the outcome of comparing two payloads line by line.
type Result struct {
	Changes          []Change `json:"changes"`
	Additions        int      `json:"additions"`
	Deletions        int      `json:"deletions"`
	Modifications    int      `json:"modifications"`
	OriginLines      int      `json:"originLines"`
	DestinationLines int      `json:"destinationLines"`
}

// Changed returns the number of changed lines.
func (r *Result) Changed() int {
	return r.Additions + r.Deletions + r.Modifications
}

// Percentage returns the share of changed lines over the longer payload,
// clamped to [0, 100].
func (r *Result) Percentage() float64 {
	denominator := max(r.OriginLines, r.DestinationLines, 1)
	pct := float64(r.Changed()) / float64(denominator) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}

	return pct
}

// Empty reports whether the payloads are line-equal.
func (r *Result) Empty() bool {
	return r.Changed() == 0
}

// Differ computes line differences between two payloads.
type Differ interface {
	Diff(origin, destination string) *Result
}

const defaultMaxCells = 1 << 22

// Engine aligns lines with a longest common subsequence. Inputs whose
// quadratic table would exceed MaxCells are aligned in linear space.
type Engine struct {
	MaxCells int
}

var _ Differ = (*Engine)(nil)

// NewEngine returns an engine with the default table ceiling.
func NewEngine() *Engine {
	return &Engine{MaxCells: defaultMaxCells}
}

// Lines compares origin and destination with the default engine.
func Lines(origin, destination string) *Result {
	return NewEngine().Diff(origin, destination)
}

// Diff compares origin and destination line by line.
func (e *Engine) Diff(origin, destination string) *Result {
	// align in a fixed argument order so that swapping the inputs mirrors
	// the result exactly
	swapped := origin > destination
	if swapped {
		origin, destination = destination, origin
	}

	a := SplitLines(origin)
	b := SplitLines(destination)

	script := e.align(a, b)
	if swapped {
		a, b = b, a
		script = mirror(script)
	}

	return collect(a, b, script)
}

// SplitLines splits content into lines. CRLF is treated as LF, a single
// trailing newline does not start a new line and empty content has no lines.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")

	return strings.Split(content, "\n")
}

// collect groups an edit script into changes. Inside a run of non-equal
// lines, deletions and additions are paired in order as modifications and
// the remainder is reported as-is.
func collect(a, b []string, script []edit) *Result {
	res := &Result{
		Changes:          make([]Change, 0),
		OriginLines:      len(a),
		DestinationLines: len(b),
	}

	var dels, ins []int
	flush := func() {
		paired := min(len(dels), len(ins))
		for k := 0; k < paired; k++ {
			res.Changes = append(res.Changes, Change{
				Kind:            Modification,
				OriginLine:      dels[k] + 1,
				DestinationLine: ins[k] + 1,
				OriginText:      a[dels[k]],
				DestinationText: b[ins[k]],
			})
		}
		for _, i := range dels[paired:] {
			res.Changes = append(res.Changes, Change{
				Kind:       Deletion,
				OriginLine: i + 1,
				OriginText: a[i],
			})
		}
		for _, j := range ins[paired:] {
			res.Changes = append(res.Changes, Change{
				Kind:            Addition,
				DestinationLine: j + 1,
				DestinationText: b[j],
			})
		}

		res.Modifications += paired
		res.Deletions += len(dels) - paired
		res.Additions += len(ins) - paired
		dels, ins = dels[:0], ins[:0]
	}

	for _, e := range script {
		switch e.op {
		case opEqual:
			flush()
		case opDelete:
			dels = append(dels, e.i)
		case opInsert:
			ins = append(ins, e.j)
		}
	}
	flush()

	return res
}
