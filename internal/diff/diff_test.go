package diff

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "empty", content: "", want: nil},
		{name: "single line", content: "a", want: []string{"a"}},
		{name: "trailing newline", content: "a\nb\n", want: []string{"a", "b"}},
		{name: "crlf", content: "a\r\nb", want: []string{"a", "b"}},
		{name: "blank line", content: "\n", want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.content))
		})
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		name          string
		origin        string
		destination   string
		additions     int
		deletions     int
		modifications int
		percentage    float64
	}{
		{
			name:        "identical",
			origin:      "a\nb\nc",
			destination: "a\nb\nc",
		},
		{
			name:        "both empty",
			origin:      "",
			destination: "",
		},
		{
			name:        "empty origin",
			origin:      "",
			destination: "a\nb",
			additions:   2,
			percentage:  100,
		},
		{
			name:        "empty destination",
			origin:      "a\nb\nc",
			destination: "",
			deletions:   3,
			percentage:  100,
		},
		{
			name:          "modification and addition",
			origin:        "line1\nline2\nline3",
			destination:   "line1\nline2-edited\nline3\nline4",
			additions:     1,
			modifications: 1,
			percentage:    50,
		},
		{
			name:        "deletion in the middle",
			origin:      "a\nb\nc\nd",
			destination: "a\nc\nd",
			deletions:   1,
			percentage:  25,
		},
		{
			name:        "disjoint blocks are clamped",
			origin:      "a\nb\nx",
			destination: "x\nc\nd",
			additions:   2,
			deletions:   2,
			percentage:  100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Lines(tt.origin, tt.destination)
			assert.Equal(t, tt.additions, res.Additions)
			assert.Equal(t, tt.deletions, res.Deletions)
			assert.Equal(t, tt.modifications, res.Modifications)
			assert.InDelta(t, tt.percentage, res.Percentage(), 0.0001)
			assert.Len(t, res.Changes, res.Changed())
		})
	}
}

func TestLines_ChangePositions(t *testing.T) {
	res := Lines("line1\nline2\nline3", "line1\nline2-edited\nline3\nline4")
	require.Len(t, res.Changes, 2)

	assert.Equal(t, Change{
		Kind:            Modification,
		OriginLine:      2,
		DestinationLine: 2,
		OriginText:      "line2",
		DestinationText: "line2-edited",
	}, res.Changes[0])
	assert.Equal(t, Change{
		Kind:            Addition,
		DestinationLine: 4,
		DestinationText: "line4",
	}, res.Changes[1])
}

func TestLines_Symmetry(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	words := []string{"alpha", "beta", "gamma", "delta", "", "epsilon"}
	gen := func() string {
		n := rnd.Intn(12)
		lines := make([]string, n)
		for i := range lines {
			lines[i] = words[rnd.Intn(len(words))]
		}
		return strings.Join(lines, "\n")
	}

	for k := 0; k < 200; k++ {
		a, b := gen(), gen()
		t.Run(fmt.Sprintf("case-%d", k), func(t *testing.T) {
			ab := Lines(a, b)
			ba := Lines(b, a)

			assert.Equal(t, ab.Additions, ba.Deletions)
			assert.Equal(t, ab.Deletions, ba.Additions)
			assert.Equal(t, ab.Modifications, ba.Modifications)
			assert.Equal(t, ab.Percentage(), ba.Percentage())
			assert.GreaterOrEqual(t, ab.Percentage(), 0.0)
			assert.LessOrEqual(t, ab.Percentage(), 100.0)
		})
	}
}

func TestEngine_LinearSpaceMatchesTable(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	gen := func(n int) string {
		lines := make([]string, n)
		for i := range lines {
			lines[i] = fmt.Sprintf("l%d", rnd.Intn(8))
		}
		return strings.Join(lines, "\n")
	}

	small := &Engine{MaxCells: 4}
	full := NewEngine()
	for k := 0; k < 50; k++ {
		a, b := gen(20+rnd.Intn(20)), gen(20+rnd.Intn(20))

		got := small.Diff(a, b)
		want := full.Diff(a, b)

		// both alignments are maximal, so the unpaired line counts agree
		assert.Equal(t, want.Additions+want.Modifications, got.Additions+got.Modifications)
		assert.Equal(t, want.Deletions+want.Modifications, got.Deletions+got.Modifications)
	}
}

func TestUnified(t *testing.T) {
	out, err := Unified("a\nb\nc", "a\nB\nc", "v1", "v2")
	require.NoError(t, err)

	assert.Contains(t, out, "--- v1")
	assert.Contains(t, out, "+++ v2")
	assert.Contains(t, out, "-b\n")
	assert.Contains(t, out, "+B\n")
}

func TestResult_Summary(t *testing.T) {
	res := Lines("a\nb", "a\nc\nd")

	assert.Equal(t, "~ b => c\n", res.Summary(1))
	assert.Equal(t, "~ b => c\n+ d\n", res.Summary(0))
}
