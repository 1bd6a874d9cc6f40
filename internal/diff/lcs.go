package diff

type opKind uint8

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

// edit is one step of an edit script. i indexes the origin lines and j the
// destination lines; only the index relevant to the op is meaningful for
// deletes and inserts.
type edit struct {
	op opKind
	i  int
	j  int
}

type pair struct {
	i, j int
}

// align returns the edit script turning a into b.
func (e *Engine) align(a, b []string) []edit {
	maxCells := e.MaxCells
	if maxCells <= 0 {
		maxCells = defaultMaxCells
	}

	// common prefix and suffix never take part in the alignment
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	x, y := intern(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])

	pairs := make([]pair, 0, prefix+suffix+min(len(x), len(y)))
	for k := 0; k < prefix; k++ {
		pairs = append(pairs, pair{k, k})
	}
	l := &lcs{maxCells: maxCells}
	l.run(x, y, prefix, prefix, &pairs)
	for k := 0; k < suffix; k++ {
		pairs = append(pairs, pair{len(a) - suffix + k, len(b) - suffix + k})
	}

	return script(pairs, len(a), len(b))
}

// intern maps every distinct line to a small integer so the alignment
// compares ints instead of strings.
func intern(a, b []string) ([]int, []int) {
	ids := make(map[string]int, len(a)+len(b))
	lookup := func(lines []string) []int {
		out := make([]int, len(lines))
		for k, line := range lines {
			id, ok := ids[line]
			if !ok {
				id = len(ids)
				ids[line] = id
			}
			out[k] = id
		}
		return out
	}

	return lookup(a), lookup(b)
}

// script expands the matched pairs into a full edit script.
func script(pairs []pair, n, m int) []edit {
	out := make([]edit, 0, n+m)
	i, j := 0, 0
	for _, p := range pairs {
		for ; i < p.i; i++ {
			out = append(out, edit{op: opDelete, i: i})
		}
		for ; j < p.j; j++ {
			out = append(out, edit{op: opInsert, j: j})
		}
		out = append(out, edit{op: opEqual, i: i, j: j})
		i++
		j++
	}
	for ; i < n; i++ {
		out = append(out, edit{op: opDelete, i: i})
	}
	for ; j < m; j++ {
		out = append(out, edit{op: opInsert, j: j})
	}

	return out
}

// mirror turns the script for (a, b) into the script for (b, a).
func mirror(in []edit) []edit {
	out := make([]edit, len(in))
	for k, e := range in {
		switch e.op {
		case opDelete:
			out[k] = edit{op: opInsert, j: e.i}
		case opInsert:
			out[k] = edit{op: opDelete, i: e.j}
		default:
			out[k] = edit{op: opEqual, i: e.j, j: e.i}
		}
	}

	return out
}

type lcs struct {
	maxCells int
}

// run appends the matched pairs of a longest common subsequence of x and y,
// offset by xo and yo. Small inputs use the full table, larger ones are
// split in half (Hirschberg) until they fit.
func (l *lcs) run(x, y []int, xo, yo int, out *[]pair) {
	if len(x) == 0 || len(y) == 0 {
		return
	}

	if len(x)*len(y) <= l.maxCells {
		l.table(x, y, xo, yo, out)
		return
	}

	if len(x) == 1 {
		for j, v := range y {
			if v == x[0] {
				*out = append(*out, pair{xo, yo + j})
				return
			}
		}
		return
	}

	mid := len(x) / 2
	forward := lengths(x[:mid], y, false)
	backward := lengths(x[mid:], y, true)

	m := len(y)
	split, best := 0, -1
	for k := 0; k <= m; k++ {
		if v := forward[k] + backward[m-k]; v > best {
			best = v
			split = k
		}
	}

	l.run(x[:mid], y[:split], xo, yo, out)
	l.run(x[mid:], y[split:], xo+mid, yo+split, out)
}

// table walks a full suffix table, matching greedily and preferring
// deletions over insertions on ties.
func (l *lcs) table(x, y []int, xo, yo int, out *[]pair) {
	n, m := len(x), len(y)
	w := m + 1
	t := make([]int32, (n+1)*w)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if x[i] == y[j] {
				t[i*w+j] = t[(i+1)*w+j+1] + 1
			} else if down, right := t[(i+1)*w+j], t[i*w+j+1]; down >= right {
				t[i*w+j] = down
			} else {
				t[i*w+j] = right
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case x[i] == y[j]:
			*out = append(*out, pair{xo + i, yo + j})
			i++
			j++
		case t[(i+1)*w+j] >= t[i*w+j+1]:
			i++
		default:
			j++
		}
	}
}

// lengths returns row[k] = LCS(x, y[:k]), or with reverse set
// row[k] = LCS(x, y[len(y)-k:]), using two rows of memory.
func lengths(x, y []int, reverse bool) []int {
	m := len(y)
	prev := make([]int, m+1)
	cur := make([]int, m+1)

	at := func(s []int, k int) int {
		if reverse {
			return s[len(s)-1-k]
		}
		return s[k]
	}

	for i := 0; i < len(x); i++ {
		xi := at(x, i)
		for j := 1; j <= m; j++ {
			if xi == at(y, j-1) {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}

	return prev
}
