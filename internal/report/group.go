package report

import (
	"sort"

	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var one = decimal.NewFromInt(1)

// tally accumulates decimal values per key, remembering the order in
// which keys first appeared.
type tally struct {
	m *orderedmap.OrderedMap[string, decimal.Decimal]
}

func newTally() *tally {
	return &tally{m: orderedmap.New[string, decimal.Decimal]()}
}

func (t *tally) add(key string, v decimal.Decimal) {
	cur, _ := t.m.Get(key)
	t.m.Set(key, cur.Add(v))
}

func (t *tally) inc(key string) {
	t.add(key, one)
}

// touch registers key with a zero value if it is not present yet.
func (t *tally) touch(key string) {
	if _, ok := t.m.Get(key); !ok {
		t.m.Set(key, decimal.Zero)
	}
}

func (t *tally) get(key string) decimal.Decimal {
	v, _ := t.m.Get(key)
	return v
}

func (t *tally) len() int {
	return t.m.Len()
}

// keys returns the keys in first-appearance order.
func (t *tally) keys() []string {
	keys := make([]string, 0, t.m.Len())
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// sortedKeys returns the keys in lexicographic order.
func (t *tally) sortedKeys() []string {
	keys := t.keys()
	sort.Strings(keys)
	return keys
}

func (t *tally) total() decimal.Decimal {
	sum := decimal.Zero
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		sum = sum.Add(pair.Value)
	}
	return sum
}

// values returns the rounded values for keys, in that order.
func (t *tally) values(keys []string) []float64 {
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = round2(t.get(k))
	}
	return out
}

// seriesSet builds a single-series view over keys.
func (t *tally) seriesSet(name string, keys []string) SeriesSet {
	if len(keys) == 0 {
		return emptySeriesSet()
	}
	return SeriesSet{
		Categories: keys,
		Series:     []Series{{Name: name, Data: t.values(keys)}},
	}
}

// points builds a proportion view in first-appearance order.
func (t *tally) points() []Point {
	points := make([]Point, 0, t.m.Len())
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		points = append(points, Point{Name: pair.Key, Y: round2(pair.Value)})
	}
	return points
}

// matrix accumulates values over a (row, column) composite key.
//
// It is filled in two phases: first every distinct row and column key is
// registered, then cells are accumulated. dense() always emits the full
// row x column cross product so that absent combinations show up as 0.
type matrix struct {
	rows  *tally
	cols  *tally
	cells map[[2]string]decimal.Decimal
}

func newMatrix() *matrix {
	return &matrix{
		rows:  newTally(),
		cols:  newTally(),
		cells: make(map[[2]string]decimal.Decimal),
	}
}

// register records a row and column key without touching any cell.
func (m *matrix) register(row, col string) {
	m.rows.touch(row)
	m.cols.touch(col)
}

func (m *matrix) add(row, col string, v decimal.Decimal) {
	key := [2]string{row, col}
	m.cells[key] = m.cells[key].Add(v)
}

func (m *matrix) cell(row, col string) decimal.Decimal {
	return m.cells[[2]string{row, col}]
}

// dense builds a SeriesSet with one series per row key, each holding one
// value per column key. Missing cells are 0.
func (m *matrix) dense(rowKeys, colKeys []string) SeriesSet {
	if len(rowKeys) == 0 || len(colKeys) == 0 {
		return emptySeriesSet()
	}
	series := make([]Series, 0, len(rowKeys))
	for _, row := range rowKeys {
		data := make([]float64, len(colKeys))
		for i, col := range colKeys {
			data[i] = round2(m.cell(row, col))
		}
		series = append(series, Series{Name: row, Data: data})
	}
	return SeriesSet{Categories: colKeys, Series: series}
}

// round2 rounds to cents and converts to float64 for charting.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// money converts a record amount to an exact decimal.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
