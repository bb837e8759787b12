package report

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ColumnKind decides how a sortable column compares its cells.
type ColumnKind int

const (
	ColumnString ColumnKind = iota
	ColumnNumber
)

func (k ColumnKind) String() string {
	if k == ColumnNumber {
		return "number"
	}
	return "string"
}

// CellComparer orders table cells the way the report's header sort does:
// numbers numerically with the "-" placeholder lowest, strings by locale
// collation.
type CellComparer struct {
	collator *collate.Collator
}

func NewCellComparer(locale string) *CellComparer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &CellComparer{collator: collate.New(tag)}
}

func (c *CellComparer) Compare(a, b string, kind ColumnKind) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if kind == ColumnNumber {
		x, y := cellNumber(a), cellNumber(b)
		switch {
		case x == y:
			return 0
		case x < y:
			return -1
		default:
			return 1
		}
	}
	return c.collator.CompareString(a, b)
}

// SortRows stable-sorts rows by column col.
func (c *CellComparer) SortRows(rows [][]string, col int, kind ColumnKind, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		n := c.Compare(rows[i][col], rows[j][col], kind)
		if desc {
			return n > 0
		}
		return n < 0
	})
}

func cellNumber(s string) float64 {
	if s == placeholder {
		return math.Inf(-1)
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil {
		return math.Inf(-1)
	}
	return f
}
