// Package idgen generates identifiers for trace records.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// Generator produces unique identifiers.
type Generator interface {
	Generate() string
}

// NewSequential returns a generator whose first ID is "1". Sequential IDs make
// traces of the same script identical across runs.
func NewSequential() Generator {
	return &sequentialGenerator{}
}

type sequentialGenerator struct {
	next uint64
}

func (g *sequentialGenerator) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.next, 1), 10)
}

// NewGlobal returns a generator of globally unique IDs, suitable when traces
// of several runs end up in the same database.
func NewGlobal() Generator {
	return globalGenerator{}
}

type globalGenerator struct{}

func (globalGenerator) Generate() string {
	return xid.New().String()
}
