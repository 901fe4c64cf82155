// Package parserpool provides a pool of gnparser instances for concurrently
// checking whether an organism string parses as a binomial. This is a pure
// package - parsing is computation, not I/O.
package parserpool

import (
	"runtime"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
)

// Pool checks organism strings against the zoological nomenclatural code.
// A taxhier hierarchy only ever needs to know whether a name is binomial,
// so the pool exposes that directly rather than the full parsed result.
type Pool interface {
	// IsBinomial reports whether organism parses as a two-word scientific
	// name. It retrieves a parser from the pool, parses the name, and
	// returns the parser to the pool. Safe for concurrent use.
	IsBinomial(organism string) bool

	// Close shuts down the pool and releases resources. After calling
	// Close, the pool should not be used.
	Close()
}

// PoolImpl implements Pool using gnparser.NewPool.
type PoolImpl struct {
	ch       chan gnparser.GNparser
	poolSize int
}

// NewPool creates a new parser pool with the specified number of workers.
// If jobsNum is 0, it defaults to runtime.NumCPU(). Parsing only needs
// Cardinality, not the Words breakdown, so the pool is built without
// OptWithDetails.
func NewPool(jobsNum int) Pool {
	poolSize := jobsNum
	if poolSize == 0 {
		poolSize = runtime.NumCPU()
	}

	cfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Zoological))
	ch := gnparser.NewPool(cfg, poolSize)

	return &PoolImpl{
		ch:       ch,
		poolSize: poolSize,
	}
}

// IsBinomial parses organism and reports whether it has exactly two words.
func (p *PoolImpl) IsBinomial(organism string) bool {
	parser := <-p.ch
	result := parser.ParseName(organism)
	p.ch <- parser
	return result.Cardinality == 2
}

// Close shuts down the pool and drains any remaining parsers.
func (p *PoolImpl) Close() {
	if p.ch != nil {
		close(p.ch)
		for range p.ch {
		}
	}
}
