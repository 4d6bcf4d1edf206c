// Package pool implements the node arenas a parse allocates from. Allocation
// only bumps a cursor: there is no free list and a pool serves one parse.
package pool

import (
	"github.com/sirupsen/logrus"
	"github.com/vinicius-lino-figueiredo/nanojson/domain"
)

// Bounded is a pool over caller supplied storage. Allocating past the end of
// the storage fails with [domain.ErrCapacityExceeded].
type Bounded struct {
	nodes []domain.Node
	n     int
}

// NewBounded returns a pool that allocates from nodes. The previous content
// of nodes is overwritten as allocation proceeds.
func NewBounded(nodes []domain.Node) *Bounded {
	return &Bounded{nodes: nodes}
}

// Alloc implements [domain.Pool].
func (b *Bounded) Alloc() (int, error) {
	if b.n >= len(b.nodes) {
		return -1, &domain.ErrCapacityExceeded{Capacity: len(b.nodes), Resource: "nodes"}
	}
	i := b.n
	b.nodes[i].Reset()
	b.n++
	return i, nil
}

// Node implements [domain.Pool].
func (b *Bounded) Node(i int) *domain.Node {
	return &b.nodes[i]
}

// Len implements [domain.Pool].
func (b *Bounded) Len() int {
	return b.n
}

// Cap implements [domain.Pool].
func (b *Bounded) Cap() int {
	return len(b.nodes)
}

// Nodes implements [domain.Pool].
func (b *Bounded) Nodes() []domain.Node {
	return b.nodes[:b.n]
}

// Growable is a pool that owns its storage and grows it by a fixed increment
// whenever it runs out of room. Growing may move the storage, so only indices
// survive an Alloc call.
type Growable struct {
	nodes     []domain.Node
	n         int
	increment int
	limit     int
	log       logrus.FieldLogger
}

// NewGrowable returns an empty pool sized by opts.InitialCapacity that grows
// by opts.GrowIncrement up to opts.MaxNodes, when set.
func NewGrowable(opts domain.ParseOptions) *Growable {
	initial := opts.InitialCapacity
	if opts.MaxNodes > 0 && initial > opts.MaxNodes {
		initial = opts.MaxNodes
	}
	log := opts.Logger
	if log == nil {
		log = domain.DiscardLogger()
	}
	return &Growable{
		nodes:     make([]domain.Node, initial),
		increment: max(opts.GrowIncrement, 1),
		limit:     opts.MaxNodes,
		log:       log,
	}
}

// Alloc implements [domain.Pool].
func (g *Growable) Alloc() (int, error) {
	if g.n >= len(g.nodes) {
		if err := g.grow(); err != nil {
			return -1, err
		}
	}
	i := g.n
	g.nodes[i].Reset()
	g.n++
	return i, nil
}

func (g *Growable) grow() error {
	size := len(g.nodes) + g.increment
	if g.limit > 0 && size > g.limit {
		size = g.limit
	}
	if size <= len(g.nodes) {
		return &domain.ErrCapacityExceeded{Capacity: g.limit, Resource: "nodes"}
	}
	nodes := make([]domain.Node, size)
	copy(nodes, g.nodes[:g.n])
	g.log.WithFields(logrus.Fields{
		"from": len(g.nodes),
		"to":   size,
	}).Debug("node pool relocated")
	g.nodes = nodes
	return nil
}

// Trim releases the unused tail of the storage.
func (g *Growable) Trim() {
	if len(g.nodes) == g.n {
		return
	}
	g.log.WithFields(logrus.Fields{
		"from": len(g.nodes),
		"to":   g.n,
	}).Debug("node pool trimmed")
	nodes := make([]domain.Node, g.n)
	copy(nodes, g.nodes)
	g.nodes = nodes
}

// Node implements [domain.Pool].
func (g *Growable) Node(i int) *domain.Node {
	return &g.nodes[i]
}

// Len implements [domain.Pool].
func (g *Growable) Len() int {
	return g.n
}

// Cap implements [domain.Pool].
func (g *Growable) Cap() int {
	return len(g.nodes)
}

// Nodes implements [domain.Pool].
func (g *Growable) Nodes() []domain.Node {
	return g.nodes[:g.n]
}
