package rootpool

import "github.com/kestrelvm/rootpool/cell"

// Visitor receives every cell MarkRoots walks across every chunk,
// including free-list links. Implementations must check c.IsNative() and
// skip any cell for which it is true — spec.md §6's root marking contract
// promises only that every live cell is offered, not that free-list links
// are filtered out first, since filtering them would mean walking each
// chunk's free list during the mark pass too.
type Visitor interface {
	Visit(c *cell.Cell)
}

// VisitorFunc adapts a plain function to the Visitor interface, the same
// pattern http.HandlerFunc uses.
type VisitorFunc func(c *cell.Cell)

// Visit calls f.
func (f VisitorFunc) Visit(c *cell.Cell) { f(c) }
