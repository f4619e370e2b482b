package detection

import (
	"errors"

	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
)

// IsoLevel is the level at which trace boundaries are traced on a 0/1 mask.
const IsoLevel = 0.8

// ErrNoContour is returned when a mask contains no boundary at all, which
// happens for all-false and all-true masks.
var ErrNoContour = errors.New("no contour found")

// Point is a sub-pixel location on the mask grid.
type Point struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// Path is an ordered boundary polyline. Closed paths repeat their first
// point at the end; paths that run into the mask border stay open.
type Path []Point

// Extraction is the contour analysis of one mask.
type Extraction struct {
	// Dominant is the path with the most points.
	Dominant Path

	// Count is the total number of paths found.
	Count int
}

// Extract traces all iso-level boundaries of mask and selects the dominant one.
//
// Returns:
//   - Extraction: The dominant path and the number of paths found.
//   - error: ErrNoContour when the mask has no boundary.
//
// # Tie-breaking
//
// When several paths share the greatest point count, the one created first
// during the top-to-bottom, left-to-right scan wins. This follows the
// traversal order of FindContours and is not otherwise canonical.
func Extract(mask *imaging.Mask) (Extraction, error) {
	paths := FindContours(mask.Float(), IsoLevel)
	if len(paths) == 0 {
		return Extraction{}, ErrNoContour
	}
	return Extraction{Dominant: Dominant(paths), Count: len(paths)}, nil
}

// Dominant returns the longest path, keeping the earliest one on ties.
// It returns nil for an empty list.
func Dominant(paths []Path) Path {
	var best Path
	for _, p := range paths {
		if len(p) > len(best) {
			best = p
		}
	}
	return best
}

// FindContours traces iso-valued boundaries of m with marching squares.
//
// Parameters:
//   - m: Scalar field, typically a 0/1 mask converted with Mask.Float.
//   - level: Iso value. A cell corner is "inside" when its value exceeds level.
//
// Returns the paths ordered by creation, where creation follows the scan of
// 2x2 cells row by row, left to right.
//
// # Algorithm
//
//  1. Segment generation: each 2x2 cell is classified by which corners are
//     above level (16 cases). Crossing points on the cell edges are placed by
//     linear interpolation, and one or two oriented segments are emitted.
//     Saddle cells (cases 6 and 9) connect the low-valued corners.
//  2. Assembly: segments are chained by exact endpoint matching. A segment
//     may extend a path at either end, merge two paths (the older path keeps
//     its identity so ordering stays stable), or close a path on itself.
//
// Points are (row, col) with sub-pixel precision.
func FindContours(m *imaging.Matrix, level float64) []Path {
	return assemble(segments(m, level))
}

type segment struct {
	from, to Point
}

// segments emits the oriented boundary segments of every 2x2 cell.
func segments(m *imaging.Matrix, level float64) []segment {
	out := make([]segment, 0)

	for r0 := 0; r0 < m.Rows-1; r0++ {
		for c0 := 0; c0 < m.Cols-1; c0++ {
			r1, c1 := r0+1, c0+1

			ul := m.At(r0, c0)
			ur := m.At(r0, c1)
			ll := m.At(r1, c0)
			lr := m.At(r1, c1)

			squareCase := 0
			if ul > level {
				squareCase += 1
			}
			if ur > level {
				squareCase += 2
			}
			if ll > level {
				squareCase += 4
			}
			if lr > level {
				squareCase += 8
			}
			if squareCase == 0 || squareCase == 15 {
				continue
			}

			top := Point{float64(r0), float64(c0) + fraction(ul, ur, level)}
			bottom := Point{float64(r1), float64(c0) + fraction(ll, lr, level)}
			left := Point{float64(r0) + fraction(ul, ll, level), float64(c0)}
			right := Point{float64(r0) + fraction(ur, lr, level), float64(c1)}

			switch squareCase {
			case 1:
				out = append(out, segment{top, left})
			case 2:
				out = append(out, segment{right, top})
			case 3:
				out = append(out, segment{right, left})
			case 4:
				out = append(out, segment{left, bottom})
			case 5:
				out = append(out, segment{top, bottom})
			case 6:
				out = append(out, segment{right, top}, segment{left, bottom})
			case 7:
				out = append(out, segment{right, bottom})
			case 8:
				out = append(out, segment{bottom, right})
			case 9:
				out = append(out, segment{top, left}, segment{bottom, right})
			case 10:
				out = append(out, segment{bottom, top})
			case 11:
				out = append(out, segment{bottom, left})
			case 12:
				out = append(out, segment{left, right})
			case 13:
				out = append(out, segment{top, right})
			case 14:
				out = append(out, segment{left, top})
			}
		}
	}
	return out
}

// fraction locates level between two corner values, 0 at from and 1 at to.
func fraction(from, to, level float64) float64 {
	if to == from {
		return 0
	}
	return (level - from) / (to - from)
}

// assemble chains segments into paths by matching endpoints exactly.
func assemble(segs []segment) []Path {
	var built []*chain
	starts := make(map[Point]*chain)
	ends := make(map[Point]*chain)

	for _, s := range segs {
		if s.from == s.to {
			continue
		}

		tail, hasTail := starts[s.to]
		delete(starts, s.to)
		head, hasHead := ends[s.from]
		delete(ends, s.from)

		switch {
		case hasTail && hasHead:
			if tail == head {
				// Closing a loop
				head.pushBack(s.to)
			} else if tail.id > head.id {
				// tail is younger: append it to head
				head.appendChain(tail)
				built[tail.id] = nil
				starts[head.first()] = head
				ends[head.last()] = head
			} else {
				// head is younger: prepend it to tail
				tail.prependChain(head)
				delete(starts, head.first())
				built[head.id] = nil
				starts[tail.first()] = tail
				ends[tail.last()] = tail
			}
		case !hasTail && !hasHead:
			c := &chain{id: len(built), back: []Point{s.from, s.to}}
			built = append(built, c)
			starts[s.from] = c
			ends[s.to] = c
		case !hasHead:
			tail.pushFront(s.from)
			starts[s.from] = tail
		default:
			head.pushBack(s.to)
			ends[s.to] = head
		}
	}

	paths := make([]Path, 0, len(built))
	for _, c := range built {
		if c != nil {
			paths = append(paths, c.points())
		}
	}
	return paths
}

// chain is a double-ended point sequence. front holds the prefix in reverse
// so both ends grow in amortised constant time.
type chain struct {
	id    int
	front []Point
	back  []Point
}

func (c *chain) len() int { return len(c.front) + len(c.back) }

func (c *chain) at(i int) Point {
	if i < len(c.front) {
		return c.front[len(c.front)-1-i]
	}
	return c.back[i-len(c.front)]
}

func (c *chain) first() Point { return c.at(0) }

func (c *chain) last() Point { return c.at(c.len() - 1) }

func (c *chain) pushFront(p Point) { c.front = append(c.front, p) }

func (c *chain) pushBack(p Point) { c.back = append(c.back, p) }

// appendChain adds every point of o after the current last point.
func (c *chain) appendChain(o *chain) {
	for i := 0; i < o.len(); i++ {
		c.pushBack(o.at(i))
	}
}

// prependChain adds every point of o, in order, before the current first point.
func (c *chain) prependChain(o *chain) {
	for i := o.len() - 1; i >= 0; i-- {
		c.pushFront(o.at(i))
	}
}

func (c *chain) points() Path {
	out := make(Path, 0, c.len())
	for i := 0; i < c.len(); i++ {
		out = append(out, c.at(i))
	}
	return out
}
