package alloc

// Counting wraps another allocator and tracks allocation balance. It
// exists to make the release-exactly-once discipline of the containers
// observable: after a container and all of its owning iterators are
// closed, Outstanding must report zero.
type Counting[E any] struct {
	Inner Allocator[E]

	allocs   int
	grows    int
	releases int
	live     int
}

// NewCounting wraps inner. A nil inner defaults to Heap.
func NewCounting[E any](inner Allocator[E]) *Counting[E] {
	if inner == nil {
		inner = Heap[E]{}
	}
	return &Counting[E]{Inner: inner}
}

func (c *Counting[E]) Allocate(n int) []E {
	buf := c.Inner.Allocate(n)
	c.allocs++
	c.live++
	return buf
}

func (c *Counting[E]) Grow(buf []E, n int) []E {
	next := c.Inner.Grow(buf, n)
	c.grows++
	return next
}

func (c *Counting[E]) Release(buf []E) {
	if c.live == 0 {
		panic("alloc: release without a matching allocation")
	}
	c.live--
	c.releases++
	c.Inner.Release(buf)
}

// Allocs returns the number of Allocate calls observed.
func (c *Counting[E]) Allocs() int { return c.allocs }

// Grows returns the number of Grow calls observed.
func (c *Counting[E]) Grows() int { return c.grows }

// Releases returns the number of Release calls observed.
func (c *Counting[E]) Releases() int { return c.releases }

// Outstanding returns the number of live allocations: Allocate calls
// not yet balanced by a Release. Grow replaces an allocation and leaves
// the balance unchanged.
func (c *Counting[E]) Outstanding() int { return c.live }
