package lru

// handle addresses an entry slot in the sequence arena.
type handle int32

const (
	head handle = 0
	tail handle = 1

	// detached marks the links of an entry that is not in the chain.
	detached handle = -1

	// maxCapacity keeps every real slot addressable by a handle.
	maxCapacity = 1<<31 - 3

	// preallocLimit bounds the arena memory reserved up front.
	preallocLimit = 1024
)

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  handle
	next  handle
}

// sequence keeps entries ordered from most recently used (head.next) to
// least recently used (tail.prev). Entries live in a single arena slice and
// link to each other by handle; slots 0 and 1 hold the head and tail
// sentinels. Released slots are recycled through the free list.
type sequence[K comparable, V any] struct {
	entries []entry[K, V]
	free    []handle
}

func newSequence[K comparable, V any](capacity int) *sequence[K, V] {
	s := &sequence[K, V]{
		entries: make([]entry[K, V], 2, 2+min(capacity, preallocLimit)),
	}
	s.link(head, tail)
	s.entries[head].prev = detached
	s.entries[tail].next = detached
	return s
}

func (s *sequence[K, V]) link(a, b handle) {
	s.entries[a].next = b
	s.entries[b].prev = a
}

// alloc stores key and value in a detached slot and returns its handle.
func (s *sequence[K, V]) alloc(key K, value V) handle {
	var h handle
	if n := len(s.free); n > 0 {
		h = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.entries = append(s.entries, entry[K, V]{})
		h = handle(len(s.entries) - 1)
	}
	s.entries[h] = entry[K, V]{key: key, value: value, prev: detached, next: detached}
	return h
}

// release zeroes a detached slot and makes it available to alloc.
func (s *sequence[K, V]) release(h handle) {
	s.entries[h] = entry[K, V]{prev: detached, next: detached}
	s.free = append(s.free, h)
}

func (s *sequence[K, V]) get(h handle) *entry[K, V] {
	return &s.entries[h]
}

// pushFront splices a detached entry right after the head sentinel.
func (s *sequence[K, V]) pushFront(h handle) {
	e := &s.entries[h]
	if e.prev != detached || e.next != detached {
		panic("lru: pushFront of a linked entry")
	}
	first := s.entries[head].next
	s.link(h, first)
	s.link(head, h)
}

// unlink removes a linked entry from the chain and detaches it. The slot
// stays allocated.
func (s *sequence[K, V]) unlink(h handle) {
	e := &s.entries[h]
	if e.prev == detached || e.next == detached {
		panic("lru: unlink of a detached entry")
	}
	s.link(e.prev, e.next)
	e.prev, e.next = detached, detached
}

func (s *sequence[K, V]) moveToFront(h handle) {
	if s.entries[head].next == h {
		return
	}
	s.unlink(h)
	s.pushFront(h)
}

// evictBack unlinks the least recently used entry and returns it. The
// boolean is false when the chain holds no real entry.
func (s *sequence[K, V]) evictBack() (handle, bool) {
	last := s.entries[tail].prev
	if last == head {
		return detached, false
	}
	s.unlink(last)
	return last, true
}

func (s *sequence[K, V]) back() (handle, bool) {
	last := s.entries[tail].prev
	return last, last != head
}

// walk calls fn for each entry from most to least recently used until fn
// returns false.
func (s *sequence[K, V]) walk(fn func(e *entry[K, V]) bool) {
	for h := s.entries[head].next; h != tail; h = s.entries[h].next {
		if !fn(&s.entries[h]) {
			return
		}
	}
}

// reset drops every real entry and relinks the sentinels.
func (s *sequence[K, V]) reset() {
	clear(s.entries[2:])
	s.entries = s.entries[:2]
	s.free = s.free[:0]
	s.link(head, tail)
}
