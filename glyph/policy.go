package glyph

// EvictionPolicy decides which cache entries to drop.
//
// The Cache calls the policy while holding its lock, so implementations
// need no synchronization of their own but must not call back into the
// Cache. A policy instance belongs to exactly one Cache.
type EvictionPolicy interface {
	// Touch records a cache hit on k.
	Touch(k Key)

	// Insert records a newly rasterized entry and returns the keys that
	// must be evicted to stay within the policy's bounds. The returned
	// slice never contains k itself unless the entry alone exceeds the
	// bounds.
	Insert(k Key, e *Entry) []Key

	// Remove forgets k after an explicit removal.
	Remove(k Key)

	// Reset forgets all keys.
	Reset()
}

// Unbounded returns the append-only policy: nothing is ever evicted.
func Unbounded() EvictionPolicy {
	return unbounded{}
}

type unbounded struct{}

func (unbounded) Touch(Key)               {}
func (unbounded) Insert(Key, *Entry) []Key { return nil }
func (unbounded) Remove(Key)              {}
func (unbounded) Reset()                  {}

// LRUConfig bounds an LRU policy. A zero limit means no limit on that
// dimension.
type LRUConfig struct {
	MaxEntries int
	MaxBytes   int
}

// NewLRU returns a least-recently-used policy holding at most maxEntries
// glyphs.
func NewLRU(maxEntries int) *LRU {
	return NewLRUWithConfig(LRUConfig{MaxEntries: maxEntries})
}

// NewLRUWithConfig returns a least-recently-used policy with entry and
// byte limits.
func NewLRUWithConfig(cfg LRUConfig) *LRU {
	return &LRU{
		cfg:   cfg,
		nodes: make(map[Key]*lruNode),
	}
}

// LRU evicts the least recently used glyphs once a limit is exceeded.
type LRU struct {
	cfg   LRUConfig
	nodes map[Key]*lruNode
	list  lruList
	bytes int
}

// Len returns the number of tracked keys.
func (p *LRU) Len() int {
	return p.list.len
}

// Bytes returns the approximate size of the tracked entries.
func (p *LRU) Bytes() int {
	return p.bytes
}

// Touch implements EvictionPolicy.
func (p *LRU) Touch(k Key) {
	if n, ok := p.nodes[k]; ok {
		p.list.moveToFront(n)
	}
}

// Insert implements EvictionPolicy.
func (p *LRU) Insert(k Key, e *Entry) []Key {
	if n, ok := p.nodes[k]; ok {
		p.bytes -= n.size
		n.size = e.ByteSize()
		p.bytes += n.size
		p.list.moveToFront(n)
	} else {
		n := &lruNode{key: k, size: e.ByteSize()}
		p.list.pushFront(n)
		p.nodes[k] = n
		p.bytes += n.size
	}

	var evicted []Key
	for p.overLimit() {
		n := p.list.removeOldest()
		if n == nil {
			break
		}
		delete(p.nodes, n.key)
		p.bytes -= n.size
		evicted = append(evicted, n.key)
	}
	return evicted
}

func (p *LRU) overLimit() bool {
	if p.cfg.MaxEntries > 0 && p.list.len > p.cfg.MaxEntries {
		return true
	}
	return p.cfg.MaxBytes > 0 && p.bytes > p.cfg.MaxBytes
}

// Remove implements EvictionPolicy.
func (p *LRU) Remove(k Key) {
	n, ok := p.nodes[k]
	if !ok {
		return
	}
	p.list.unlink(n)
	delete(p.nodes, k)
	p.bytes -= n.size
}

// Reset implements EvictionPolicy.
func (p *LRU) Reset() {
	p.nodes = make(map[Key]*lruNode)
	p.list = lruList{}
	p.bytes = 0
}

// lruNode is a node in a doubly-linked LRU list.
type lruNode struct {
	key  Key
	size int
	prev *lruNode
	next *lruNode
}

// lruList is a doubly-linked list; head is the most recently used.
type lruList struct {
	head *lruNode
	tail *lruNode
	len  int
}

func (l *lruList) pushFront(node *lruNode) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList) moveToFront(node *lruNode) {
	if node == l.head {
		return
	}
	l.unlink(node)
	l.pushFront(node)
}

func (l *lruList) removeOldest() *lruNode {
	node := l.tail
	if node == nil {
		return nil
	}
	l.unlink(node)
	return node
}

// unlink removes a node from the list and clears its pointers.
func (l *lruList) unlink(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}

	node.prev = nil
	node.next = nil
	l.len--
}
