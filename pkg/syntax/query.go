package syntax

import (
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/splice/pkg/safeconv"
)

// Sentinel errors for query execution.
var (
	ErrTreeClosed = errors.New("tree already closed")
	errNilQuery   = errors.New("query is nil")
)

// Query is a compiled tree-sitter query bound to one grammar.
type Query struct {
	raw     *sitter.Query
	Grammar string
	Pattern string
}

// Capture is one named capture of a match.
type Capture struct {
	Name string
	Node *Node
}

// Match is one query match. Captures keep query order; a name captured
// more than once (quantified captures) appears once per node.
type Match struct {
	Captures []Capture
}

// Get returns the nodes captured under name.
func (m Match) Get(name string) []*Node {
	var out []*Node

	for _, c := range m.Captures {
		if c.Name == name {
			out = append(out, c.Node)
		}
	}

	return out
}

// First returns the first node captured under name.
func (m Match) First(name string) (*Node, bool) {
	for _, c := range m.Captures {
		if c.Name == name {
			return c.Node, true
		}
	}

	return nil, false
}

// QueryCache compiles and caches queries keyed by grammar and pattern.
type QueryCache struct {
	cache  map[string]*Query
	mu     sync.RWMutex
	hits   int64
	misses int64
}

// NewQueryCache creates an empty QueryCache.
func NewQueryCache() *QueryCache {
	return &QueryCache{cache: make(map[string]*Query)}
}

// Compile returns the cached query for (grammar, pattern), compiling it on
// first use.
func (qc *QueryCache) Compile(grammar, pattern string) (*Query, error) {
	key := grammar + "\x00" + pattern

	qc.mu.RLock()

	if cached, ok := qc.cache[key]; ok {
		qc.mu.RUnlock()
		qc.mu.Lock()
		qc.hits++
		qc.mu.Unlock()

		return cached, nil
	}

	qc.mu.RUnlock()

	compiled, err := CompileQuery(grammar, pattern)
	if err != nil {
		return nil, err
	}

	qc.mu.Lock()
	qc.cache[key] = compiled
	qc.misses++
	qc.mu.Unlock()

	return compiled, nil
}

// Stats returns the number of cache hits and misses.
func (qc *QueryCache) Stats() (hits, misses int64) {
	qc.mu.RLock()
	defer qc.mu.RUnlock()

	return qc.hits, qc.misses
}

// CompileQuery compiles pattern for grammar without caching.
func CompileQuery(grammar, pattern string) (*Query, error) {
	lang := Grammar(grammar)
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", ErrGrammarNotAvailable, grammar)
	}

	raw, err := sitter.NewQuery(lang, []byte(pattern))
	if err != nil {
		return nil, fmt.Errorf("tree-sitter query compilation failed: %w", err)
	}

	return &Query{raw: raw, Grammar: grammar, Pattern: pattern}, nil
}

// Matches runs q over the whole tree and returns every match with its
// captures resolved to materialized nodes.
func (t *Tree) Matches(q *Query) ([]Match, error) {
	if q == nil || q.raw == nil {
		return nil, errNilQuery
	}

	if t.raw == nil {
		return nil, ErrTreeClosed
	}

	source := []byte(t.Source)
	cursor := sitter.NewQueryCursor()
	matches := cursor.Matches(q.raw, t.raw.RootNode(), source)

	var out []Match

	for match := matches.Next(); match != nil; match = matches.Next() {
		var m Match

		for _, c := range match.Captures {
			if c.Node.IsNull() {
				continue
			}

			n := t.resolve(c.Node)
			if n == nil {
				continue
			}

			m.Captures = append(m.Captures, Capture{Name: q.raw.CaptureNameForID(c.Index), Node: n})
		}

		if len(m.Captures) > 0 {
			out = append(out, m)
		}
	}

	return out, nil
}

// resolve maps a raw node onto its materialized counterpart. Kind and span
// alone are ambiguous for wrapper nodes, so the innermost node with the same
// kind and span is picked.
func (t *Tree) resolve(raw sitter.Node) *Node {
	start := safeconv.MustUintToInt(raw.StartByte())
	end := safeconv.MustUintToInt(raw.EndByte())
	kind := raw.Type()

	outer, ok := t.Lookup(kind, start, end)
	if !ok {
		return nil
	}

	cur := outer

	for {
		var next *Node

		for _, c := range cur.children {
			if c.kind == kind && c.startByte == start && c.endByte == end {
				next = c

				break
			}
		}

		if next == nil {
			return cur
		}

		cur = next
	}
}
