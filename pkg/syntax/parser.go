package syntax

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/splice/pkg/safeconv"
)

// Sentinel errors for parsing.
var (
	ErrGrammarNotAvailable = errors.New("tree-sitter grammar not available")
	errNoRootNode          = errors.New("tree-sitter returned no root node")
	errPoolType            = errors.New("parser pool returned unexpected type")
)

// Parser parses source files into materialized trees. It is safe for
// concurrent use; tree-sitter parsers are pooled per grammar.
type Parser struct {
	pools sync.Map // grammar name -> *sync.Pool
}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) pool(grammar string) (*sync.Pool, error) {
	if cached, ok := p.pools.Load(grammar); ok {
		pool, castOK := cached.(*sync.Pool)
		if castOK {
			return pool, nil
		}
	}

	lang := Grammar(grammar)
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", ErrGrammarNotAvailable, grammar)
	}

	pool := &sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	actual, _ := p.pools.LoadOrStore(grammar, pool)

	stored, ok := actual.(*sync.Pool)
	if !ok {
		return nil, errPoolType
	}

	return stored, nil
}

// Parse parses content with the named grammar. The returned tree must be
// closed by the caller.
func (p *Parser) Parse(ctx context.Context, grammar, path string, content []byte) (*Tree, error) {
	pool, err := p.pool(grammar)
	if err != nil {
		return nil, err
	}

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(tsParser)

	raw, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	root := raw.RootNode()
	if root.IsNull() {
		raw.Close()

		return nil, errNoRootNode
	}

	tree := &Tree{
		raw:     raw,
		index:   make(map[nodeKey]*Node),
		Source:  string(content),
		Path:    path,
		Grammar: grammar,
	}

	tree.root = tree.materialize(root, nil, "", 0)

	return tree, nil
}

// materialize copies n and its subtree into owned Nodes. The cursor walk
// is the only way to recover field names for every child.
func (t *Tree) materialize(n sitter.Node, parent *Node, field string, index int) *Node {
	start := n.StartPoint()
	end := n.EndPoint()

	out := &Node{
		tree:       t,
		parent:     parent,
		kind:       n.Type(),
		field:      field,
		named:      n.IsNamed(),
		index:      index,
		startByte:  safeconv.MustUintToInt(n.StartByte()),
		endByte:    safeconv.MustUintToInt(n.EndByte()),
		startPoint: Point{Row: int(start.Row), Column: int(start.Column)}, //nolint:gosec // rows/columns fit int
		endPoint:   Point{Row: int(end.Row), Column: int(end.Column)},     //nolint:gosec // rows/columns fit int
	}

	key := nodeKey{kind: out.kind, start: out.startByte, end: out.endByte}
	if _, exists := t.index[key]; !exists {
		t.index[key] = out
	}

	cursor := sitter.NewTreeCursor(n)
	if !cursor.GoToFirstChild() {
		return out
	}

	for i := 0; ; i++ {
		child := cursor.CurrentNode()
		out.children = append(out.children, t.materialize(child, out, cursor.CurrentFieldName(), i))

		if !cursor.GoToNextSibling() {
			break
		}
	}

	return out
}
