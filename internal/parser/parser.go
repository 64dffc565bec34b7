// Package parser reads SGF text into the sgf AST with a single-pass
// recursive-descent scanner. There is no separate lexer: every rule decides
// from one byte of lookahead and skips whitespace after the unit it consumed.
package parser

import (
	"sgf_service/internal/domain/sgf"
	"sgf_service/internal/errors"
)

const DefaultMaxDepth = 10000

const eof = -1

const (
	msgExpectedOpen      = "expected '('"
	msgExpectedClose     = "expected ')'"
	msgExpectedSemicolon = "expected ';'"
	msgExpectedBracket   = "expected '['"
	msgExpectedValueEnd  = "expected ']'"
	msgExpectedIdent     = "expected propident"
	msgTooDeep           = "maximum nesting depth exceeded"
)

type Option func(*Parser)

// WithMaxDepth bounds game-tree nesting. A value <= 0 disables the check.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// Parser holds the cursor over one input. It is not safe for concurrent use.
type Parser struct {
	text     string
	index    int
	maxDepth int
}

func New(text string, opts ...Option) *Parser {
	p := &Parser{text: text, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a shorthand for New(text, opts...).Parse().
func Parse(text string, opts ...Option) (*sgf.Collection, error) {
	return New(text, opts...).Parse()
}

func (p *Parser) peek(offset int) int {
	i := p.index + offset
	if i < 0 || i >= len(p.text) {
		return eof
	}
	return int(p.text[i])
}

func (p *Parser) read() int {
	if p.index >= len(p.text) {
		return eof
	}
	c := p.text[p.index]
	p.index++
	return int(c)
}

func (p *Parser) skipWhitespace() {
	for isWhitespace(p.peek(0)) {
		p.index++
	}
}

func isWhitespace(c int) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v'
}

func isUpper(c int) bool {
	return c >= 'A' && c <= 'Z'
}

func fail(message string) error {
	return errors.NewSyntaxError(message)
}

// Parse reads the whole collection. Input after the last game tree must be
// whitespace or another game tree.
func (p *Parser) Parse() (*sgf.Collection, error) {
	p.skipWhitespace()
	if p.peek(0) != '(' {
		return nil, fail(msgExpectedOpen)
	}
	head, err := p.parseGameTree(1)
	if err != nil {
		return nil, err
	}

	trees := []*sgf.GameTree{head}
	for {
		c := p.peek(0)
		if c == eof {
			break
		}
		if c != '(' {
			return nil, fail(msgExpectedOpen)
		}
		tree, err := p.parseGameTree(1)
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	p.skipWhitespace()
	return &sgf.Collection{Trees: trees}, nil
}

// parseGameTree expects the cursor on '('.
func (p *Parser) parseGameTree(depth int) (*sgf.GameTree, error) {
	if p.maxDepth > 0 && depth > p.maxDepth {
		return nil, fail(msgTooDeep)
	}
	p.read()

	seq, err := p.parseSequence()
	if err != nil {
		return nil, err
	}

	children := []*sgf.GameTree{}
	for p.peek(0) == '(' {
		child, err := p.parseGameTree(depth + 1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	if p.read() != ')' {
		return nil, fail(msgExpectedClose)
	}
	p.skipWhitespace()
	return &sgf.GameTree{Sequence: seq, Children: children}, nil
}

func (p *Parser) parseSequence() (sgf.Sequence, error) {
	if p.peek(0) != ';' {
		return sgf.Sequence{}, fail(msgExpectedSemicolon)
	}
	var nodes []*sgf.Node
	for p.peek(0) == ';' {
		node, err := p.parseNode()
		if err != nil {
			return sgf.Sequence{}, err
		}
		nodes = append(nodes, node)
	}
	p.skipWhitespace()
	return sgf.Sequence{Nodes: nodes}, nil
}

// parseNode expects the cursor on ';'.
func (p *Parser) parseNode() (*sgf.Node, error) {
	p.read()
	props := []*sgf.Property{}
	for isUpper(p.peek(0)) {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	p.skipWhitespace()
	return &sgf.Node{Properties: props}, nil
}

func (p *Parser) parseProperty() (*sgf.Property, error) {
	ident, err := p.parsePropIdent()
	if err != nil {
		return nil, err
	}
	if p.peek(0) != '[' {
		return nil, fail(msgExpectedBracket)
	}
	var values []string
	for p.peek(0) == '[' {
		value, err := p.parsePropValue()
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	p.skipWhitespace()
	return &sgf.Property{Ident: ident, Values: values}, nil
}

func (p *Parser) parsePropIdent() (string, error) {
	start := p.index
	for isUpper(p.peek(0)) {
		p.read()
	}
	if p.index == start {
		return "", fail(msgExpectedIdent)
	}
	ident := p.text[start:p.index]
	p.skipWhitespace()
	return ident, nil
}

// parsePropValue expects the cursor on '['. A backslash keeps the next byte
// verbatim; nothing else is decoded.
func (p *Parser) parsePropValue() (string, error) {
	p.read()
	var value []byte
	for {
		c := p.peek(0)
		switch {
		case c == ']':
			p.read()
			p.skipWhitespace()
			return string(value), nil
		case c == '\\':
			p.read()
			if next := p.read(); next != eof {
				value = append(value, byte(next))
			}
		case c == eof:
			return "", fail(msgExpectedValueEnd)
		default:
			value = append(value, byte(p.read()))
		}
	}
}
