package sgf

// Collection представляет корневой элемент SGF-файла: одно или несколько деревьев
type Collection struct {
	Trees []*GameTree `json:"trees" bson:"trees" yaml:"trees"`
}

// GameTree представляет одно дерево в SGF (последовательность + варианты)
type GameTree struct {
	Sequence Sequence    `json:"sequence" bson:"sequence" yaml:"sequence"`
	Children []*GameTree `json:"children" bson:"children" yaml:"children"` // Варианты (вариативные линии)
}

// Sequence - основная линия без ветвлений, всегда хотя бы один узел
type Sequence struct {
	Nodes []*Node `json:"nodes" bson:"nodes" yaml:"nodes"`
}

// Node представляет один узел SGF (набор свойств, таких как B[pd], W[dd], C[...])
type Node struct {
	Properties []*Property `json:"properties" bson:"properties" yaml:"properties"`
}

// Property - идентификатор и все его значения, включая первое (например, AB[aa][bb])
type Property struct {
	Ident  string   `json:"ident" bson:"ident" yaml:"ident"`
	Values []string `json:"values" bson:"values" yaml:"values"`
}

// Value returns the first (primary) value of the property.
func (p *Property) Value() string {
	if len(p.Values) == 0 {
		return ""
	}
	return p.Values[0]
}

// Get returns the values of the first property named ident.
func (n *Node) Get(ident string) ([]string, bool) {
	for _, prop := range n.Properties {
		if prop.Ident == ident {
			return prop.Values, true
		}
	}
	return nil, false
}

func (n *Node) Has(ident string) bool {
	_, ok := n.Get(ident)
	return ok
}

// Root returns the first node of the first tree, or nil for an empty collection.
func (c *Collection) Root() *Node {
	if len(c.Trees) == 0 || len(c.Trees[0].Sequence.Nodes) == 0 {
		return nil
	}
	return c.Trees[0].Sequence.Nodes[0]
}

// WalkFunc is called for every game tree in pre-order. depth is 1 for top-level trees.
// Returning false skips the tree's children.
type WalkFunc func(tree *GameTree, depth int) bool

func (c *Collection) Walk(fn WalkFunc) {
	for _, tree := range c.Trees {
		tree.walk(fn, 1)
	}
}

func (t *GameTree) Walk(fn WalkFunc) {
	t.walk(fn, 1)
}

func (t *GameTree) walk(fn WalkFunc, depth int) {
	if !fn(t, depth) {
		return
	}
	for _, child := range t.Children {
		child.walk(fn, depth+1)
	}
}
