package sgf

// Summary - сводка по разобранной коллекции. Значения свойств корня копируются как есть.
type Summary struct {
	Trees      int               `json:"trees" bson:"trees" yaml:"trees"`
	Variations int               `json:"variations" bson:"variations" yaml:"variations"`
	Nodes      int               `json:"nodes" bson:"nodes" yaml:"nodes"`
	Properties int               `json:"properties" bson:"properties" yaml:"properties"`
	Values     int               `json:"values" bson:"values" yaml:"values"`
	MaxDepth   int               `json:"max_depth" bson:"max_depth" yaml:"max_depth"`
	Root       map[string]string `json:"root,omitempty" bson:"root,omitempty" yaml:"root,omitempty"`
}

// rootKeys are the game-info properties copied into Summary.Root.
var rootKeys = []string{"GM", "FF", "SZ", "PB", "PW", "RE", "KM"}

func Summarize(c *Collection) Summary {
	s := Summary{Trees: len(c.Trees)}
	c.Walk(func(tree *GameTree, depth int) bool {
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		s.Variations += len(tree.Children)
		for _, node := range tree.Sequence.Nodes {
			s.Nodes++
			s.Properties += len(node.Properties)
			for _, prop := range node.Properties {
				s.Values += len(prop.Values)
			}
		}
		return true
	})

	if root := c.Root(); root != nil {
		for _, key := range rootKeys {
			if values, ok := root.Get(key); ok {
				if s.Root == nil {
					s.Root = make(map[string]string)
				}
				s.Root[key] = values[0]
			}
		}
	}
	return s
}
