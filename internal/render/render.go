// Package render prints a parsed collection for people: an indented tree,
// JSON, YAML or a PDF report.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"sgf_service/internal/domain/sgf"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var Formats = []string{FormatText, FormatJSON, FormatYAML}

type document struct {
	Collection *sgf.Collection `json:"collection" yaml:"collection"`
	Summary    sgf.Summary     `json:"summary" yaml:"summary"`
}

func Write(w io.Writer, format string, c *sgf.Collection) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, Text(c))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document{Collection: c, Summary: sgf.Summarize(c)})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Collection: c, Summary: sgf.Summarize(c)}); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q, expected one of %s", format, strings.Join(Formats, ", "))
	}
}

// Text returns the indented tree dump, one line per game tree and node.
func Text(c *sgf.Collection) string {
	return strings.Join(Lines(c), "\n") + "\n"
}

func Lines(c *sgf.Collection) []string {
	lines := []string{fmt.Sprintf("collection: %d tree(s)", len(c.Trees))}
	for i, tree := range c.Trees {
		lines = appendTree(lines, tree, strconv.Itoa(i+1), 1)
	}
	return lines
}

func appendTree(lines []string, tree *sgf.GameTree, label string, depth int) []string {
	indent := strings.Repeat("  ", depth)
	lines = append(lines, fmt.Sprintf("%sgametree %s", indent, label))
	for i, node := range tree.Sequence.Nodes {
		lines = append(lines, fmt.Sprintf("%s  node %d:%s", indent, i+1, formatNode(node)))
	}
	for i, child := range tree.Children {
		lines = appendTree(lines, child, label+"."+strconv.Itoa(i+1), depth+1)
	}
	return lines
}

func formatNode(node *sgf.Node) string {
	if len(node.Properties) == 0 {
		return " (empty)"
	}
	var b strings.Builder
	for _, prop := range node.Properties {
		quoted := make([]string, len(prop.Values))
		for i, v := range prop.Values {
			quoted[i] = strconv.Quote(v)
		}
		fmt.Fprintf(&b, " %s=[%s]", prop.Ident, strings.Join(quoted, ", "))
	}
	return b.String()
}
