// Package treedot renders process trees as Graphviz DOT text: boxes for
// activities, points for silent steps, and gateway symbols for
// operators, laid out left to right. Child edge order follows the
// tree's child order.
package treedot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"procmine/pkg/models"
)

var operatorLabels = map[models.Operator]string{
	models.OpSequence:  "→",
	models.OpExclusive: "X",
	models.OpParallel:  "+",
	models.OpLoop:      "↺",
}

// Render produces the DOT description of a process tree.
func Render(tree *models.ProcessTree) string {
	var b strings.Builder
	b.WriteString("digraph processtree {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\"];\n")

	next := 0
	var emit func(node *models.ProcessTree) string
	emit = func(node *models.ProcessTree) string {
		id := fmt.Sprintf("n%d", next)
		next++
		switch {
		case node.IsSilent():
			fmt.Fprintf(&b, "  %s [label=\" \", shape=point];\n", id)
		case node.IsLeaf():
			fmt.Fprintf(&b, "  %s [label=%q, shape=box];\n", id, node.Activity)
		default:
			fmt.Fprintf(&b, "  %s [label=%q, shape=diamond];\n", id, operatorLabels[node.Operator])
		}
		for i, child := range node.Children {
			childID := emit(child)
			fmt.Fprintf(&b, "  %s -> %s [label=\"%d\"];\n", id, childID, i)
		}
		return id
	}
	if tree != nil {
		emit(tree)
	}

	b.WriteString("}\n")
	return b.String()
}

// WriteFile renders a tree and writes the DOT text to path, creating
// parent directories as needed.
func WriteFile(path string, tree *models.ProcessTree) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Render(tree)), 0644); err != nil {
		return fmt.Errorf("failed to write dot file: %w", err)
	}
	return nil
}
