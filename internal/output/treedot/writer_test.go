package treedot

import (
	"strings"
	"testing"

	"procmine/pkg/models"
)

func TestRenderEmitsShapesPerNodeKind(t *testing.T) {
	tree := models.NewOperatorNode(models.OpSequence,
		models.NewLeaf("a"),
		models.NewOperatorNode(models.OpExclusive, models.NewLeaf("b"), models.NewSilent()),
	)

	out := Render(tree)
	for _, want := range []string{
		"digraph processtree {",
		`[label="→", shape=diamond]`,
		`[label="X", shape=diamond]`,
		`[label="a", shape=box]`,
		`[label="b", shape=box]`,
		"shape=point",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderLabelsEdgesWithChildOrder(t *testing.T) {
	tree := models.NewOperatorNode(models.OpLoop, models.NewLeaf("do"), models.NewLeaf("redo"))
	out := Render(tree)

	if !strings.Contains(out, `n0 -> n1 [label="0"]`) {
		t.Fatalf("expected first child edge labeled 0:\n%s", out)
	}
	if !strings.Contains(out, `n0 -> n2 [label="1"]`) {
		t.Fatalf("expected second child edge labeled 1:\n%s", out)
	}
}

func TestRenderNilTreeIsValidDot(t *testing.T) {
	out := Render(nil)
	if !strings.HasPrefix(out, "digraph processtree {") || !strings.HasSuffix(out, "}\n") {
		t.Fatalf("unexpected output for nil tree:\n%s", out)
	}
}
