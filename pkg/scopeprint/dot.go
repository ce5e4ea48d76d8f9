package scopeprint

import (
	"fmt"
	"io"

	"github.com/quill-lang/quill-scope/pkg/scope"
)

// scopeColors mirrors the teacher's tagColors table: a fill color per
// scope kind so a rendered graph reads at a glance.
var scopeColors = map[scope.ScopeType]string{
	scope.Script:       "lightpink",
	scope.ModuleType:   "PaleTurquoise",
	scope.Eval:         "lightgoldenrodyellow",
	scope.FunctionType: "lightgreen",
	scope.Block:        "Honeydew",
	scope.Catch:        "#FFD8E1",
	scope.With:         "#C0FFC0",
}

// PrintDOT writes s and its descendants as a Graphviz digraph, one node
// per Scope and one edge per parent/child link.
func PrintDOT(s *scope.Scope, output io.Writer) {
	fmt.Fprintln(output, `digraph G {`)
	fmt.Fprintln(output, `  bgcolor="transparent";`)
	fmt.Fprintln(output, `  node [shape="box", style="filled", fontname="Ubuntu Mono"];`)
	printScopeDOT(s, "", output)
	fmt.Fprintln(output, `}`)
}

func printScopeDOT(s *scope.Scope, parentID string, output io.Writer) {
	nodeID := fmt.Sprintf("scope_%p", s)
	label := fmt.Sprintf("%s\\nheap=%d stack=%d", s.Type(), s.NumHeapSlots(), s.NumStackSlots())
	color := scopeColors[s.Type()]
	if color == "" {
		color = "lightgray"
	}
	fmt.Fprintf(output, "  \"%s\" [label=\"%s\", fillcolor=\"%s\"];\n", nodeID, label, color)
	if parentID != "" {
		fmt.Fprintf(output, "  \"%s\" -> \"%s\";\n", parentID, nodeID)
	}
	for child := s.FirstInner(); child != nil; child = child.NextSibling() {
		printScopeDOT(child, nodeID, output)
	}
}
