package scopeprint

import (
	"fmt"
	"io"

	asciitree "github.com/thediveo/go-asciitree"

	"github.com/quill-lang/quill-scope/pkg/scope"
)

// asciiNode is the shape go-asciitree.RenderFancy walks, mirroring the
// teacher's parser.AsciiNode.
type asciiNode struct {
	Label    string      `asciitree:"label"`
	Props    []string    `asciitree:"properties"`
	Children []asciiNode `asciitree:"children"`
}

func convertToTree(s *scope.Scope) asciiNode {
	label := fmt.Sprintf("%s (%s)", s.Type(), s.LanguageMode())

	props := []string{
		fmt.Sprintf("stack: %d", s.NumStackSlots()),
		fmt.Sprintf("heap: %d", s.NumHeapSlots()),
	}
	if s.ScopeCallsEval() {
		props = append(props, "calls-eval: true")
	}
	if s.InnerScopeCallsEval() {
		props = append(props, "inner-calls-eval: true")
	}
	for _, v := range s.Locals() {
		name := "?"
		if v.Name() != nil {
			name = *v.Name()
		}
		props = append(props, fmt.Sprintf("%s: %s/%s", name, v.Mode(), v.Location()))
	}

	var children []asciiNode
	for child := s.FirstInner(); child != nil; child = child.NextSibling() {
		children = append(children, convertToTree(child))
	}
	return asciiNode{Label: label, Props: props, Children: children}
}

// PrintAsciiTree renders s and its descendants as a box-drawing tree.
func PrintAsciiTree(s *scope.Scope, output io.Writer) {
	fmt.Fprintln(output, asciitree.RenderFancy(convertToTree(s)))
}
