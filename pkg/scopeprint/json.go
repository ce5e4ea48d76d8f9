// Package scopeprint renders a resolved and allocated scope tree in the
// diagnostic formats the teacher's pkg/common and pkg/parser writers
// use for its AST: an indented JSON document, Graphviz DOT, and a
// go-asciitree box drawing. Nothing here participates in analysis;
// these are read-only views over a *scope.Scope after Analyze has run.
package scopeprint

import (
	"encoding/json"
	"io"

	"github.com/quill-lang/quill-scope/pkg/scope"
)

// scopeView is the JSON-friendly projection of a Scope: the wire fields
// plus enough structure to recurse into children, mirroring the
// teacher's PrintASTJSON which just re-encodes its own Node shape.
type scopeView struct {
	Type            string      `json:"type"`
	LanguageMode    string      `json:"languageMode"`
	NumStackSlots   int         `json:"numStackSlots"`
	NumHeapSlots    int         `json:"numHeapSlots"`
	CallsEval       bool        `json:"callsEval,omitempty"`
	InnerCallsEval  bool        `json:"innerCallsEval,omitempty"`
	Locals          []localView `json:"locals,omitempty"`
	Children        []scopeView `json:"children,omitempty"`
}

type localView struct {
	Name     string `json:"name"`
	Mode     string `json:"mode"`
	Kind     string `json:"kind"`
	Location string `json:"location"`
}

func buildView(s *scope.Scope) scopeView {
	view := scopeView{
		Type:           s.Type().String(),
		LanguageMode:   s.LanguageMode().String(),
		NumStackSlots:  s.NumStackSlots(),
		NumHeapSlots:   s.NumHeapSlots(),
		CallsEval:      s.ScopeCallsEval(),
		InnerCallsEval: s.InnerScopeCallsEval(),
	}
	for _, v := range s.Locals() {
		name := ""
		if v.Name() != nil {
			name = *v.Name()
		}
		view.Locals = append(view.Locals, localView{
			Name:     name,
			Mode:     v.Mode().String(),
			Kind:     v.Kind().String(),
			Location: v.Location().String(),
		})
	}
	for child := s.FirstInner(); child != nil; child = child.NextSibling() {
		view.Children = append(view.Children, buildView(child))
	}
	return view
}

// PrintJSON writes the scope tree rooted at s as a single JSON document.
func PrintJSON(s *scope.Scope, output io.Writer) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildView(s))
}
