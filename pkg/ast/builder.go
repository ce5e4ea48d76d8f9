package ast

import (
	"fmt"

	"github.com/quill-lang/quill-scope/pkg/scope"
)

// Builder walks a Node tree and drives pkg/scope's declaration and
// reference-registration API the way a real parser would as it
// recognizes syntax (spec.md §6: "The parser provides... declaration
// nodes with an embedded reference (proxy)... function literal nodes
// carrying a pointer to their scope"). It is deliberately small: it
// covers the constructs needed to exercise every branch of scope
// analysis (closures, eval, with, catch, modules), not a full grammar.
type Builder struct {
	interner *Interner
	root     *scope.Scope
}

func NewBuilder(interner *Interner) *Builder {
	return &Builder{interner: interner}
}

// Build turns a top-level program Node into a fully analyzed scope
// tree, returning the emitted ScopeInfo for the root scope and the
// scope tree itself for callers that want to inspect it (pkg/scopeprint,
// pkg/scopestore).
func (b *Builder) Build(program *Node) (*scope.Scope, *scope.ScopeInfo, error) {
	mode := scope.Sloppy
	if program.Options[OptionStrict] == "true" {
		mode = scope.Strict
	}

	var root *scope.Scope
	if program.Name == NameModule {
		root = scope.NewModuleScope()
	} else {
		root = scope.NewDeclarationScope(scope.Script, mode, scope.NotAFunction)
	}
	b.root = root
	if _, err := root.AsDeclarationScope().DeclareReceiver(b.interner.Intern("this"), scope.Var); err != nil {
		return nil, nil, err
	}

	if err := b.walkStatements(root, program.Children); err != nil {
		return nil, nil, err
	}

	info, err := root.Analyze(scope.AnalysisInfo{})
	if err != nil {
		return nil, nil, err
	}
	return root, info, nil
}

// walkStatements processes a statement list against the current scope,
// creating child scopes and declarations as it recognizes them.
func (b *Builder) walkStatements(s *scope.Scope, nodes []*Node) error {
	for _, n := range nodes {
		if err := b.walkStatement(s, n); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) walkStatement(s *scope.Scope, n *Node) error {
	switch n.Name {
	case NameVarDecl, NameLetDecl, NameConstDecl:
		return b.declare(s, n)
	case NameFn, NameArrow:
		_, err := b.buildFunction(s, n)
		return err
	case NameBlock:
		return b.buildBlock(s, n)
	case NameWith:
		return b.buildWith(s, n)
	case NameCatch:
		return b.buildCatch(s, n)
	case NameEval:
		s.RecordEvalCall()
		return b.walkExpressions(s, n.Children)
	case NameImport:
		return b.declareImport(s, n)
	case NameExport:
		return b.declareExport(s, n)
	default:
		return b.walkExpression(s, n)
	}
}

func (b *Builder) walkExpressions(s *scope.Scope, nodes []*Node) error {
	for _, n := range nodes {
		if err := b.walkExpression(s, n); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) walkExpression(s *scope.Scope, n *Node) error {
	switch n.Name {
	case NameIdentifier:
		p := scope.NewProxy(b.interner.Intern(n.Options[OptionName]))
		p.IsAssigned = n.Options[OptionAssignment] == "true"
		s.AddUnresolved(p)
		return nil
	case NameBind:
		if len(n.Children) != 1 || n.Children[0].Name != NameIdentifier {
			return fmt.Errorf("ast: bind node must wrap exactly one identifier")
		}
		p := scope.NewProxy(b.interner.Intern(n.Children[0].Options[OptionName]))
		p.IsAssigned = true
		s.AddUnresolved(p)
		return nil
	case NameFn, NameArrow:
		_, err := b.buildFunction(s, n)
		return err
	case NameEval:
		s.RecordEvalCall()
		return b.walkExpressions(s, n.Children)
	default:
		return b.walkExpressions(s, n.Children)
	}
}

func (b *Builder) declare(s *scope.Scope, n *Node) error {
	mode := scope.Var
	switch n.Name {
	case NameLetDecl:
		mode = scope.Let
	case NameConstDecl:
		mode = scope.Const
	}
	name := b.interner.Intern(n.Options[OptionName])
	_, _, err := s.DeclareVariable(name, mode, scope.NeedsInitialization, scope.Normal, false, false, false, false, n)
	if err != nil {
		return err
	}
	return b.walkExpressions(s, n.Children)
}

func (b *Builder) buildBlock(parent *scope.Scope, n *Node) error {
	block := scope.NewScope(scope.Block, parent.LanguageMode())
	parent.AddInner(block)
	if err := b.walkStatements(block, n.Children); err != nil {
		return err
	}
	block.FinalizeBlockScope()
	return nil
}

func (b *Builder) buildWith(parent *scope.Scope, n *Node) error {
	withScope := scope.NewScope(scope.With, parent.LanguageMode())
	parent.AddInner(withScope)
	return b.walkStatements(withScope, n.Children)
}

func (b *Builder) buildCatch(parent *scope.Scope, n *Node) error {
	catchScope := scope.NewScope(scope.Catch, parent.LanguageMode())
	parent.AddInner(catchScope)
	if name := n.Options[OptionName]; name != "" {
		if _, err := catchScope.DeclareLocal(b.interner.Intern(name), scope.Let, scope.CreatedInitialized, scope.Normal, false); err != nil {
			return err
		}
	}
	return b.walkStatements(catchScope, n.Children)
}

func (b *Builder) buildFunction(parent *scope.Scope, n *Node) (*scope.Scope, error) {
	kind := scope.NormalFunction
	if n.Name == NameArrow {
		kind = scope.ArrowFunction
	}
	switch {
	case n.Options[OptionAsync] == "true":
		kind = scope.AsyncFunction // async generators collapse to async for this builder's purposes
	case n.Options[OptionGenerator] == "true":
		kind = scope.GeneratorFunction
	}

	mode := parent.LanguageMode()
	if n.Options[OptionStrict] == "true" {
		mode = scope.Strict
	}

	fn := scope.NewDeclarationScope(scope.FunctionType, mode, kind)
	parent.AddInner(fn)

	if kind != scope.ArrowFunction {
		if _, err := fn.AsDeclarationScope().DeclareReceiver(b.interner.Intern("this"), scope.Var); err != nil {
			return nil, err
		}
		fn.AsDeclarationScope().DeclareNewTarget(b.interner.Intern(".new.target"))
		fn.AsDeclarationScope().DeclareArguments(b.interner.Intern("arguments"))
	}
	if fnName := n.Options[OptionName]; fnName != "" {
		fn.AsDeclarationScope().DeclareFunctionName(b.interner.Intern(fnName), scope.Const)
	}

	var params, body []*Node
	for _, child := range n.Children {
		if child.Name == "param" {
			params = append(params, child)
		} else {
			body = append(body, child)
		}
	}
	for _, p := range params {
		if _, err := fn.AsDeclarationScope().DeclareParameter(
			b.interner.Intern(p.Options[OptionName]),
			scope.Var,
			p.Options[OptionOptional] == "true",
			p.Options[OptionRest] == "true",
		); err != nil {
			return nil, err
		}
	}

	if err := b.walkStatements(fn, body); err != nil {
		return nil, err
	}
	return fn, nil
}

func (b *Builder) declareImport(s *scope.Scope, n *Node) error {
	desc := s.AsModuleScope()
	if desc == nil {
		return fmt.Errorf("ast: import declaration outside a module scope")
	}
	desc.DeclareImport(s, b.interner.Intern(n.Options[OptionName]), b.interner.Intern(n.Options[OptionExportName]), n.Options[OptionSource])
	return nil
}

func (b *Builder) declareExport(s *scope.Scope, n *Node) error {
	desc := s.AsModuleScope()
	if desc == nil {
		return fmt.Errorf("ast: export declaration outside a module scope")
	}
	name := b.interner.Intern(n.Options[OptionName])
	v, err := s.DeclareLocal(name, scope.Let, scope.NeedsInitialization, scope.Normal, false)
	if err != nil {
		return err
	}
	eb := desc.DeclareExport(name, b.interner.Intern(n.Options[OptionExportName]), v)
	_ = eb
	return nil
}
