package order

import (
	"fmt"

	"github.com/dhamidi/typeorder/java/parser"
)

const Message = "Type members should be ordered in a standard way: " +
	"static fields, instance fields, static initializers, instance initializers, " +
	"constructors, methods, nested types"

type Mode int

const (
	// ModeDiagnose reports misordered types without computing fixes.
	ModeDiagnose Mode = iota
	// ModeRefactor attaches the reordering edit to every diagnostic.
	ModeRefactor
)

type Diagnostic struct {
	Check    string
	Message  string
	TypeName string
	// Span covers the whole type declaration.
	Span parser.Span
	// NameSpan covers the type's name, or equals Span if it has none.
	NameSpan parser.Span
	Fix      Edit
}

// Plan is the analysis of a single type body.
type Plan struct {
	Decl        *parser.Node
	Body        *Body
	Permutation Permutation
	// Skip says why the type was not analysed; empty if it was.
	Skip string
}

// Analyzer runs the member order check. It holds no state between calls
// and is safe for concurrent use.
type Analyzer struct {
	Config Config
	Mode   Mode
}

func NewAnalyzer(cfg Config, mode Mode) *Analyzer {
	return &Analyzer{Config: cfg, Mode: mode}
}

// Plan classifies and solves one type body. An error means the engine's
// own invariants were violated.
func (a *Analyzer) Plan(src []byte, decl *parser.Node) (*Plan, error) {
	plan := &Plan{Decl: decl}
	body := decl.Body()
	switch {
	case a.Config.Suppresses(decl):
		plan.Skip = "suppressed"
		return plan, nil
	case body == nil:
		plan.Skip = "no body"
		return plan, nil
	case body.Error != nil || body.FirstChildOfKind(parser.KindError) != nil:
		plan.Skip = "unparsable body"
		return plan, nil
	}

	b, err := NewBody(src, decl, a.Config)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", decl.Name(), err)
	}
	if err := b.Verify(); err != nil {
		return nil, fmt.Errorf("type %s: %w", decl.Name(), err)
	}
	plan.Body = b

	if len(b.Members) <= 1 {
		plan.Skip = "fewer than two members"
		plan.Permutation = Identity(len(b.Members))
		return plan, nil
	}

	plan.Permutation = Solve(b.Members)
	if err := plan.Permutation.Verify(b.Members); err != nil {
		return nil, fmt.Errorf("type %s: %w", decl.Name(), err)
	}
	return plan, nil
}

// AnalyzeType reports a diagnostic if the members of decl are out of order.
func (a *Analyzer) AnalyzeType(src []byte, decl *parser.Node) (*Diagnostic, error) {
	plan, err := a.Plan(src, decl)
	if err != nil {
		return nil, err
	}
	if plan.Skip != "" || plan.Permutation.IsIdentity() {
		return nil, nil
	}

	diag := &Diagnostic{
		Check:    a.Config.CheckName,
		Message:  Message,
		TypeName: decl.Name(),
		Span:     decl.Span,
		NameSpan: decl.Span,
	}
	if id := decl.FirstChildOfKind(parser.KindIdentifier); id != nil {
		diag.NameSpan = id.Span
	}
	if a.Mode == ModeRefactor {
		diag.Fix = Emit(plan.Body, plan.Permutation)
	}
	return diag, nil
}

// AnalyzeUnit checks every type declaration in a compilation unit, nested
// types included. A suppressed type suppresses its nested types as well.
func (a *Analyzer) AnalyzeUnit(src []byte, unit *parser.Node) ([]Diagnostic, error) {
	var diags []Diagnostic
	var firstErr error
	parser.Walk(unit, func(decl *parser.Node) bool {
		if firstErr != nil {
			return false
		}
		if a.Config.Suppresses(decl) {
			return false
		}
		diag, err := a.AnalyzeType(src, decl)
		if err != nil {
			firstErr = err
			return false
		}
		if diag != nil {
			diags = append(diags, *diag)
		}
		return true
	})
	return diags, firstErr
}

// Analyze parses src and checks every type declaration in it.
func (a *Analyzer) Analyze(src []byte, file string) ([]Diagnostic, error) {
	unit := parser.Parse(src, parser.WithFile(file))
	diags, err := a.AnalyzeUnit(src, unit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return diags, nil
}
