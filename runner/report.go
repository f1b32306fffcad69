package runner

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/iancoleman/strcase"
)

// Reporter renders results as text, one line per finding:
//
//	path:line:col: [type-member-order] message (TypeName)
type Reporter struct {
	w io.Writer

	location *color.Color
	code     *color.Color
	typeName *color.Color
	ok       *color.Color
	bad      *color.Color
}

func NewReporter(w io.Writer, colored bool) *Reporter {
	rep := &Reporter{
		w:        w,
		location: color.New(color.Bold),
		code:     color.New(color.FgYellow),
		typeName: color.New(color.FgCyan),
		ok:       color.New(color.FgGreen, color.Bold),
		bad:      color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{rep.location, rep.code, rep.typeName, rep.ok, rep.bad} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return rep
}

// RuleSlug renders a check name as the kebab-case tag used in reports.
func RuleSlug(check string) string {
	return strcase.ToKebab(check)
}

// Findings prints every diagnostic in results.
func (rep *Reporter) Findings(results []FileResult) {
	for _, res := range results {
		for _, d := range res.Diagnostics {
			pos := d.NameSpan.Start
			fmt.Fprintf(rep.w, "%s: %s %s (%s)\n",
				rep.location.Sprintf("%s:%d:%d", res.Path, pos.Line, pos.Column),
				rep.code.Sprintf("[%s]", RuleSlug(d.Check)),
				d.Message,
				rep.typeName.Sprint(d.TypeName),
			)
		}
	}
}

// CheckSummary prints the closing line of a check run.
func (rep *Reporter) CheckSummary(results []FileResult) {
	findings := Findings(results)
	if findings == 0 {
		rep.ok.Fprintf(rep.w, "%d file(s) checked, all types ordered\n", len(results))
		return
	}
	files := 0
	for _, res := range results {
		if len(res.Diagnostics) > 0 {
			files++
		}
	}
	rep.bad.Fprintf(rep.w, "%d misordered type(s) in %d of %d file(s)\n", findings, files, len(results))
}

// Changes prints one line per rewritten file.
func (rep *Reporter) Changes(results []FileResult, verb string) {
	for _, res := range results {
		if res.Changed() {
			fmt.Fprintf(rep.w, "%s %s (%d type(s))\n", verb, rep.location.Sprint(res.Path), res.Applied)
		}
	}
}

// FixSummary prints the closing line of a fix run.
func (rep *Reporter) FixSummary(results []FileResult) {
	changed, types := 0, 0
	for _, res := range results {
		if res.Changed() {
			changed++
			types += res.Applied
		}
	}
	rep.ok.Fprintf(rep.w, "%d type(s) reordered in %d of %d file(s)\n", types, changed, len(results))
	if remaining := Findings(results); remaining > 0 {
		rep.bad.Fprintf(rep.w, "%d type(s) could not be fixed\n", remaining)
	}
}

// Diffs writes a unified diff for every changed file.
func (rep *Reporter) Diffs(results []FileResult) error {
	for _, res := range results {
		if !res.Changed() {
			continue
		}
		text, err := UnifiedDiff(res.Path, res.Original, res.Output)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(rep.w, text); err != nil {
			return err
		}
	}
	return nil
}
