// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// LinePrinter writes one line per report of a catalog run, rendered from a
// template. The template is executed with each *validator.Report.
type LinePrinter struct {
	tmpl *template.Template
	buf  *bytes.Buffer
}

// DefaultLineTemplate prints the result, the dataset subset identifier and
// the report message.
const DefaultLineTemplate = `{{ if .Status }}PASS{{ else }}FAIL{{ end }} {{ .Dataset }} ({{ .Subset }}{{ with .Split }}/{{ . }}{{ end }}){{ with .Kind }} [{{ . }}]{{ end }}: {{ .Message | trunc 300 }}`

func NewLinePrinter(lineTemplate string) (*LinePrinter, error) {
	if lineTemplate == "" {
		lineTemplate = DefaultLineTemplate
	}

	tmpl, err := template.New("report_line").
		Funcs(sprig.FuncMap()).
		Option("missingkey=error").
		Parse(lineTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing report line template: %w", err)
	}

	return &LinePrinter{
		tmpl: tmpl,
		buf:  &bytes.Buffer{},
	}, nil
}

// Print writes the lines for all the reports in the result. It's not safe for
// concurrent use.
func (p *LinePrinter) Print(w io.Writer, result *Result) error {
	for _, report := range result.Reports {
		p.buf.Reset()
		if err := p.tmpl.Execute(p.buf, report); err != nil {
			return fmt.Errorf("rendering report line for %s: %w", report.Dataset, err)
		}
		p.buf.WriteByte('\n')
		if _, err := w.Write(p.buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
