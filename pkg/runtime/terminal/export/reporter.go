package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/request-atlas/pkg/models/api"
	"github.com/de-tools/request-atlas/pkg/models/domain"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

type TableConfig struct {
	MaxColumnWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MaxColumnWidth: 40,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
	format Format
}

func NewReporter(writer io.Writer, format Format) (*Reporter, error) {
	if writer == nil {
		writer = os.Stdout
	}
	switch format {
	case "":
		format = FormatTable
	case FormatTable, FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
		format: format,
	}, nil
}

func (c *Reporter) Handle(rows []domain.ReportRow) error {
	if c.format == FormatJSON {
		enc := json.NewEncoder(c.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewReport(rows))
	}
	return c.table(rows)
}

type tableData struct {
	Header []string
	Rows   [][]string
}

func (c *Reporter) table(rows []domain.ReportRow) error {
	data := tableData{}
	if len(rows) > 0 {
		for _, cell := range rows[0] {
			data.Header = append(data.Header, cell.Label)
		}
	}
	for _, row := range rows {
		values := make([]string, 0, len(row))
		for _, cell := range row {
			values = append(values, formatValue(cell.Value))
		}
		data.Rows = append(data.Rows, values)
	}

	widths := make([]int, len(data.Header))
	for i, h := range data.Header {
		widths[i] = len(h)
	}
	for _, row := range data.Rows {
		for i, v := range row {
			if i < len(widths) && len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], c.config.MaxColumnWidth)
	}

	funcMap := template.FuncMap{
		"formatRow": func(values []string) string {
			cols := make([]string, len(widths))
			for i, w := range widths {
				v := ""
				if i < len(values) {
					v = values[i]
				}
				if len(v) > w {
					v = v[:w]
				}
				cols[i] = fmt.Sprintf(" %-*s ", w, v)
			}
			return "|" + strings.Join(cols, "|") + "|"
		},
		"separator": func() string {
			cols := make([]string, len(widths))
			for i, w := range widths {
				cols[i] = strings.Repeat("-", w+2)
			}
			return "+" + strings.Join(cols, "+") + "+"
		},
	}

	tmpl := `{{if .Header}}{{separator}}
{{formatRow .Header}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator}}
{{end}}{{len .Rows}} rows
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, data)
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}
