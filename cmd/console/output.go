package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Formatos aceitos por --output.
const (
	outputTable    = "table"
	outputMarkdown = "markdown"
	outputJSON     = "json"
)

// tableBuilder monta uma tabela go-pretty e renderiza no formato escolhido.
type tableBuilder struct {
	writer table.Writer
	format string
}

func newTable(format string) *tableBuilder {
	w := table.NewWriter()
	if format != outputMarkdown {
		w.SetStyle(table.StyleLight)
	}
	return &tableBuilder{writer: w, format: format}
}

func (t *tableBuilder) header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.writer.AppendHeader(row)
}

func (t *tableBuilder) row(vals ...any) {
	row := make(table.Row, len(vals))
	copy(row, vals)
	t.writer.AppendRow(row)
}

func (t *tableBuilder) footer(vals ...any) {
	row := make(table.Row, len(vals))
	copy(row, vals)
	t.writer.AppendFooter(row)
}

// alignRight alinha à direita as colunas numéricas (índice a partir de 1).
func (t *tableBuilder) alignRight(cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, n := range cols {
		cfgs[i] = table.ColumnConfig{Number: n, Align: text.AlignRight}
	}
	t.writer.SetColumnConfigs(cfgs)
}

func (t *tableBuilder) render(w io.Writer) {
	if t.format == outputMarkdown {
		fmt.Fprintln(w, t.writer.RenderMarkdown())
		return
	}
	fmt.Fprintln(w, t.writer.Render())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// warn imprime avisos de degradação em stderr para não poluir a saída.
func warn(w io.Writer, msg string) {
	if msg != "" {
		fmt.Fprintf(w, "aviso: %s\n", msg)
	}
}
