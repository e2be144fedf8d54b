package analytics

import (
	"fmt"
	"html/template"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Block is one rendered result section for embedding in a web page.
type Block struct {
	Title string
	Html  template.HTML
}

type titledTable struct {
	title  string
	writer table.Writer
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func buildTables(r Results) []titledTable {
	summary := newTable()
	summary.AppendHeader(table.Row{"Metric", "Value"})
	summary.AppendRow(table.Row{fmt.Sprintf("%s entries", r.Term), r.TermCount})
	summary.AppendRow(table.Row{"International (%)", formatPct(r.PercentInternational)})
	summary.AppendRow(table.Row{"Average GPA", formatFloat(r.Averages.Gpa)})
	summary.AppendRow(table.Row{"Average GRE", formatFloat(r.Averages.Gre)})
	summary.AppendRow(table.Row{"Average GRE V", formatFloat(r.Averages.GreV)})
	summary.AppendRow(table.Row{"Average GRE AW", formatFloat(r.Averages.GreAw)})
	summary.AppendRow(table.Row{fmt.Sprintf("American average GPA, %s", r.Term), formatFloat(r.AmericanAvgGpa)})
	summary.AppendRow(table.Row{fmt.Sprintf("Acceptance rate, %s", r.Term), formatPct(r.AcceptancePercent)})
	summary.AppendRow(table.Row{fmt.Sprintf("Accepted average GPA, %s", r.Term), formatFloat(r.AcceptedAvgGpa)})
	summary.AppendRow(table.Row{"JHU CS masters entries", r.JhuMastersCs})
	summary.AppendRow(table.Row{fmt.Sprintf("Georgetown CS PhD acceptances, %s", r.Year), r.GeorgetownPhdCsAccept})

	programs := newTable()
	programs.AppendHeader(table.Row{"Program", "Entries", "Accepted", "Acceptance (%)"})
	for _, p := range r.TopPrograms {
		programs.AppendRow(table.Row{p.Program, p.Total, p.Accepted, formatPct(p.AcceptancePct)})
	}

	buckets := newTable()
	buckets.AppendHeader(table.Row{"GPA", "Entries", "Accepted", "Acceptance (%)"})
	for _, b := range r.GpaBuckets {
		buckets.AppendRow(table.Row{b.Bucket, b.Total, b.Accepted, formatPct(b.AcceptancePct)})
	}

	return []titledTable{
		{title: "Summary", writer: summary},
		{title: "Top programs", writer: programs},
		{title: "Acceptance by GPA", writer: buckets},
	}
}

// Render writes the result set as terminal tables.
func Render(w io.Writer, r Results) {
	for _, t := range buildTables(r) {
		fmt.Fprintln(w, t.title)
		t.writer.SetOutputMirror(w)
		t.writer.Render()
		fmt.Fprintln(w)
	}
}

// Blocks renders the result set as embeddable html sections.
func Blocks(r Results) []Block {
	tables := buildTables(r)
	blocks := make([]Block, len(tables))
	for i, t := range tables {
		blocks[i] = Block{
			Title: t.title,
			Html:  template.HTML(t.writer.RenderHTML()),
		}
	}
	return blocks
}

func formatFloat(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *value)
}

func formatPct(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
