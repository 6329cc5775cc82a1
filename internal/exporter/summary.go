package exporter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"housingcli/pkg/contracts/domain"
)

// RegionSummary is the console overview of one region.
type RegionSummary struct {
	Region      string
	FirstYear   int
	LastYear    int
	LatestPpsf  float64
	HasPpsf     bool
	Change      float64
	HasChange   bool
	YearsOfData int
}

// SummarizeRegions pairs the yearly price and change series of each region.
// Regions follow the order of ppsf.
func SummarizeRegions(ppsf, change domain.RegionSeries) []RegionSummary {
	out := make([]RegionSummary, 0, len(ppsf))
	for _, l := range ppsf {
		s := RegionSummary{Region: l.Region, YearsOfData: len(l.Series)}
		if len(l.Series) > 0 {
			s.FirstYear = l.Series[0].Key
			s.LastYear = l.Series[len(l.Series)-1].Key
		}
		if valid := l.Series.ValidPoints(); len(valid) > 0 {
			s.LatestPpsf = valid[len(valid)-1].Value
			s.HasPpsf = true
		}
		if pct, ok := change.Get(l.Region); ok && len(pct) > 0 {
			last := pct[len(pct)-1]
			s.Change, s.HasChange = last.Value, last.Valid
		}
		out = append(out, s)
	}
	return out
}

// WriteRegionSummary renders the region overview as a table.
func WriteRegionSummary(w io.Writer, title string, rows []RegionSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Region", "Years", "Span", "Latest Ppsf", "Latest % Change"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	for _, r := range rows {
		span := "-"
		if r.YearsOfData > 0 {
			span = fmt.Sprintf("%d - %d", r.FirstYear, r.LastYear)
		}
		ppsf := "-"
		if r.HasPpsf {
			ppsf = fmt.Sprintf("$%.2f", r.LatestPpsf)
		}
		change := "-"
		if r.HasChange {
			change = fmt.Sprintf("%+.2f%%", r.Change)
		}
		t.AppendRow(table.Row{r.Region, r.YearsOfData, span, ppsf, change})
	}

	t.Render()
}

// WriteShareSummary renders the monthly sale shares as a table with a total row.
func WriteShareSummary(w io.Writer, title string, labels []string, shares []float64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Month", "Share"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	var total float64
	for i, s := range shares {
		label := fmt.Sprintf("#%d", i+1)
		if i < len(labels) {
			label = labels[i]
		}
		t.AppendRow(table.Row{label, fmt.Sprintf("%.2f%%", s*100)})
		total += s
	}
	t.AppendFooter(table.Row{"Total", fmt.Sprintf("%.2f%%", total*100)})

	t.Render()
}
