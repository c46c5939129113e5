package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/tview"

	"github.com/GoPolymarket/vesting-dashboard/internal/app"
	"github.com/GoPolymarket/vesting-dashboard/internal/comparison"
	"github.com/GoPolymarket/vesting-dashboard/internal/format"
	"github.com/GoPolymarket/vesting-dashboard/internal/query"
	"github.com/GoPolymarket/vesting-dashboard/internal/report"
	"github.com/GoPolymarket/vesting-dashboard/internal/selection"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

const nothingToDisplay = "Nothing to display"

// tableData is a header row plus body rows.
type tableData struct {
	Title string
	Rows  [][]string
}

func headerText(st app.Status, sel selection.State) string {
	state := st.State
	switch st.State {
	case "loaded":
		state = "[green]" + state + "[-]"
	case "failed":
		state = "[red]" + state + "[-]"
	default:
		state = "[yellow]" + state + "[-]"
	}
	parts := []string{
		"[::b]Vesting Dashboard[::-]",
		sel.Approach.Label(),
		"data: " + state,
		fmt.Sprintf("%d/%d projects", sel.Visible, sel.Total),
		"size: " + sel.Criteria.Size.String(),
		"sort: " + string(sel.Criteria.Sort),
		fmt.Sprintf("scenario: %d/%d", sel.ScenarioIndex, selection.ScenarioMax(sel.Approach)),
	}
	line := strings.Join(parts, " | ")
	if st.LastError != "" {
		line += "\n[red]" + tview.Escape(st.LastError) + "[-]"
	}
	return line
}

func footerText() string {
	return "q quit | / search | 1 pure 2 hybrid 3 compare | [ ] scenario | s size | o sort | r reload | j/k navigate"
}

// statsText is the side panel: dataset summaries when no project is
// selected, otherwise the project block plus its scenario or comparison.
func statsText(store *query.Store, engine *comparison.Engine, sel selection.State) string {
	if store == nil || engine == nil {
		return "Loading datasets..."
	}
	if sel.Project == selection.All {
		var blocks []string
		for _, a := range []vesting.Approach{vesting.Pure, vesting.Hybrid} {
			if sel.Approach != vesting.Comparison && sel.Approach != a {
				continue
			}
			sum, ok := store.Summary(a)
			if !ok {
				continue
			}
			p, _ := store.PortfolioAggregate(a)
			blocks = append(blocks, report.RenderSummary(report.BuildSummaryData(a, sum, p)))
		}
		if len(blocks) == 0 {
			return nothingToDisplay
		}
		return tview.Escape(strings.Join(blocks, "\n\n"))
	}

	lookup := sel.Approach
	if lookup == vesting.Comparison {
		lookup = vesting.Pure
	}
	alloc, ok := store.Project(sel.Project, lookup)
	if !ok {
		return nothingToDisplay
	}
	blocks := []string{report.RenderProject(alloc)}
	if sel.Approach == vesting.Comparison {
		res, ok := engine.Compare(sel.Project, sel.ScenarioIndex)
		if !ok {
			return nothingToDisplay
		}
		blocks = append(blocks, report.RenderComparison(res))
		if insights, ok := engine.Insights(sel.Project); ok {
			blocks = append(blocks, report.RenderInsights(insights))
		}
	} else {
		sc, ok := engine.Single(sel.Project, sel.ScenarioIndex, sel.Approach)
		if !ok {
			return nothingToDisplay
		}
		blocks = append(blocks, report.RenderScenario(sc))
	}
	return tview.Escape(strings.Join(blocks, "\n\n"))
}

// tableView picks the main table: the portfolio curve for all projects,
// the detail table for one project, or a per-index comparison.
func tableView(store *query.Store, engine *comparison.Engine, sel selection.State) tableData {
	if store == nil || engine == nil {
		return tableData{Title: "Loading"}
	}
	if sel.Project == selection.All {
		return portfolioTable(store, sel.Approach)
	}
	if sel.Approach == vesting.Comparison {
		return comparisonTable(engine, sel.Project)
	}
	t, ok := store.DataTable(sel.Project, sel.Approach)
	if !ok {
		return tableData{Title: nothingToDisplay}
	}
	rows := append([][]string{t.Columns()}, t.Records()...)
	return tableData{Title: sel.Project + " - " + sel.Approach.Label(), Rows: rows}
}

func portfolioTable(store *query.Store, a vesting.Approach) tableData {
	if a != vesting.Comparison {
		p, ok := store.PortfolioAggregate(a)
		if !ok {
			return tableData{Title: nothingToDisplay}
		}
		rows := [][]string{{"Point", "Cumulative Vested"}}
		for i, label := range p.Labels {
			rows = append(rows, []string{label, format.Number(p.Values[i])})
		}
		return tableData{Title: "Portfolio - " + a.Label(), Rows: rows}
	}
	pure, ok1 := store.PortfolioAggregate(vesting.Pure)
	hybrid, ok2 := store.PortfolioAggregate(vesting.Hybrid)
	if !ok1 || !ok2 {
		return tableData{Title: nothingToDisplay}
	}
	rows := [][]string{{"Index", "Pure", "Hybrid"}}
	for i := range hybrid.Values {
		// index i means i milestones completed for pure
		var pv float64
		if i > 0 {
			pv = pure.Values[min(i, len(pure.Values))-1]
		}
		rows = append(rows, []string{strconv.Itoa(i), format.Number(pv), format.Number(hybrid.Values[i])})
	}
	return tableData{Title: "Portfolio - Comparison", Rows: rows}
}

func comparisonTable(engine *comparison.Engine, name string) tableData {
	rows := [][]string{{"Index", "Pure", "Hybrid", "Difference", "Favours"}}
	for i := 0; i <= selection.ScenarioMax(vesting.Hybrid); i++ {
		res, ok := engine.Compare(name, i)
		if !ok {
			return tableData{Title: nothingToDisplay}
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			format.Number(res.Pure.Vested),
			format.Number(res.Hybrid.Vested),
			format.Number(res.Difference),
			string(res.Favours),
		})
	}
	return tableData{Title: name + " - Comparison", Rows: rows}
}

func populateTable(table *tview.Table, data tableData) {
	table.Clear()
	table.SetTitle(" " + tview.Escape(data.Title) + " ")
	if len(data.Rows) == 0 {
		table.SetCell(0, 0, tview.NewTableCell(nothingToDisplay).
			SetAlign(tview.AlignCenter).
			SetSelectable(false))
		return
	}
	for col, cell := range data.Rows[0] {
		table.SetCell(0, col, tview.NewTableCell("[yellow::b]"+tview.Escape(cell)+"[-::-]").
			SetAlign(tview.AlignCenter).
			SetSelectable(false))
	}
	for row := 1; row < len(data.Rows); row++ {
		for col, cell := range data.Rows[row] {
			align := tview.AlignRight
			if col == 0 || strings.HasPrefix(cell, "Milestone") || cell == "CLIFF" || cell == "-" {
				align = tview.AlignLeft
			}
			table.SetCell(row, col, tview.NewTableCell(tview.Escape(cell)).SetAlign(align))
		}
	}
}
