// Package tui is the terminal dashboard: a project list with search, a
// stats panel and a detail table, all driven by the shared selection.
package tui

import (
	"context"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/GoPolymarket/vesting-dashboard/internal/app"
	"github.com/GoPolymarket/vesting-dashboard/internal/comparison"
	"github.com/GoPolymarket/vesting-dashboard/internal/debounce"
	"github.com/GoPolymarket/vesting-dashboard/internal/query"
	"github.com/GoPolymarket/vesting-dashboard/internal/selection"
)

// DefaultSearchDelay is the quiet period before a search is applied.
const DefaultSearchDelay = 300 * time.Millisecond

const allProjectsLabel = "All projects"

// Backend is the part of the application the dashboard drives.
type Backend interface {
	Store() (*query.Store, bool)
	Engine() (*comparison.Engine, bool)
	Status() app.Status
	Selector() *selection.Selector
	Load(ctx context.Context) error
	Reload(ctx context.Context) error
	OnLoad(fn func())
}

type Dashboard struct {
	app      *tview.Application
	backend  Backend
	selector *selection.Selector

	header *tview.TextView
	search *tview.InputField
	list   *tview.List
	stats  *tview.TextView
	table  *tview.Table
	footer *tview.TextView
	grid   *tview.Grid

	searchInput func(string)
	populating  bool
	ctx         context.Context
}

// New builds the widgets; nothing is drawn until Run.
func New(backend Backend, searchDelay time.Duration) *Dashboard {
	if searchDelay <= 0 {
		searchDelay = DefaultSearchDelay
	}
	d := &Dashboard{
		app:      tview.NewApplication(),
		backend:  backend,
		selector: backend.Selector(),
		ctx:      context.Background(),
	}

	d.header = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	d.header.SetBorder(true)

	d.search = tview.NewInputField().SetLabel("Search: ").SetFieldWidth(0)
	d.search.SetBorder(true)

	d.list = tview.NewList().ShowSecondaryText(false)
	d.list.SetBorder(true).SetTitle(" Projects ")

	d.stats = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	d.stats.SetBorder(true).SetTitle(" Details ")

	d.table = tview.NewTable().SetFixed(1, 0)
	d.table.SetBorder(true)
	d.table.SetSelectable(true, false)

	d.footer = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText(footerText())
	d.footer.SetBorder(true)

	d.grid = tview.NewGrid().
		SetRows(4, 3, 0, 3).
		SetColumns(32, 0, 0).
		SetBorders(false)
	d.grid.AddItem(d.header, 0, 0, 1, 3, 0, 0, false)
	d.grid.AddItem(d.search, 1, 0, 1, 1, 0, 0, false)
	d.grid.AddItem(d.list, 2, 0, 1, 1, 0, 0, true)
	d.grid.AddItem(d.stats, 1, 1, 2, 1, 0, 0, false)
	d.grid.AddItem(d.table, 1, 2, 2, 1, 0, 0, false)
	d.grid.AddItem(d.footer, 3, 0, 1, 3, 0, 0, false)

	d.searchInput = debounce.Func(searchDelay, func(q string) {
		d.app.QueueUpdateDraw(func() {
			d.selector.SetSearch(q)
			d.refresh()
		})
	})
	d.search.SetChangedFunc(func(text string) { d.searchInput(text) })
	d.search.SetDoneFunc(func(tcell.Key) { d.app.SetFocus(d.list) })

	d.list.SetChangedFunc(func(index int, main, _ string, _ rune) {
		if d.populating {
			return
		}
		if index == 0 {
			d.selector.Select(selection.All)
		} else {
			d.selector.Select(main)
		}
		d.refreshViews()
	})

	d.app.SetInputCapture(d.handleKey)
	d.app.SetRoot(d.grid, true).SetFocus(d.list)
	d.refresh()
	return d
}

// Run loads the datasets in the background and blocks until the user
// quits or ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	d.ctx = ctx
	d.backend.OnLoad(func() {
		d.app.QueueUpdateDraw(d.refresh)
	})
	go func() {
		if err := d.backend.Load(ctx); err != nil {
			log.Printf("tui: initial load: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		d.app.Stop()
	}()
	return d.app.Run()
}

func (d *Dashboard) reload() {
	go func() {
		if err := d.backend.Reload(d.ctx); err != nil {
			log.Printf("tui: reload: %v", err)
		}
	}()
}

// refresh rebuilds the project list and every dependent view.
func (d *Dashboard) refresh() {
	visible := d.selector.Apply()
	current := d.selector.Select(d.selector.Project())

	d.populating = true
	d.list.Clear()
	d.list.AddItem(allProjectsLabel, "", 0, nil)
	selected := 0
	for i, p := range visible {
		d.list.AddItem(p.ProposalName, "", 0, nil)
		if p.ProposalName == current {
			selected = i + 1
		}
	}
	d.list.SetCurrentItem(selected)
	d.populating = false

	d.refreshViews()
}

// refreshViews redraws everything that depends on the selection but not
// on the list contents.
func (d *Dashboard) refreshViews() {
	sel := d.selector.Snapshot()
	store, _ := d.backend.Store()
	engine, _ := d.backend.Engine()

	d.header.SetText(headerText(d.backend.Status(), sel))
	d.stats.SetText(statsText(store, engine, sel)).ScrollToBeginning()
	populateTable(d.table, tableView(store, engine, sel))
	d.table.ScrollToBeginning()
}
