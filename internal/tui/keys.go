package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

func (d *Dashboard) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if d.app.GetFocus() == d.search {
		if event.Key() == tcell.KeyEscape {
			d.app.SetFocus(d.list)
			return nil
		}
		return event
	}

	switch event.Key() {
	case tcell.KeyTab:
		if d.app.GetFocus() == d.list {
			d.app.SetFocus(d.table)
		} else {
			d.app.SetFocus(d.list)
		}
		return nil
	case tcell.KeyRune:
	default:
		return event
	}

	switch event.Rune() {
	case 'q':
		d.app.Stop()
	case '/':
		d.app.SetFocus(d.search)
	case '1':
		d.selector.SetApproach(vesting.Pure)
		d.refreshViews()
	case '2':
		d.selector.SetApproach(vesting.Hybrid)
		d.refreshViews()
	case '3':
		d.selector.SetApproach(vesting.Comparison)
		d.refreshViews()
	case '[':
		d.selector.StepScenario(-1)
		d.refreshViews()
	case ']':
		d.selector.StepScenario(1)
		d.refreshViews()
	case 's':
		d.selector.CycleSize()
		d.refresh()
	case 'o':
		d.selector.CycleSort()
		d.refresh()
	case 'r':
		d.reload()
	case 'j':
		if d.app.GetFocus() == d.list && d.list.GetCurrentItem() < d.list.GetItemCount()-1 {
			d.list.SetCurrentItem(d.list.GetCurrentItem() + 1)
		}
	case 'k':
		if d.app.GetFocus() == d.list && d.list.GetCurrentItem() > 0 {
			d.list.SetCurrentItem(d.list.GetCurrentItem() - 1)
		}
	default:
		return event
	}
	return nil
}
