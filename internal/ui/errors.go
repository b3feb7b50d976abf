package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"lilt/internal/storage"
	"lilt/pkg/domain"
)

// ErrorViewer displays failed cases in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// failureList tracks which failures the user has marked resolved.
type failureList struct {
	results *domain.TestResultsOutput
}

func (fl failureList) len() int { return len(fl.results.Details) }

func (fl failureList) toggle(index int) {
	d := &fl.results.Details[index]
	d.Resolved = !d.Resolved
}

func (fl failureList) unresolved() int {
	n := 0
	for _, d := range fl.results.Details {
		if !d.Resolved {
			n++
		}
	}
	return n
}

func (fl failureList) itemText(index int) string {
	d := fl.results.Details[index]
	name := d.TestName
	if name == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}
	if d.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s/%s[white]", index+1, d.SetName, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s/%s", index+1, d.SetName, name)
}

func (fl failureList) header() string {
	return fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
		fl.len(), fl.unresolved())
}

// View displays failed cases; R toggles resolved and persists it
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}
	fl := failureList{results: results}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i := 0; i < fl.len(); i++ {
		list.AddItem(fl.itemText(i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fl.header())

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(tview.NewFlex().
			AddItem(detailsView, 0, 1, false).
			AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)

	body := tview.NewFlex().
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= fl.len() {
			return
		}
		d := results.Details[index]
		statsView.SetText(formatFailureStats(d))
		detailsView.SetText(formatFailureDetails(d))
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() != 'r' && event.Rune() != 'R' {
				return event
			}
			index := list.GetCurrentItem()
			if index >= 0 && index < fl.len() {
				fl.toggle(index)
				list.SetItemText(index, fl.itemText(index), "")
				headerView.SetText(fl.header())
				updateDetails()
				saveErr = ev.storage.SaveOutput(results)
			}
			return nil
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved status: %w", saveErr)
	}
	return nil
}

// formatFailureDetails formats a failure using tview color tags
func formatFailureDetails(d domain.TestFailure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[red]✗ Test: %s[white]\n\n", tview.Escape(d.TestName))
	fmt.Fprintf(&b, "[cyan]Set: %s[white]\n", tview.Escape(d.SetName))
	fmt.Fprintf(&b, "[cyan]Index: %d[white]\n\n", d.Index)
	if d.Message != "" {
		fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n", tview.Escape(d.Message))
	} else {
		b.WriteString("[gray](failed without a message)[white]\n")
	}
	return b.String()
}

func formatFailureStats(d domain.TestFailure) string {
	status := "[red]unresolved[white]"
	if d.Resolved {
		status = "[green]resolved[white]"
	}
	return fmt.Sprintf("[cyan]set:[white] [yellow]%s[white] :: [yellow]%s[white]  %s\n",
		tview.Escape(d.SetName), tview.Escape(d.TestName), status)
}
