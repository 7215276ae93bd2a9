package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Qendolin/proxy-log-console/pkg/console"
	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

// levelFilterOptions are the fixed level dropdown entries.
var levelFilterOptions = append([]string{console.FilterAll}, logstore.Levels...)

// ConsolePage is the live log console surface: a search field, level and
// category dropdowns, and the table of filtered log lines with expandable
// payload rows. It is a pure observer of the controller; all state lives
// there.
type ConsolePage struct {
	*tview.Flex
	app *App

	search     *tview.InputField
	levelDD    *tview.DropDown
	categoryDD *tview.DropDown
	table      *tview.Table

	// lineRows maps a table row to its index in view.Rows; -1 marks payload
	// continuation rows.
	lineRows   []int
	view       console.View
	categories []string
	rendering  bool // suppresses widget callbacks during Render
}

// NewConsolePage builds the console page and its key bindings.
func NewConsolePage(app *App) *ConsolePage {
	p := &ConsolePage{
		Flex: tview.NewFlex().SetDirection(tview.FlexRow),
		app:  app,
	}

	p.search = tview.NewInputField().
		SetPlaceholder("Search...").
		SetChangedFunc(func(text string) {
			if p.rendering {
				return
			}
			p.app.Controller().SetSearch(text)
		})
	p.search.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter || key == tcell.KeyDown {
			p.app.SetFocus(p.table)
		}
	})

	p.levelDD = tview.NewDropDown().
		SetLabel("Level: ").
		SetOptions(levelFilterOptions, func(text string, index int) {
			if p.rendering {
				return
			}
			p.app.Controller().SetLevel(text)
		})
	p.levelDD.SetCurrentOption(0)

	p.categoryDD = tview.NewDropDown().
		SetLabel("Category: ").
		SetOptions([]string{console.FilterAll}, func(text string, index int) {
			if p.rendering {
				return
			}
			p.app.Controller().SetCategory(text)
		})
	p.categoryDD.SetCurrentOption(0)

	topBar := tview.NewFlex().
		AddItem(p.search, 0, 1, true).
		AddItem(p.levelDD, 16, 0, false).
		AddItem(p.categoryDD, 24, 0, false)

	p.table = tview.NewTable().SetSelectable(true, false)
	p.table.SetSelectedFunc(func(row, column int) {
		if idx := p.rowIndex(row); idx >= 0 {
			p.app.Controller().ToggleExpand(p.view.Rows[idx].Key)
		}
	})
	p.table.SetInputCapture(p.handleTableKey)

	p.AddItem(topBar, 1, 0, false).
		AddItem(p.table, 0, 1, true)

	return p
}

// ActionPrompts returns the page's key hints for the footer.
func (p *ConsolePage) ActionPrompts() []ActionPrompt {
	return []ActionPrompt{
		{Input: "Enter", Action: "Expand"},
		{Input: "c", Action: "Copy"},
		{Input: "e", Action: "Export"},
		{Input: "r", Action: "Refresh"},
		{Input: "x", Action: "Clear"},
		{Input: "a", Action: "Auto-Scroll"},
		{Input: "/", Action: "Search"},
	}
}

func (p *ConsolePage) handleTableKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}
	ctrl := p.app.Controller()
	switch event.Rune() {
	case 'c':
		p.copySelected()
	case 'e':
		p.exportView()
	case 'r':
		ctrl.Refresh()
		p.app.SetStatus("Refreshing...")
	case 'x':
		p.app.confirm("Discard all stored log records?", func() {
			go func() {
				if err := ctrl.Clear(context.Background()); err != nil {
					go p.app.QueueUpdateDraw(func() {
						p.app.SetStatus("Clear failed, logs unchanged")
					})
				}
			}()
		})
	case 'a':
		ctrl.SetAutoScroll(!ctrl.AutoScroll())
	case '/':
		p.app.SetFocus(p.search)
	default:
		return event
	}
	return nil
}

// copySelected places the selected entry's block rendering on the clipboard.
// Failures are non-fatal and only surfaced in the status line.
func (p *ConsolePage) copySelected() {
	row, _ := p.table.GetSelection()
	idx := p.rowIndex(row)
	if idx < 0 {
		return
	}
	if err := console.CopyEntry(p.view.Rows[idx].Entry); err != nil {
		p.app.SetStatus("Clipboard unavailable")
		return
	}
	p.app.SetStatus("Copied entry to clipboard")
}

func (p *ConsolePage) exportView() {
	path, err := p.app.Controller().Export(p.app.ExportDir())
	if err != nil {
		p.app.SetStatus("Export failed")
		return
	}
	p.app.SetStatus("Exported to " + path)
}

// rowIndex resolves a table row to its view.Rows index, or -1.
func (p *ConsolePage) rowIndex(row int) int {
	if row < 0 || row >= len(p.lineRows) {
		return -1
	}
	return p.lineRows[row]
}

// Render rebuilds the page from a controller view. Runs on the UI goroutine.
func (p *ConsolePage) Render(view console.View) {
	p.rendering = true
	defer func() { p.rendering = false }()

	selectedKey, haveSelection := p.selectedKey()
	p.view = view

	p.updateCategoryOptions(view)

	p.table.Clear()
	p.lineRows = p.lineRows[:0]
	selectRow := -1
	lastEntryRow := -1
	for i, row := range view.Rows {
		text := formatRowCell(row)
		cell := tview.NewTableCell(text).SetExpansion(1)
		p.table.SetCell(len(p.lineRows), 0, cell)
		if haveSelection && row.Key == selectedKey {
			selectRow = len(p.lineRows)
		}
		lastEntryRow = len(p.lineRows)
		p.lineRows = append(p.lineRows, i)

		if row.Expanded && row.HasData() {
			for _, line := range payloadLines(row.Entry) {
				dataCell := tview.NewTableCell("[gray]    " + tview.Escape(line) + "[-]").
					SetSelectable(false).
					SetExpansion(1)
				p.table.SetCell(len(p.lineRows), 0, dataCell)
				p.lineRows = append(p.lineRows, -1)
			}
		}
	}

	switch {
	case view.ScrollToEnd && lastEntryRow >= 0:
		p.table.Select(lastEntryRow, 0)
		p.table.ScrollToEnd()
	case selectRow >= 0:
		p.table.Select(selectRow, 0)
	case lastEntryRow >= 0:
		row, _ := p.table.GetSelection()
		if row >= len(p.lineRows) || p.rowIndex(row) < 0 {
			p.table.Select(lastEntryRow, 0)
		}
	}
}

// selectedKey returns the stable key of the currently selected entry row.
func (p *ConsolePage) selectedKey() (uint64, bool) {
	row, _ := p.table.GetSelection()
	idx := p.rowIndex(row)
	if idx < 0 || idx >= len(p.view.Rows) {
		return 0, false
	}
	return p.view.Rows[idx].Key, true
}

// updateCategoryOptions rebuilds the category dropdown when the snapshot's
// category set changed, preserving the active selection.
func (p *ConsolePage) updateCategoryOptions(view console.View) {
	if stringSlicesEqual(p.categories, view.Categories) {
		p.syncFilterWidgets(view)
		return
	}
	p.categories = append(p.categories[:0], view.Categories...)

	options := append([]string{console.FilterAll}, view.Categories...)
	p.categoryDD.SetOptions(options, func(text string, index int) {
		if p.rendering {
			return
		}
		p.app.Controller().SetCategory(text)
	})
	p.syncFilterWidgets(view)
}

// syncFilterWidgets aligns the dropdowns with the controller's criteria,
// e.g. after a programmatic change or when an active category disappeared
// from the options.
func (p *ConsolePage) syncFilterWidgets(view console.View) {
	for i, option := range levelFilterOptions {
		if option == view.Criteria.Level {
			p.levelDD.SetCurrentOption(i)
			break
		}
	}
	options := append([]string{console.FilterAll}, p.categories...)
	current := 0
	for i, option := range options {
		if option == view.Criteria.Category {
			current = i
			break
		}
	}
	p.categoryDD.SetCurrentOption(current)
}

// formatRowCell renders one log line with level coloring. Display layout is
// looser than the export format; FormatLine governs artifacts, not the
// screen.
func formatRowCell(row console.Row) string {
	marker := " "
	if row.HasData() {
		marker = "+"
		if row.Expanded {
			marker = "-"
		}
	}
	return fmt.Sprintf("[gray]%s %s[-] [%s::b]%-5s[-:-:-] [darkcyan]%s[-] %s",
		marker,
		tview.Escape(console.DisplayTimestamp(row.Entry)),
		levelColor(row.Level),
		tview.Escape(row.Level),
		tview.Escape(row.Category),
		tview.Escape(row.Message))
}

func levelColor(level string) string {
	switch level {
	case logstore.LevelError:
		return "red"
	case logstore.LevelWarn:
		return "yellow"
	case logstore.LevelInfo:
		return "white"
	case logstore.LevelDebug:
		return "gray"
	default:
		return "white"
	}
}

// payloadLines pretty-prints an entry's data payload for expansion rows.
func payloadLines(entry logstore.Entry) []string {
	data, err := json.MarshalIndent(entry.Data, "", "  ")
	if err != nil {
		return []string{"<unserializable payload>"}
	}
	return strings.Split(string(data), "\n")
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
