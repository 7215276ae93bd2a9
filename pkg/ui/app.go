package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Qendolin/proxy-log-console/pkg/console"
)

// ActionPrompt is a key hint shown in the footer.
type ActionPrompt struct {
	Input  string
	Action string
}

// App orchestrates the terminal application: it owns the tview event loop,
// the overall layout, and forwards controller view updates to the console
// page.
type App struct {
	*tview.Application
	controller *console.Controller
	exportDir  string

	root        *tview.Flex
	pages       *tview.Pages
	statusText  *tview.TextView
	counters    *tview.TextView
	footer      *tview.TextView
	consolePage *ConsolePage
}

// NewApp creates and wires the terminal application around the given
// controller. Exported artifacts are written to exportDir.
func NewApp(controller *console.Controller, exportDir string) *App {
	a := &App{
		Application: tview.NewApplication(),
		controller:  controller,
		exportDir:   exportDir,
	}

	a.statusText = tview.NewTextView().SetDynamicColors(true)
	a.counters = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignRight)
	header := tview.NewFlex().
		AddItem(a.statusText, 0, 2, false).
		AddItem(a.counters, 0, 1, false)
	header.SetBorderPadding(0, 0, 1, 1)

	a.consolePage = NewConsolePage(a)
	a.pages = tview.NewPages().AddPage("console", a.consolePage, true, true)
	a.footer = tview.NewTextView().SetDynamicColors(true)

	a.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.footer, 1, 0, false)
	a.root.SetBorder(true).
		SetTitle(" Proxy Log Console ").
		SetTitleAlign(tview.AlignLeft)

	a.SetRoot(a.root, true).EnableMouse(true)
	a.setFooter(a.consolePage.ActionPrompts())
	a.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			a.Stop()
			return nil
		}
		return event
	})

	controller.SetOnUpdate(func(view console.View) {
		go a.QueueUpdateDraw(func() {
			a.applyView(view)
		})
	})

	return a
}

// Controller returns the console controller.
func (a *App) Controller() *console.Controller {
	return a.controller
}

// ExportDir returns the directory export artifacts are written to.
func (a *App) ExportDir() string {
	return a.exportDir
}

// Run shows the console, starts the event loop, and hides the console again
// when the loop exits so polling stops deterministically.
func (a *App) Run() error {
	a.controller.Show()
	defer a.controller.Hide()
	return a.Application.Run()
}

// SetStatus replaces the transient status line in the header.
func (a *App) SetStatus(text string) {
	a.statusText.SetText(text)
}

// applyView refreshes header chrome and delegates rendering to the page.
// Runs on the UI goroutine.
func (a *App) applyView(view console.View) {
	a.statusText.SetText(fmt.Sprintf("State: [::b]%s[-:-:-]  %d entries, %d shown",
		view.State, view.Total, len(view.Rows)))
	a.setCounters(view.WarnCount, view.ErrorCount)
	a.consolePage.Render(view)
}

func (a *App) setCounters(warnCount, errorCount int) {
	warnColor := "yellow"
	errorColor := "red"
	if warnCount == 0 {
		warnColor = "gray"
	}
	if errorCount == 0 {
		errorColor = "gray"
	}
	a.counters.SetText(fmt.Sprintf("[%s]Warnings: %d[-] [%s]Errors: %d[-]",
		warnColor, warnCount, errorColor, errorCount))
}

// setFooter renders the action hints, global prompts first.
func (a *App) setFooter(prompts []ActionPrompt) {
	all := []ActionPrompt{{Input: "Ctrl+C", Action: "Quit"}}
	all = append(all, prompts...)
	hints := make([]string, 0, len(all))
	for _, p := range all {
		hints = append(hints, fmt.Sprintf("[darkcyan::b]%s[-:-:-]: %s", p.Input, p.Action))
	}
	a.footer.SetText(" " + strings.Join(hints, " | "))
}

// confirm shows a modal yes/no dialog over the console page.
func (a *App) confirm(text string, onYes func()) {
	const modalID = "confirm"
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Yes", "No"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage(modalID)
			a.SetFocus(a.consolePage)
			if buttonLabel == "Yes" {
				onYes()
			}
		})
	a.pages.AddPage(modalID, modal, true, true)
}
