package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"ptsplit/internal/discovery"
	"ptsplit/internal/domain"
)

// PlanViewer browses the partitions of a plan manifest in an interactive TUI
type PlanViewer struct {
	filter  *discovery.Filter
	pattern string
}

var _ Viewer = (*PlanViewer)(nil)

// NewPlanViewer creates a new PlanViewer. Classes not matching pattern are
// hidden from the details pane; an empty pattern shows everything.
func NewPlanViewer(filter *discovery.Filter, pattern string) *PlanViewer {
	return &PlanViewer{filter: filter, pattern: pattern}
}

// SetPattern changes the pattern classes are narrowed by
func (pv *PlanViewer) SetPattern(pattern string) {
	pv.pattern = pattern
}

// View displays the manifest until the user exits
func (pv *PlanViewer) View(manifest *domain.PlanManifest) error {
	if len(manifest.Partitions) == 0 {
		color.Yellow("Plan has no partitions")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for _, p := range manifest.Partitions {
		list.AddItem(pv.formatListItem(p), "", 0, nil)
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

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(pv.formatHeader(manifest))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(manifest.Partitions) {
			p := manifest.Partitions[index]
			statsView.SetText(pv.formatPartitionStats(p, manifest.Stats))
			detailsView.SetText(pv.formatPartitionDetails(p))
			detailsView.ScrollToBeginning()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
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

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func (pv *PlanViewer) formatHeader(manifest *domain.PlanManifest) string {
	reference := "no reference build"
	if manifest.Reference > 0 {
		reference = fmt.Sprintf("reference #%d", manifest.Reference)
	}
	return fmt.Sprintf(" Split Plan (%d partitions, %d classes, %s) | ↑↓ navigate, → details, ← back, q to exit ",
		len(manifest.Partitions), manifest.Stats.Classes, reference)
}

func (pv *PlanViewer) formatListItem(p domain.PartitionManifest) string {
	return fmt.Sprintf("[yellow]%d.[white] %d classes [gray](%s)[white]", p.Index, len(p.Included), FormatMs(p.TotalMs))
}

// formatPartitionStats renders the header above the class list. The share
// is relative to the slowest partition of the plan.
func (pv *PlanViewer) formatPartitionStats(p domain.PartitionManifest, stats domain.Stats) string {
	share := 0
	if stats.Max > 0 {
		share = int(p.TotalMs * 100 / stats.Max)
	}
	return fmt.Sprintf("[cyan]split:[white] [yellow]%s[white]\n[cyan]total:[white] %s [gray](%d%% of max)[white] [cyan]excluded:[white] %d",
		p.SplitFile, FormatMs(p.TotalMs), share, p.Excluded)
}

// formatPartitionDetails lists the classes a partition runs, narrowed by the
// viewer's pattern
func (pv *PlanViewer) formatPartitionDetails(p domain.PartitionManifest) string {
	classes := p.Included
	if pv.pattern != "" {
		classes = pv.filter.FilterByName(classes, pv.pattern)
	}

	var builder strings.Builder
	if pv.pattern != "" {
		fmt.Fprintf(&builder, "[yellow]Filter:[white] %s (%d of %d)\n\n", pv.pattern, len(classes), len(p.Included))
	}
	if len(classes) == 0 {
		builder.WriteString("[gray](no test classes)[white]\n")
		return builder.String()
	}
	for _, name := range classes {
		fmt.Fprintf(&builder, "  %s\n", tview.Escape(name))
	}
	return builder.String()
}
