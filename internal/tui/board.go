// internal/tui/board.go
//
// Terminal status board for docloom. It follows The Elm Architecture that
// bubbletea provides: the Board model holds the catalog plus the latest
// inventory scan, Update reacts to key presses and refresh ticks, and View
// renders the template list with a detail footer for the selected row.

package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docloom/docloom/internal/catalog"
	"github.com/docloom/docloom/internal/inventory"
	"github.com/docloom/docloom/internal/resolver"
)

const boardRefreshInterval = 3 * time.Second

var (
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	statusStyleDone   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	statusStyleReady  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	statusStyleBlock  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	detailTextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	footerHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	errorBannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	knowledgeAreaText = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
)

// templateState is how the board classifies each catalog template.
type templateState int

const (
	stateDone templateState = iota
	stateReady
	stateBlocked
)

type templateItem struct {
	desc    catalog.TemplateDescriptor
	state   templateState
	missing []string
}

func (i templateItem) FilterValue() string { return i.desc.Name }

func (i templateItem) Title() string {
	switch i.state {
	case stateDone:
		return statusStyleDone.Render("✓ ") + i.desc.Name
	case stateReady:
		return statusStyleReady.Render("▶ ") + i.desc.Name
	default:
		return statusStyleBlock.Render("■ ") + i.desc.Name
	}
}

func (i templateItem) Description() string {
	area := i.desc.KnowledgeArea
	if area == "" {
		area = i.desc.Category
	}
	switch i.state {
	case stateDone:
		return knowledgeAreaText.Render(area + " · generated")
	case stateReady:
		return knowledgeAreaText.Render(area + " · ready to generate")
	default:
		return knowledgeAreaText.Render(fmt.Sprintf("%s · blocked by %s", area, strings.Join(i.missing, ", ")))
	}
}

type refreshMsg struct {
	available []resolver.AvailableDocument
	err       error
}

type tickMsg struct{}

// Board is the bubbletea model for `docloom status`.
type Board struct {
	registry *catalog.Registry
	resolver *resolver.Resolver
	store    *inventory.Store

	list    list.Model
	err     error
	width   int
	height  int
	scanned bool
}

// NewBoard constructs the status board. The registry, resolver, and store are
// injected so tests can drive Update with fixture catalogs and temp dirs.
func NewBoard(reg *catalog.Registry, res *resolver.Resolver, store *inventory.Store) *Board {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "docloom templates"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	return &Board{
		registry: reg,
		resolver: res,
		store:    store,
		list:     l,
	}
}

// Init kicks off the first inventory scan and the refresh ticker.
func (b *Board) Init() tea.Cmd {
	return tea.Batch(b.refreshCmd(), tickCmd())
}

// Update handles key presses, window sizing, and refresh results.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = m.Width
		b.height = m.Height
		b.list.SetSize(m.Width, m.Height-4)
		return b, nil
	case tea.KeyMsg:
		switch m.String() {
		case "q", "ctrl+c":
			return b, tea.Quit
		case "r":
			return b, b.refreshCmd()
		}
	case tickMsg:
		return b, tea.Batch(b.refreshCmd(), tickCmd())
	case refreshMsg:
		b.scanned = true
		b.err = m.err
		if m.err == nil {
			b.setItems(m.available)
		}
		return b, nil
	}
	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

// View renders the board.
func (b *Board) View() string {
	var sections []string
	if b.err != nil {
		sections = append(sections, errorBannerStyle.Render("scan error: "+b.err.Error()))
	}
	sections = append(sections, b.list.View())
	sections = append(sections, b.footer())
	return strings.Join(sections, "\n")
}

func (b *Board) footer() string {
	item, ok := b.list.SelectedItem().(templateItem)
	help := footerHelpStyle.Render("r refresh · / filter · q quit")
	if !ok {
		return help
	}
	detail := item.desc.Description
	if detail == "" {
		detail = item.desc.ID
	}
	if item.state == stateBlocked && len(item.missing) > 0 {
		detail = fmt.Sprintf("%s — generate first: %s", detail, strings.Join(item.missing, ", "))
	}
	return detailTextStyle.Render(detail) + "\n" + help
}

// Refresh recomputes the board synchronously. Exposed for tests; the running
// program goes through refreshCmd instead.
func (b *Board) Refresh(available []resolver.AvailableDocument) {
	b.setItems(available)
}

func (b *Board) setItems(available []resolver.AvailableDocument) {
	done := make(map[string]struct{}, len(available))
	for _, doc := range available {
		ref := doc.TemplateID
		if ref == "" {
			ref = doc.ID
		}
		if desc, ok := b.registry.Resolve(ref); ok {
			done[desc.ID] = struct{}{}
		}
	}
	descriptors := b.registry.Descriptors()
	sort.SliceStable(descriptors, func(i, j int) bool {
		if descriptors[i].KnowledgeArea != descriptors[j].KnowledgeArea {
			return descriptors[i].KnowledgeArea < descriptors[j].KnowledgeArea
		}
		return descriptors[i].Priority.Rank() < descriptors[j].Priority.Rank()
	})
	items := make([]list.Item, 0, len(descriptors))
	for _, desc := range descriptors {
		item := templateItem{desc: desc}
		if _, generated := done[desc.ID]; generated {
			item.state = stateDone
		} else if result := b.resolver.ValidateDependencies(desc.ID, available); result.Valid {
			item.state = stateReady
		} else {
			item.state = stateBlocked
			for _, missing := range result.MissingDependencies {
				item.missing = append(item.missing, missing.Name)
			}
		}
		items = append(items, item)
	}
	b.list.SetItems(items)
}

func (b *Board) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		available, err := b.store.Scan()
		return refreshMsg{available: available, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(boardRefreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Run launches the board in the alternate screen buffer and blocks until the
// user quits.
func Run(board *Board) error {
	p := tea.NewProgram(board, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: run status board: %w", err)
	}
	return nil
}
