package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/carbonwise/internal/greenops"
)

// SortState is the column and direction of a region table.
type SortState struct {
	Field greenops.SortField
	Order greenops.SortOrder
}

// Select returns the state after the user picks field: picking the current
// column flips the direction, picking another column sorts it ascending.
func (s SortState) Select(field greenops.SortField) SortState {
	if field == s.Field {
		return SortState{Field: field, Order: s.Order.Toggle()}
	}
	return SortState{Field: field, Order: greenops.Ascending}
}

// Indicator returns the arrow shown next to the sorted column.
func (s SortState) Indicator(field greenops.SortField) string {
	if field != s.Field {
		return ""
	}
	if s.Order == greenops.Descending {
		return " ↓"
	}
	return " ↑"
}

const (
	regionDefaultHeight = 15
	regionChromeRows    = 6
	colMarkerWidth      = 2
	colRegionWidth      = 22
	colNameWidth        = 24
	colCountryWidth     = 8
	colIntensityWidth   = 16
	colSavingWidth      = 12
)

// RegionModel is the Bubble Tea model behind `regions list --interactive`.
// It keeps the table in input order and re-sorts a copy on every toggle.
type RegionModel struct {
	regions []greenops.RegionFactor
	current greenops.RegionFactor
	// hasCurrent is false when no current region was given or it is unknown.
	hasCurrent bool

	sort     SortState
	sorted   []greenops.RegionFactor
	table    table.Model
	width    int
	quitting bool
}

// NewRegionModel builds the model. currentRegion may be empty.
func NewRegionModel(regions []greenops.RegionFactor, currentRegion string, initial SortState, height int) *RegionModel {
	if height <= 0 {
		height = regionDefaultHeight
	}

	m := &RegionModel{
		regions: regions,
		sort:    initial,
	}
	m.current, m.hasCurrent = greenops.LookupRegion(regions, currentRegion)

	m.table = table.New(
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	m.table.SetStyles(s)

	m.refresh()
	return m
}

// Sort returns the current sort state.
func (m *RegionModel) Sort() SortState {
	return m.sort
}

// Sorted returns the regions in display order.
func (m *RegionModel) Sorted() []greenops.RegionFactor {
	return m.sorted
}

// Selected returns the region under the cursor.
func (m *RegionModel) Selected() (greenops.RegionFactor, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sorted) {
		return greenops.RegionFactor{}, false
	}
	return m.sorted[i], true
}

// SelectSort applies a column selection and re-sorts.
func (m *RegionModel) SelectSort(field greenops.SortField) {
	m.sort = m.sort.Select(field)
	m.refresh()
}

// refresh re-sorts the regions and rebuilds the table for the current state.
func (m *RegionModel) refresh() {
	m.sorted = greenops.SortRegions(m.regions, m.sort.Field, m.sort.Order)

	m.table.SetRows(nil)
	m.table.SetColumns([]table.Column{
		{Title: "", Width: colMarkerWidth},
		{Title: "Region" + m.sort.Indicator(greenops.SortByName), Width: colRegionWidth},
		{Title: "Name", Width: colNameWidth},
		{Title: "Country", Width: colCountryWidth},
		{Title: "gCO2/kWh" + m.sort.Indicator(greenops.SortByCarbonIntensity), Width: colIntensityWidth},
		{Title: "vs current", Width: colSavingWidth},
	})

	rows := make([]table.Row, len(m.sorted))
	for i, r := range m.sorted {
		rows[i] = table.Row{
			m.marker(r),
			r.Region,
			r.DisplayName,
			r.Country,
			greenops.FormatFloat(r.GCO2PerKWh, 0),
			m.saving(r),
		}
	}
	m.table.SetRows(rows)
}

func (m *RegionModel) marker(r greenops.RegionFactor) string {
	if m.hasCurrent && r.Region == m.current.Region {
		return "*"
	}
	return ""
}

// saving is the intensity reduction relative to the current region, shown
// only for strictly greener regions.
func (m *RegionModel) saving(r greenops.RegionFactor) string {
	if !m.hasCurrent || m.current.GCO2PerKWh <= 0 || r.GCO2PerKWh >= m.current.GCO2PerKWh {
		return ""
	}
	return "-" + greenops.FormatPercent((1-r.GCO2PerKWh/m.current.GCO2PerKWh)*100) //nolint:mnd // percent
}

// Init initializes the model.
func (m *RegionModel) Init() tea.Cmd {
	return nil
}

// Update handles key and resize messages.
func (m *RegionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if h := msg.Height - regionChromeRows; h > 0 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "c", "i":
			m.SelectSort(greenops.SortByCarbonIntensity)
			return m, nil
		case "n", "r":
			m.SelectSort(greenops.SortByName)
			return m, nil
		case "o":
			m.SelectSort(m.sort.Field)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table with a header and key help.
func (m *RegionModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := fmt.Sprintf("Regions (%d)", len(m.regions))
	if m.hasCurrent {
		title += fmt.Sprintf("  current: %s, %s gCO2/kWh",
			m.current.Label(), greenops.FormatFloat(m.current.GCO2PerKWh, 0))
	}
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(fmt.Sprintf(
		"sorted by %s %s • c: carbon • n: region • o: reverse • q: quit",
		m.sort.Field, m.sort.Order)))

	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}
