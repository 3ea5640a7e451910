// Package tui is a terminal browser over the climate station catalogue.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CChelak/dan-lab/internal/domain"
)

type screen int

const (
	screenLoading screen = iota
	screenList
	screenDetail
)

type stationItem struct {
	st domain.Station
}

func (i stationItem) Title() string { return i.st.Name }

func (i stationItem) Description() string {
	span := "no record dates"
	if !i.st.FirstDate.IsZero() && !i.st.LastDate.IsZero() {
		span = fmt.Sprintf("%s to %s", i.st.FirstDate.Format("2006-01-02"), i.st.LastDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("climate id %s • %s", i.st.ClimateID, span)
}

func (i stationItem) FilterValue() string { return i.st.Name + " " + i.st.ClimateID }

type model struct {
	theme Theme
	deps  Deps

	scr      screen
	stations list.Model
	selected *domain.Station
	loadErr  error
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Climate stations"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return model{
		theme:    DefaultTheme(),
		deps:     deps,
		scr:      screenLoading,
		stations: l,
	}
}

func (m model) Init() tea.Cmd { return cmdLoadStations(m.deps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.stations.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case stationsLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.stations))
		for i, st := range msg.stations {
			items[i] = stationItem{st: st}
		}
		m.scr = screenList
		return m, m.stations.SetItems(items)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.scr == screenDetail {
				m.scr = screenList
				m.selected = nil
				return m, nil
			}
			if m.stations.FilterState() != list.Filtering {
				return m, tea.Quit
			}

		case "enter":
			if m.scr == screenList {
				it, ok := m.stations.SelectedItem().(stationItem)
				if !ok {
					return m, nil
				}
				st := it.st
				m.selected = &st
				m.scr = screenDetail
				return m, nil
			}

		case "esc", "b":
			if m.scr == screenDetail {
				m.scr = screenList
				m.selected = nil
				return m, nil
			}
		}
	}

	if m.scr == screenList {
		var cmd tea.Cmd
		m.stations, cmd = m.stations.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("dan-lab") + "\n" +
		m.theme.Subtitle.Render("Browse the GeoMet climate station catalogue") + "\n"

	if m.loadErr != nil {
		card := m.theme.Card.Render(
			"Could not load stations:\n\n" + m.loadErr.Error() + "\n\n" +
				m.theme.Help.Render("ctrl+c quit"),
		)
		return wrap.Render(header + "\n" + card)
	}

	switch m.scr {
	case screenLoading:
		return wrap.Render(header + "\n" + m.theme.Card.Render("Loading stations…"))

	case screenList:
		help := m.theme.Help.Render("↑/↓ navigate • enter details • / search • q quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.stations.View()) + "\n" + help)

	case screenDetail:
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.detailView()) + "\n" +
			m.theme.Help.Render("esc/b back • ctrl+c quit"))

	default:
		return wrap.Render(header + "\nunknown state")
	}
}

func (m model) detailView() string {
	st := m.selected
	if st == nil {
		return "no station selected"
	}

	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", m.theme.Label.Render(fmt.Sprintf("%-12s", label)), value)
	}

	fmt.Fprintf(&b, "%s\n\n", m.theme.Title.Render(st.Name))
	row("Climate ID", st.ClimateID)
	row("Station ID", fmt.Sprintf("%d", st.StationID))
	row("Province", string(st.Province))
	row("Location", fmt.Sprintf("%.4f, %.4f", st.Coord.Lat, st.Coord.Lon))
	if st.Elevation != 0 {
		row("Elevation", fmt.Sprintf("%.1f m", st.Elevation))
	}
	if !st.FirstDate.IsZero() {
		row("First date", st.FirstDate.Format("2006-01-02"))
	}
	if !st.LastDate.IsZero() {
		row("Last date", st.LastDate.Format("2006-01-02"))
	}
	row("Hourly data", fmt.Sprintf("%v", st.HasHourlyData))
	if st.StationType != "" {
		row("Type", st.StationType)
	}
	if st.Timezone != "" {
		row("Timezone", st.Timezone)
	}
	return b.String()
}
