// Command ticker-tui renders the server's quote board in the terminal,
// refreshing on an interval.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type stockRow struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"changePct"`
}

type quotesMsg struct {
	rows []stockRow
	err  error
}

type tickMsg time.Time

type model struct {
	client    *resty.Client
	interval  time.Duration
	rows      []stockRow
	err       error
	refreshed time.Time
}

func fetchQuotes(client *resty.Client) tea.Cmd {
	return func() tea.Msg {
		var rows []stockRow
		resp, err := client.R().SetResult(&rows).Get("/api/stocks")
		if err != nil {
			return quotesMsg{err: err}
		}
		if resp.IsError() {
			return quotesMsg{err: fmt.Errorf("server returned %d", resp.StatusCode())}
		}
		return quotesMsg{rows: rows}
	}
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return tea.Batch(fetchQuotes(m.client), tick(m.interval))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, fetchQuotes(m.client)
		}
	case quotesMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.rows = msg.rows
			m.err = nil
			m.refreshed = time.Now()
		}
	case tickMsg:
		return m, tea.Batch(fetchQuotes(m.client), tick(m.interval))
	}
	return m, nil
}

func (m model) View() string {
	out := titleStyle.Render("gostock ticker") + "\n\n"
	if m.err != nil {
		out += errStyle.Render(fmt.Sprintf("fetch failed: %v", m.err)) + "\n\n"
	}
	out += headerStyle.Render(fmt.Sprintf("%-7s %-26s %12s %10s %9s", "SYMBOL", "NAME", "PRICE", "CHANGE", "%")) + "\n"
	for _, r := range m.rows {
		line := fmt.Sprintf("%-7s %-26s %12s %10s %8s%%",
			r.Symbol, truncate(r.Name, 26),
			r.Price.StringFixed(2), r.Change.StringFixed(2), r.ChangePct.StringFixed(2))
		switch {
		case !r.Price.IsPositive():
			line = dimStyle.Render(fmt.Sprintf("%-7s %-26s %12s", r.Symbol, truncate(r.Name, 26), "loading..."))
		case r.Change.IsNegative():
			line = downStyle.Render(line)
		default:
			line = upStyle.Render(line)
		}
		out += line + "\n"
	}
	if !m.refreshed.IsZero() {
		out += "\n" + dimStyle.Render("updated "+m.refreshed.Format("15:04:05")+"  (r refresh, q quit)")
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func main() {
	server := flag.String("server", "http://localhost:8080", "gostock server base URL")
	interval := flag.Duration("interval", 5*time.Second, "refresh interval")
	flag.Parse()

	client := resty.New().
		SetBaseURL(*server).
		SetTimeout(10 * time.Second)

	m := model{client: client, interval: *interval}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ticker-tui: %v\n", err)
		os.Exit(1)
	}
}
