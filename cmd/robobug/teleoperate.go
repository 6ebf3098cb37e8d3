package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/robobug/pkg/teleop"
)

type TeleoperateCommand struct {
	Hz   int           `long:"hz" default:"10" description:"Control loop frequency"`
	Poll time.Duration `long:"poll" default:"5s" description:"Akku charge poll interval"`
	Step int           `long:"step" default:"25" description:"Velocity change per key press"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Series drawn in the chart
var seriesColors = []struct {
	name  string
	color string
}{
	{"forward", "196"}, // red
	{"side", "226"},    // yellow
	{"turn", "51"},     // cyan
	{"charge", "46"},   // green
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type teleopModel struct {
	ctrl     *teleop.Controller
	chart    *streamlinechart.Model
	width    int      // terminal width
	height   int      // terminal height
	logs     []string // last N log messages
	quitting bool
	state    teleop.State
}

func (m *teleopModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg teleop.State
type logMsg string
type redrawMsg time.Time

func waitForState(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

func redraw(hz int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(hz), func(t time.Time) tea.Msg {
		return redrawMsg(t)
	})
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *teleopModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *teleopModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialTeleopModel(ctrl *teleop.Controller) teleopModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-100, 100),
	)

	for _, s := range seriesColors {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.color))
		chart.SetDataSetStyles(s.name, runes.ThinLineStyle, style)
	}

	return teleopModel{
		ctrl:  ctrl,
		chart: &chart,
	}
}

func (m teleopModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
		redraw(m.ctrl.Hz()),
	)
}

// keyMotion maps keys to (forward, side, turn) steps.
var keyMotion = map[string][3]int{
	"up":    {1, 0, 0},
	"w":     {1, 0, 0},
	"down":  {-1, 0, 0},
	"s":     {-1, 0, 0},
	"a":     {0, -1, 0},
	"d":     {0, 1, 0},
	"left":  {0, 0, -1},
	"right": {0, 0, 1},
}

func (m teleopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.ctrl.Halt()
			return m, nil
		}
		if d, ok := keyMotion[key]; ok {
			m.ctrl.Nudge(d[0], d[1], d[2])
		}
		return m, nil

	case stateMsg:
		m.state = teleop.State(msg)
		if m.state.Error != nil {
			m.addLog(fmt.Sprintf("[%s] %v", m.state.Timestamp.Format("15:04:05"), m.state.Error))
		}
		return m, waitForState(m.ctrl)

	case redrawMsg:
		// Keep the chart scrolling at a steady rate
		ms := m.state.Motion
		m.chart.PushDataSet("forward", float64(ms.Forward))
		m.chart.PushDataSet("side", float64(ms.Side))
		m.chart.PushDataSet("turn", float64(ms.Turn))
		if m.state.HasCharge {
			m.chart.PushDataSet("charge", m.state.Charge)
		}
		m.chart.DrawAll()
		return m, redraw(m.ctrl.Hz())

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m teleopModel) View() string {
	if m.quitting {
		return "Teleoperation stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Robobug Teleoperate"))
	sb.WriteString(fmt.Sprintf(" - %d Hz", m.ctrl.Hz()))
	t := m.ctrl.Target()
	sb.WriteString(statusStyle.Render(fmt.Sprintf("  target %d/%d/%d", t.Forward, t.Side, t.Turn)))
	if m.state.HasCharge {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  akku %.0f%%", m.state.Charge)))
	}
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("w/s forward, a/d sideward, ←/→ turn, space stop, q quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, s := range seriesColors {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(s.color)).Bold(true)
		item := colorStyle.Render("━━") + " " + s.name
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func (c *TeleoperateCommand) Execute(args []string) error {
	// The controller reports to the TUI; slog only goes to --log-file
	client, err := newClient(newLoggerTo(io.Discard))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load %s: %v\n", opts.Config, err)
		os.Exit(1)
	}
	fmt.Printf("Driving robobug at %s\n", client.BaseURL())

	ctrl := teleop.NewController(client, teleop.Config{
		Hz:        c.Hz,
		PollEvery: c.Poll,
		Step:      c.Step,
	})

	// Start controller in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	// Run TUI
	p := tea.NewProgram(initialTeleopModel(ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	// Let the controller stop and power off the robot
	cancel()
	<-done
	return nil
}
