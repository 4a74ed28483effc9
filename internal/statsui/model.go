// Package statsui provides the Bubble Tea statistics browser.
package statsui

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/romanian-parlamint/future-tense-usage/internal/model"
	"github.com/romanian-parlamint/future-tense-usage/internal/stats"
)

const (
	tabOverview = iota
	tabTopForms
	tabTopSpeakers
	tabCurves
)

const (
	plotHeight      = 10
	defaultCurveTop = 3
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Config selects the statistics files and report shape for the browser.
type Config struct {
	SessionStatsFile string
	FormStatsFile    string
	Legislatures     string
	TopN             int
	CurveWindow      int
}

// Model implements the Bubble Tea statistics browser.
type Model struct {
	cfg Config

	sessionRows []model.SessionRow
	formRows    []model.FormRow
	roster      *stats.Roster
	errMsg      string

	tabs          []string
	activeTab     int
	viewports     []viewport.Model
	formsTable    table.Model
	speakersTable table.Model
	formsLayout   tableLayout
	speakerLayout tableLayout

	width  int
	height int

	curveSpeakers       []string
	curveSelectionOwn   bool
	speakerInputMode    bool
	speakerInput        textinput.Model
	speakerInputMessage string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a statistics browser model. Statistics files are
// read once up front; load failures surface in the footer instead of
// aborting the UI.
func NewModel(cfg Config) *Model {
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}
	if cfg.CurveWindow <= 0 {
		cfg.CurveWindow = 1
	}
	m := &Model{
		cfg:  cfg,
		tabs: []string{"Overview", "Top Forms", "Top Speakers", "Usage Curves"},
	}
	m.initSpeakerInput()
	m.initViewports()
	m.formsTable = newStatsTable(formColumns())
	m.speakersTable = newStatsTable(speakerColumns())
	m.loadStatistics()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.speakerInputMode {
			return m.updateSpeakerInput(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "enter":
			if m.activeTab == tabCurves {
				return m.startSpeakerInput()
			}
			return m, nil
		case "g", "home":
			switch m.activeTab {
			case tabTopForms:
				m.formsTable.GotoTop()
			case tabTopSpeakers:
				m.speakersTable.GotoTop()
			default:
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			switch m.activeTab {
			case tabTopForms:
				m.formsTable.GotoBottom()
			case tabTopSpeakers:
				m.speakersTable.GotoBottom()
			default:
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			switch m.activeTab {
			case tabTopForms:
				m.formsTable, cmd = m.formsTable.Update(msg)
			case tabTopSpeakers:
				m.speakersTable, cmd = m.speakersTable.Update(msg)
			default:
				vp := m.viewports[m.activeTab]
				vp, cmd = vp.Update(msg)
				m.viewports[m.activeTab] = vp
			}
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.speakerInputMode {
		return fitLines(m.renderSpeakerModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initSpeakerInput() {
	input := textinput.New()
	input.Prompt = "Speakers: "
	input.Placeholder = "#PopescuIon, #VasilescuAna"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	m.speakerInput = input
}

func (m *Model) loadStatistics() {
	var problems []string
	if m.cfg.SessionStatsFile != "" {
		rows, err := stats.LoadSessionUsage(m.cfg.SessionStatsFile)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			m.sessionRows = rows
		}
	}
	if m.cfg.FormStatsFile != "" {
		rows, err := stats.LoadFormUsage(m.cfg.FormStatsFile)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			m.formRows = rows
		}
	}
	if m.cfg.Legislatures != "" {
		roster, err := stats.LoadRoster(m.cfg.Legislatures)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			m.roster = roster
		}
	}
	m.errMsg = strings.Join(problems, "; ")
	if !m.curveSelectionOwn {
		m.curveSpeakers = defaultCurveSpeakers(m.sessionRows, m.roster)
	}
	m.applyTables(true)
	m.renderTabContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setTableSize(&m.formsTable, &m.formsLayout, m.width, vpHeight)
	m.setTableSize(&m.speakersTable, &m.speakerLayout, m.width, vpHeight)
	promptWidth := lipgloss.Width(m.speakerInput.Prompt)
	m.speakerInput.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.formsTable.Blur()
	m.speakersTable.Blur()
	switch m.activeTab {
	case tabTopForms:
		m.formsTable.Focus()
	case tabTopSpeakers:
		m.speakersTable.Focus()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := fmt.Sprintf("Sessions: %d rows  Forms: %d rows  Window: %d",
		len(m.sessionRows), len(m.formRows), m.cfg.CurveWindow)
	if m.roster != nil {
		summary += fmt.Sprintf("  Deputies: %d", len(m.roster.Entries()))
	}
	summary = truncateLine(summary, m.width)
	return tabs + "\n" + padLines(headerStyle.Render(summary), m.width)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Quit: q"
	if m.activeTab == tabCurves {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Edit speakers: enter  Window: -/=  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	switch m.activeTab {
	case tabTopForms:
		if len(m.formRows) == 0 {
			return fitLines("No per-form statistics loaded.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.formsTable.View()), m.width, height)
	case tabTopSpeakers:
		if len(m.sessionRows) == 0 {
			return fitLines("No per-session statistics loaded.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.speakersTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.sessionRows, m.formRows, m.cfg.CurveWindow, width))
	m.viewports[tabCurves].SetContent(renderCurves(m.sessionRows, m.curveSpeakers, m.roster, m.cfg.CurveWindow, width))
}

func renderOverview(sessionRows []model.SessionRow, formRows []model.FormRow, window, width int) string {
	if len(sessionRows) == 0 {
		return "No per-session statistics loaded."
	}
	summary := renderSummaryCards(sessionRows, formRows, width)
	var buf bytes.Buffer
	if err := stats.RenderUsageCurvesWithSize(&buf, sessionRows, nil, window, width, plotHeight, true); err != nil {
		return summary + "\n\n" + fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(sessionRows []model.SessionRow, formRows []model.FormRow, width int) string {
	speakers := make(map[string]struct{})
	dates := make(map[string]struct{})
	totalUsage := 0
	for _, row := range sessionRows {
		speakers[row.Speaker] = struct{}{}
		dates[row.Date.Format(model.DateLayout)] = struct{}{}
		if row.Count != nil {
			totalUsage += *row.Count
		}
	}
	forms := make(map[string]struct{})
	for _, row := range formRows {
		forms[row.Form] = struct{}{}
	}
	cards := []string{
		metricCard("Sessions", strconv.Itoa(len(dates))),
		metricCard("Speakers", strconv.Itoa(len(speakers))),
		metricCard("Total Usage", strconv.Itoa(totalUsage)),
		metricCard("Distinct Forms", strconv.Itoa(len(forms))),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(sessionRows []model.SessionRow, speakers []string, roster *stats.Roster, window, width int) string {
	if len(sessionRows) == 0 {
		return "No per-session statistics loaded."
	}
	if len(speakers) == 0 {
		return "No speakers selected. Press Enter to set speakers."
	}
	labels := make([]string, 0, len(speakers))
	for _, speaker := range speakers {
		labels = append(labels, speakerLabel(speaker, roster))
	}
	header := headerStyle.Render(fmt.Sprintf("Speakers: %s", strings.Join(labels, ", ")))
	var buf bytes.Buffer
	if err := stats.RenderUsageCurvesWithSize(&buf, sessionRows, speakers, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render usage curves: %v", err)
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func speakerLabel(speaker string, roster *stats.Roster) string {
	if roster != nil {
		if name, ok := roster.ResolveName(speaker); ok {
			return name
		}
	}
	return speaker
}

func formColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Form", Width: 24},
		{Title: "Count", Width: 8},
	}
}

func speakerColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Speaker", Width: 32},
		{Title: "Count", Width: 8},
	}
}

func newStatsTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(statsTableStyles())
	return t
}

func (m *Model) applyTables(force bool) {
	formTotals := stats.TopForms(m.formRows, m.cfg.TopN)
	formRows := make([]table.Row, 0, len(formTotals))
	for i, total := range formTotals {
		formRows = append(formRows, table.Row{
			strconv.Itoa(i + 1),
			total.Form,
			strconv.Itoa(total.Count),
		})
	}
	m.formsTable.SetRows(formRows)
	m.formsLayout.rowCount = len(formRows)

	speakerTotals := stats.TopSpeakers(m.sessionRows, m.roster, m.cfg.TopN)
	speakerRows := make([]table.Row, 0, len(speakerTotals))
	for i, total := range speakerTotals {
		speakerRows = append(speakerRows, table.Row{
			strconv.Itoa(i + 1),
			total.Name,
			strconv.Itoa(total.Count),
		})
	}
	m.speakersTable.SetRows(speakerRows)
	m.speakerLayout.rowCount = len(speakerRows)

	if force && m.width > 0 {
		_, bodyHeight, _ := m.layoutHeights()
		m.setTableSize(&m.formsTable, &m.formsLayout, m.width, bodyHeight)
		m.setTableSize(&m.speakersTable, &m.speakerLayout, m.width, bodyHeight)
	}
}

func (m *Model) setTableSize(t *table.Model, layout *tableLayout, width, height int) {
	viewportHeight := maxInt(1, height-1)
	if layout.width == width && layout.height == viewportHeight {
		return
	}
	layout.width = width
	layout.height = viewportHeight
	t.SetWidth(width)
	t.SetHeight(viewportHeight)
	viewportHeight = adjustTableHeight(t, height)
	if layout.height != viewportHeight {
		layout.height = viewportHeight
		t.SetHeight(viewportHeight)
	}
}

func statsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// adjustTableHeight compensates for the bubbles table rendering its own
// header outside the configured height.
func adjustTableHeight(t *table.Model, bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := t.Height()
	viewHeight := lipgloss.Height(t.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	t.SetHeight(height)
	viewHeight = lipgloss.Height(t.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) startSpeakerInput() (tea.Model, tea.Cmd) {
	m.speakerInputMode = true
	m.speakerInputMessage = ""
	m.speakerInput.SetValue(strings.Join(m.curveSpeakers, ", "))
	return m, m.speakerInput.Focus()
}

func (m *Model) updateSpeakerInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.speakerInputMode = false
		m.speakerInputMessage = ""
		return m, nil
	case tea.KeyEnter:
		m.applySpeakerInput()
		m.speakerInputMode = false
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.speakerInput, cmd = m.speakerInput.Update(msg)
	return m, cmd
}

func (m *Model) applySpeakerInput() {
	raw := strings.TrimSpace(m.speakerInput.Value())
	if raw == "" {
		m.curveSelectionOwn = false
		m.curveSpeakers = defaultCurveSpeakers(m.sessionRows, m.roster)
		return
	}
	parts := strings.Split(raw, ",")
	speakers := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		speakers = append(speakers, resolveSpeakerID(part, m.sessionRows))
	}
	if len(speakers) == 0 {
		m.curveSelectionOwn = false
		m.curveSpeakers = defaultCurveSpeakers(m.sessionRows, m.roster)
		return
	}
	m.curveSelectionOwn = true
	m.curveSpeakers = speakers
}

// resolveSpeakerID matches free-form input against the known speaker IDs
// by name parts, so typing a deputy name selects the corpus ID.
func resolveSpeakerID(input string, rows []model.SessionRow) string {
	target := stats.NameParts(input)
	seen := make(map[string]struct{})
	for _, row := range rows {
		if _, ok := seen[row.Speaker]; ok {
			continue
		}
		seen[row.Speaker] = struct{}{}
		if samePartSet(target, stats.NameParts(row.Speaker)) {
			return row.Speaker
		}
	}
	return input
}

func samePartSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for part := range a {
		if _, ok := b[part]; !ok {
			return false
		}
	}
	return true
}

// defaultCurveSpeakers picks the heaviest users of the tense for the
// initial curves tab.
func defaultCurveSpeakers(rows []model.SessionRow, roster *stats.Roster) []string {
	totals := stats.TopSpeakers(rows, roster, defaultCurveTop)
	speakers := make([]string, 0, len(totals))
	for _, total := range totals {
		speakers = append(speakers, total.Speaker)
	}
	sort.Strings(speakers)
	return speakers
}

func (m *Model) renderSpeakerModal() string {
	title := cardValueStyle.Render("Select Speakers")
	body := []string{
		title,
		m.speakerInput.View(),
		headerStyle.Render("Comma-separated speaker IDs or deputy names."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	if m.speakerInputMessage != "" {
		body = append(body, errorStyle.Render(m.speakerInputMessage))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
