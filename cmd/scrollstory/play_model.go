package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scrollstory/cmd/scrollstory/ui"
	"scrollstory/internal/anim"
	"scrollstory/internal/config"
	"scrollstory/internal/dataset"
	"scrollstory/internal/display"
	"scrollstory/internal/logging"
	"scrollstory/internal/region"
	"scrollstory/internal/scroller"
)

const footerRows = 2

type (
	frameMsg time.Time

	storyChangedMsg struct {
		paths []string
	}

	builtMsg struct {
		gen     int
		cfg     *config.Config
		regions *region.Registry
		display *display.Display
		sched   *anim.Scheduler
		focus   *stepFocus
		err     error
	}
)

// stepFocus receives the display's focus hook. Build writes it before
// builtMsg is sent; after that only the event loop touches it.
type stepFocus struct {
	step  int
	dirty bool
}

// playModel is the bubbletea model of the play command. It owns the only
// reference to the display, so every display call happens on the event loop.
type playModel struct {
	storyPath string
	cfg       *config.Config
	styles    ui.Styles
	keys      keyMap
	help      help.Model
	log       *logging.Logger

	vp        viewport.Model
	narrative *ui.Narrative
	detector  *scroller.Detector
	layout    *region.StaticLayout
	resize    *ui.ResizeDebouncer
	frame     time.Duration

	cache   *dataset.ParseCache
	regions *region.Registry
	disp    *display.Display
	sched   *anim.Scheduler
	focus   *stepFocus

	width, height  int
	narrativeWidth int
	panes          []ui.Pane
	hovered        string

	gen      int
	building bool
	initial  int
	ready    bool
	status   string
	err      error
	fatal    error
}

func newPlayModel(path string, cfg *config.Config, initial int) *playModel {
	styles := ui.DefaultStyles()
	m := &playModel{
		storyPath: path,
		cfg:       cfg,
		styles:    styles,
		keys:      defaultKeyMap(),
		help:      help.New(),
		log:       logging.Get(logging.CategoryHost),
		vp:        viewport.New(0, 0),
		layout:    staticLayout(cfg),
		cache:     dataset.NewParseCache(),
		resize:    ui.NewResizeDebouncer(cfg.GetResizeDebounce()),
		frame:     cfg.GetFrameInterval(),
		initial:   initial,
		status:    "loading",
	}
	m.vp.MouseWheelEnabled = true
	m.narrative = newNarrative(cfg, styles)

	m.detector = scroller.New(nil, 0)
	if cfg.Host.TriggerFraction > 0 {
		m.detector.TriggerFraction = cfg.Host.TriggerFraction
	}
	m.detector.OnChange = func(step int) {
		if m.disp != nil {
			m.disp.OnStepChange(step)
		}
	}
	m.detector.OnResize = func() {
		if m.disp != nil {
			m.disp.OnResize()
		}
	}
	return m
}

func newNarrative(cfg *config.Config, styles ui.Styles) *ui.Narrative {
	sections := make([]ui.Section, stepCount(cfg))
	for i := range sections {
		sections[i] = ui.Section{Title: fmt.Sprintf("Step %d", i+1)}
		if i < len(cfg.Steps) {
			s := cfg.Steps[i]
			sections[i] = ui.Section{Title: s.Title, Text: s.Text, MinHeight: s.Height}
		}
	}
	return ui.NewNarrative(sections, styles.Theme.GlamourStyle(), styles)
}

// Init implements tea.Model.
func (m *playModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), tea.SetWindowTitle(m.cfg.Name))
}

func (m *playModel) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Update implements tea.Model.
func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.resize.Resize(msg.Width, msg.Height)

	case ui.ResizeSettledMsg:
		w, h, ok := m.resize.Settle(msg)
		if !ok {
			return m, nil
		}
		m.layoutTo(w, h, m.cfg)
		m.ready = true
		if m.disp == nil && !m.building && m.fatal == nil {
			return m, m.build(m.cfg)
		}
		return m, nil

	case builtMsg:
		return m, m.finishBuild(msg)

	case storyChangedMsg:
		m.log.Info("story changed: %s", strings.Join(msg.paths, ", "))
		return m, m.reload()

	case frameMsg:
		if m.disp != nil {
			m.disp.Tick()
		}
		m.refreshFocus()
		return m, m.tick()

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

// layoutTo sizes the narrative and the region panes for a w x h terminal and
// tells the scroller, which in turn tells the display.
func (m *playModel) layoutTo(w, h int, cfg *config.Config) {
	m.narrativeWidth, m.panes = ui.Layout(w, h, footerRows, regionIDs(cfg))
	m.vp.Width = m.narrativeWidth
	m.vp.Height = max(h-footerRows, 1)
	m.help.Width = w

	for _, p := range m.panes {
		m.layout.Set(p.ID, region.Box{Width: p.PixelWidth(), Height: p.PixelHeight()})
	}
	m.layout.SetViewportHeight(float64(m.vp.Height * ui.CellHeight))

	if err := m.narrative.Render(m.narrativeWidth, m.vp.Height/2); err != nil {
		m.err = err
	}
	m.detector.Resize(m.narrative.Heights(), float64(m.vp.Height))
	m.refreshContent()
	m.syncScroll()
}

// build constructs a fresh display off the event loop. Nothing else holds
// the new display until builtMsg arrives.
func (m *playModel) build(cfg *config.Config) tea.Cmd {
	m.gen++
	gen := m.gen
	m.building = true

	step := m.initial
	if m.disp != nil && m.detector.Active() >= 0 {
		step = m.detector.Active()
	}
	focus := &stepFocus{step: -1}
	sched := anim.NewScheduler(nil)
	regions := newRegistry(cfg, m.layout)
	d := newDisplay(cfg, regions, sched, m.cache,
		display.WithInitialStep(step),
		display.WithStepFocus(func(step int) {
			focus.step = step
			focus.dirty = true
		}),
	)
	m.log.Debug("building story %s (generation %d)", cfg.Name, gen)

	return func() tea.Msg {
		ctx, cancel := buildContext(context.Background())
		defer cancel()
		err := d.Build(ctx, cfg.Charts)
		return builtMsg{gen: gen, cfg: cfg, regions: regions, display: d, sched: sched, focus: focus, err: err}
	}
}

func (m *playModel) finishBuild(msg builtMsg) tea.Cmd {
	if msg.gen != m.gen {
		return nil
	}
	m.building = false
	if msg.err != nil {
		m.err = msg.err
		if m.disp == nil {
			// The narrative stays usable; the error is returned on quit.
			m.fatal = msg.err
			m.status = "build failed"
			return nil
		}
		m.status = "rebuild failed, keeping previous charts"
		return nil
	}

	first := m.disp == nil
	reloaded := msg.cfg != m.cfg
	if m.sched != nil {
		m.sched.Abort()
	}
	m.cfg = msg.cfg
	m.regions = msg.regions
	m.disp = msg.display
	m.sched = msg.sched
	m.focus = msg.focus
	m.hovered = ""
	m.err = nil
	m.fatal = nil

	if reloaded {
		m.narrative = newNarrative(m.cfg, m.styles)
		m.layoutTo(m.width, m.height, m.cfg)
	}
	m.disp.OnResize()
	if first && m.initial > 0 {
		m.scrollToStep(m.initial)
	}
	m.syncScroll()
	m.status = fmt.Sprintf("%d charts in %d regions", len(m.disp.Plots()), len(m.disp.Regions()))
	return nil
}

func (m *playModel) reload() tea.Cmd {
	cfg, err := loadStory(m.storyPath)
	if err != nil {
		m.err = err
		m.status = "reload failed"
		return nil
	}
	m.layoutTo(m.width, m.height, cfg)
	return m.build(cfg)
}

func (m *playModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.NextStep):
		m.scrollToStep(m.detector.Active() + 1)
	case key.Matches(msg, m.keys.PrevStep):
		m.scrollToStep(m.detector.Active() - 1)
	case m.disp == nil:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		m.syncScroll()
		return cmd
	case key.Matches(msg, m.keys.Animate):
		if err := m.disp.Animate(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "animating"
		}
	case key.Matches(msg, m.keys.Reset):
		m.disp.Reset()
		m.status = "reset"
	case key.Matches(msg, m.keys.FastForward):
		m.disp.FastForward()
		m.status = "skipped to end"
	case key.Matches(msg, m.keys.Highlight):
		m.cycleHighlight()
	default:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		m.syncScroll()
		return cmd
	}
	return nil
}

func (m *playModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if tea.MouseEvent(msg).IsWheel() {
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		m.syncScroll()
		return cmd
	}
	if m.disp == nil {
		return nil
	}
	for _, p := range m.panes {
		if !p.Contains(msg.X, msg.Y) {
			continue
		}
		s, ok := m.disp.Surface(p.ID)
		if !ok {
			break
		}
		if m.hovered != "" && m.hovered != p.ID {
			m.regions.PointerExit(m.hovered)
		}
		m.hovered = p.ID
		x, y := ui.CellToSurface(s, p.Cols, p.Rows, msg.X-p.X, msg.Y-p.Y)
		m.regions.Pointer(p.ID, x, y)
		return nil
	}
	if m.hovered != "" {
		m.regions.PointerExit(m.hovered)
		m.hovered = ""
	}
	return nil
}

// scrollToStep puts the trigger line just inside section i.
func (m *playModel) scrollToStep(i int) {
	if i < 0 || i >= m.detector.Len() {
		return
	}
	line := float64(m.vp.Height) * m.detector.TriggerFraction
	m.vp.SetYOffset(max(int(m.detector.Top(i)-line)+1, 0))
	m.syncScroll()
}

// syncScroll feeds the narrative offset to the scroller and reconciles the
// display with the scroller's section.
func (m *playModel) syncScroll() {
	m.detector.Scroll(float64(m.vp.YOffset))
	if active := m.detector.Active(); m.disp != nil && active >= 0 && active != m.disp.Step() {
		m.disp.OnStepChange(active)
	}
	m.refreshFocus()
}

func (m *playModel) cycleHighlight() {
	for _, h := range m.disp.Highlighters() {
		opts := h.Options()
		if len(opts) == 0 {
			continue
		}
		next := opts[0]
		for i, o := range opts {
			if o == h.Highlight() {
				next = opts[(i+1)%len(opts)]
				break
			}
		}
		h.SetHighlight(next)
		m.status = "highlight: " + next
	}
}

func (m *playModel) refreshFocus() {
	if m.focus != nil && m.focus.dirty {
		m.focus.dirty = false
		m.refreshContent()
	}
}

func (m *playModel) refreshContent() {
	step := m.detector.Active()
	if m.focus != nil && m.focus.step >= 0 {
		step = m.focus.step
	}
	m.vp.SetContent(m.narrative.Content(step, display.StepOpacity, m.vp.Height))
}

// View implements tea.Model.
func (m *playModel) View() string {
	if !m.ready {
		return m.styles.Placeholder.Render("loading " + m.storyPath + "…")
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.narrativeWidth).Render(m.vp.View()),
		m.styles.RenderDivider(m.vp.Height),
		m.renderPanes(),
	)
	return body + "\n" + m.statusLine() + "\n" + m.help.View(m.keys)
}

func (m *playModel) renderPanes() string {
	hidden := make(map[string]bool)
	if m.disp != nil {
		for _, rs := range m.disp.Regions() {
			hidden[rs.ID] = rs.Hidden
		}
	}

	blocks := make([]string, 0, len(m.panes))
	for _, p := range m.panes {
		title := m.styles.PaneTitle.Render(p.ID)
		if hidden[p.ID] {
			title = m.styles.PaneHidden.Render(p.ID + " (hidden)")
		}
		canvas := ui.NewCanvas(p.Cols, p.Rows)
		if m.disp != nil {
			if s, ok := m.disp.Surface(p.ID); ok {
				canvas.Draw(s)
			}
		} else if m.building && p.Rows > 0 {
			title += " " + m.styles.Placeholder.Render("building…")
		}
		if p.Rows == 0 {
			blocks = append(blocks, title)
			continue
		}
		blocks = append(blocks, title+"\n"+canvas.Render())
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m *playModel) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(m.err.Error())
	}
	step := 0
	if m.disp != nil {
		step = m.disp.Step()
	}
	line := fmt.Sprintf("%s · step %d/%d", m.cfg.Name, step+1, m.narrative.Len())
	if m.status != "" {
		line += " · " + m.status
	}
	return m.styles.Status.Render(line)
}

func regionIDs(cfg *config.Config) []string {
	ids := make([]string, len(cfg.Regions))
	for i, r := range cfg.Regions {
		ids[i] = r.ID
	}
	return ids
}
