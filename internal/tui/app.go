// Package tui hosts the selection widgets and binds preset collections to
// them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/selsync/internal/binding"
	"github.com/jask/selsync/internal/collection"
	"github.com/jask/selsync/internal/config"
	"github.com/jask/selsync/internal/database/repository"
	"github.com/jask/selsync/internal/service"
)

// PresetStore opens stored selections as mirror collections.
type PresetStore interface {
	Names(ctx context.Context) ([]string, error)
	Open(ctx context.Context, name string) (*service.Preset, error)
}

// App ties the widgets, the binder and the preset store together.
type App struct {
	ctx    context.Context
	store  PresetStore
	binder *binding.Binder[*repository.Item]
	log    *slog.Logger
	cfg    config.UIConfig

	hosts []host
	focus int

	presets   []string
	presetIdx int
	preset    *service.Preset

	filtering bool
	status    string
	statusErr bool
	width     int
	height    int
}

type presetNamesMsg []string

type presetOpenedMsg struct {
	preset *service.Preset
}

type errMsg struct{ error }

// New builds the app over catalog. The focused host at start follows
// cfg.Host ("listbox" or "multiselector").
func New(ctx context.Context, cfg config.UIConfig, store PresetStore, catalog []*repository.Item, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &App{
		ctx:    ctx,
		store:  store,
		binder: binding.New[*repository.Item](nil, log),
		log:    log,
		cfg:    cfg,
		hosts: []host{
			NewListBox("List box", catalog),
			NewMultiSelector("Multi selector", catalog),
			NewLabel("Notes", "Plain text pane. Binding a preset here is rejected."),
		},
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Host), "multiselector") {
		a.focus = 1
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return a.loadPresetNames()
}

func (a *App) loadPresetNames() tea.Cmd {
	return func() tea.Msg {
		names, err := a.store.Names(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return presetNamesMsg(names)
	}
}

func (a *App) openPreset(name string) tea.Cmd {
	return func() tea.Msg {
		p, err := a.store.Open(a.ctx, name)
		if err != nil {
			return errMsg{err}
		}
		return presetOpenedMsg{preset: p}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		return a.handleKey(m.String())
	case presetNamesMsg:
		a.presets = []string(m)
		if len(a.presets) == 0 {
			a.setStatus("no presets stored")
			return a, nil
		}
		a.presetIdx = max(0, slices.Index(a.presets, a.cfg.DefaultPreset))
		return a, a.openPreset(a.presets[a.presetIdx])
	case presetOpenedMsg:
		a.attachPreset(m.preset)
	case errMsg:
		a.setError(m.error)
	}
	return a, nil
}

func (a *App) handleKey(key string) (tea.Model, tea.Cmd) {
	if a.filtering {
		a.handleFilterKey(key)
		return a, nil
	}
	switch key {
	case "q", "ctrl+c":
		a.shutdown()
		return a, tea.Quit
	case "tab":
		a.cycleFocus(1)
	case "shift+tab":
		a.cycleFocus(-1)
	case "]":
		return a, a.cyclePreset(1)
	case "[":
		return a, a.cyclePreset(-1)
	case "d":
		if err := a.binder.Detach(a.focused()); err != nil {
			a.setError(err)
		} else {
			a.setStatus("detached " + a.focused().Name())
		}
	case "/":
		a.filtering = true
	case "X":
		a.mirrorEdit("removed last", func(l *collection.List[*repository.Item]) error {
			if l.Len() == 0 {
				return nil
			}
			return l.RemoveAt(l.Len() - 1)
		})
	case "R":
		a.mirrorEdit("reversed", func(l *collection.List[*repository.Item]) error {
			items := l.Items()
			slices.Reverse(items)
			return l.Reset(items)
		})
	default:
		if err := a.focused().HandleKey(key); err != nil {
			a.setError(err)
		}
	}
	return a, nil
}

func (a *App) handleFilterKey(key string) {
	h := a.focused()
	switch key {
	case "enter", "esc":
		a.filtering = false
		if key == "esc" {
			h.SetQuery("")
		}
	case "backspace":
		if q := h.Query(); q != "" {
			h.SetQuery(q[:len(q)-1])
		}
	default:
		if isPrintableASCIIKey(key) {
			h.SetQuery(h.Query() + key)
		}
	}
}

func (a *App) focused() host { return a.hosts[a.focus] }

// cycleFocus moves the mirror from the focused host to the next one.
func (a *App) cycleFocus(delta int) {
	prev := a.focused()
	if err := a.binder.Detach(prev); err != nil {
		a.setError(err)
		return
	}
	a.filtering = false
	a.focus = (a.focus + delta + len(a.hosts)) % len(a.hosts)
	if a.preset == nil {
		return
	}
	if err := a.binder.SetMirror(a.focused(), a.preset.Items); err != nil {
		a.setError(err)
		return
	}
	a.setStatus(fmt.Sprintf("%s bound to %s", a.preset.Name, a.focused().Name()))
}

func (a *App) cyclePreset(delta int) tea.Cmd {
	if len(a.presets) == 0 {
		return nil
	}
	a.presetIdx = (a.presetIdx + delta + len(a.presets)) % len(a.presets)
	return a.openPreset(a.presets[a.presetIdx])
}

// attachPreset binds p to the focused host, replacing the previous preset.
func (a *App) attachPreset(p *service.Preset) {
	old := a.preset
	a.preset = p
	err := a.binder.SetMirror(a.focused(), p.Items)
	if old != nil {
		old.Close()
	}
	if err != nil {
		a.setError(err)
		return
	}
	a.log.Info("preset attached", "preset", p.Name, "host", a.focused().Name())
	a.setStatus(fmt.Sprintf("%s bound to %s", p.Name, a.focused().Name()))
}

// mirrorEdit changes the preset collection directly, the way an application
// would; the binding carries the change into the widget.
func (a *App) mirrorEdit(what string, fn func(*collection.List[*repository.Item]) error) {
	if a.preset == nil {
		return
	}
	if err := fn(a.preset.Items); err != nil {
		a.setError(err)
		return
	}
	a.setStatus(what + " in " + a.preset.Name)
}

func (a *App) shutdown() {
	for _, h := range a.hosts {
		a.binder.Release(h)
	}
	if a.preset != nil {
		a.preset.Close()
	}
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(err error) {
	if err == nil {
		return
	}
	a.log.Error("action failed", "err", err)
	if errors.Is(err, service.ErrPresetNotFound) {
		a.status = err.Error()
	} else {
		a.status = "error: " + err.Error()
	}
	a.statusErr = true
}

// Status returns the status line text.
func (a *App) Status() string { return a.status }

func (a *App) View() string {
	paneWidth := 36
	if a.width > 0 {
		paneWidth = max(20, a.width/2-4)
	}

	left := make([]string, 0, len(a.hosts))
	for i, h := range a.hosts {
		style := paneStyle
		if i == a.focus {
			style = focusedPaneStyle
		}
		left = append(left, style.Width(paneWidth).Render(h.View(paneWidth-2, i == a.focus)))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, left...),
		paneStyle.Width(paneWidth).Render(a.renderMirror()),
	)

	status := statusStyle.Render(a.status)
	if a.statusErr {
		status = errorStyle.Render(a.status)
	}
	help := "tab focus  [/] preset  space toggle  / filter  d detach  X drop last  R reverse  q quit"
	if a.filtering {
		help = "type to filter  enter keep  esc clear"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(a.cfg.Title),
		body,
		status,
		footerStyle.Render(help),
	)
}

func (a *App) renderMirror() string {
	if a.preset == nil {
		return titleStyle.Render("Preset") + "\n" + mutedStyle.Render("(none)")
	}
	lines := []string{titleStyle.Render("Preset: " + a.preset.Name)}
	if _, ok := a.binder.Mirror(a.focused()); !ok {
		lines = append(lines, mutedStyle.Render("not bound"))
	}
	items := a.preset.Items.Items()
	if len(items) == 0 {
		lines = append(lines, mutedStyle.Render("(empty)"))
	}
	for i, it := range items {
		lines = append(lines, fmt.Sprintf("%2d. %s %s", i+1, labelStyle.Render(it.Label), metaStyle.Render(it.Section)))
	}
	return strings.Join(lines, "\n")
}
