package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"

	"github.com/kobzarvs/notepadmm/internal/config"
	"github.com/kobzarvs/notepadmm/internal/document"
	"github.com/kobzarvs/notepadmm/internal/gitinfo"
	"github.com/kobzarvs/notepadmm/internal/logger"
	"github.com/kobzarvs/notepadmm/internal/syntax"
	"github.com/kobzarvs/notepadmm/internal/tabs"
	"github.com/kobzarvs/notepadmm/internal/ui"
	"github.com/kobzarvs/notepadmm/internal/watch"
)

const watchDebounce = 150 * time.Millisecond

// App is the top-level runtime for notepadmm.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	hl := syntax.New(langs)
	defer hl.Close()

	reg := tabs.New()
	ed := ui.New(cfg, reg, hl)
	ed.BranchOf = gitinfo.Branch

	if cfg.Editor.WatchFiles {
		w, werr := watch.New(watchDebounce)
		if werr != nil {
			logger.Warn("file watching disabled", "error", werr)
		} else {
			defer func() { err = multierr.Append(err, w.Close()) }()
			attachWatcher(ed, w)
			go forwardEvents(s, w.Events())
		}
	}

	for _, path := range a.args {
		ed.Open(path)
	}
	if len(a.args) > 1 {
		reg.SetActive(a.args[0])
	}
	logger.Info("started", "files", reg.Len(), "watch", cfg.Editor.WatchFiles)

	ed.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if we, ok := ev.Data().(watch.Event); ok {
				ed.RefreshDiff()
				if msg := describeChange(reg, we); msg != "" {
					ed.SetStatus(msg)
				}
			}
		}
		ed.Render(s)
	}
}

// attachWatcher keeps the watch set in step with the open tabs.
func attachWatcher(ed *ui.Editor, w *watch.Watcher) {
	ed.OnOpen = func(path string) {
		if err := w.Add(path); err != nil {
			logger.Warn("watch add failed", "path", path, "error", err)
		}
	}
	ed.OnClose = func(path string) {
		if err := w.Remove(path); err != nil {
			logger.Debug("watch remove failed", "path", path, "error", err)
		}
	}
}

func forwardEvents(s tcell.Screen, events <-chan watch.Event) {
	for ev := range events {
		if err := s.PostEvent(tcell.NewEventInterrupt(ev)); err != nil {
			logger.Debug("dropped watch event", "path", ev.Path, "error", err)
		}
	}
}

// describeChange turns a watcher event into a message line text. Writes
// whose content already matches the buffer, such as our own saves, yield
// an empty string.
func describeChange(reg *tabs.Registry, ev watch.Event) string {
	d, ok := reg.Get(ev.Path)
	if !ok {
		return ""
	}
	name := filepath.Base(ev.Path)
	switch ev.Op {
	case watch.Removed:
		return name + " was removed on disk"
	case watch.Changed:
		diff, err := d.DiffOnDisk()
		if err != nil {
			return fmt.Sprintf("%s changed on disk: %v", name, err)
		}
		if diff == "" {
			return ""
		}
		added, removed := document.DiffStat(diff)
		msg := fmt.Sprintf("%s changed on disk (buffer differs by +%d -%d lines, f4 shows the diff)", name, added, removed)
		if d.Modified() {
			msg += "; your unsaved edits are kept"
		}
		return msg
	}
	return ""
}
