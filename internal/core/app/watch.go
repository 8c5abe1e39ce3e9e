package app

import (
	"time"

	"standalone/internal/core/watcher"
)

// StartWatcher begins watching the corpus paths. onChange receives the
// batched set of changed files after each debounce window.
func (a *App) StartWatcher(onChange func([]string)) error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		onChange,
	)
	if err != nil {
		return err
	}
	w.SetExtensions(a.Parser.SupportedExtensions())
	a.activeWatcher = w
	return w.Watch(a.Config.CorpusPaths)
}

// SetWatchDebounce adjusts the running watcher, so a config reload takes
// effect without a restart.
func (a *App) SetWatchDebounce(debounce time.Duration) {
	if a.activeWatcher != nil {
		a.activeWatcher.SetDebounce(debounce)
	}
}
