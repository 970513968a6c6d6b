package main

import (
	"os"

	"github.com/gosuri/uiprogress"

	"github.com/revelaction/saf/logger"
	"github.com/revelaction/saf/storage"
)

// newProgress returns a progress bar writer on the error stream, or nil when
// the error stream is not a terminal.
func (e *env) newProgress() *uiprogress.Progress {
	f, ok := e.ui.Err.(*os.File)
	if !ok || !logger.IsTerminal(f) {
		return nil
	}

	p := uiprogress.New()
	p.SetOut(f)
	return p
}

// preload loads every document of repositories that read into memory,
// showing a progress bar.
func (e *env) preload(repo storage.DocRepository) error {
	pl, ok := repo.(storage.Preloader)
	if !ok {
		return nil
	}

	p := e.newProgress()
	if p == nil {
		return pl.Preload(nil)
	}

	p.Start()
	defer p.Stop()

	bar := p.AddBar(1) // Placeholder, updated in callback
	bar.AppendCompleted()
	bar.PrependElapsed()

	var currentName string
	bar.AppendFunc(func(b *uiprogress.Bar) string {
		return currentName
	})

	return pl.Preload(func(current, total int, name string) {
		if bar.Total != total {
			bar.Total = total
		}
		currentName = name
		_ = bar.Set(current)
	})
}
