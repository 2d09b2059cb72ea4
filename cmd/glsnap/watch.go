package main

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Prior99/windows-test/config"
	"github.com/Prior99/windows-test/logger"
)

const debounce = 20 * time.Millisecond

// watch renders once and then again every time one of the files involved
// changes, until ctx is cancelled. Bursts of events are coalesced.
func watch(ctx context.Context, flags *config.Flags, renderFn func(*config.Flags) ([]string, error)) {
	for ctx.Err() == nil {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Error("unable to create file watcher", zap.Error(err))
			return
		}

		files, err := renderFn(flags)
		if err != nil {
			printSource(err)
			logger.Error("render failed", zap.Error(err))
		} else {
			logger.Sugar.Infof("waiting for changes in %d files", len(files))
			logger.Debug("watching", zap.Strings("files", files))
		}
		for _, f := range files {
			if err := watcher.Add(f); err != nil {
				logger.Warn("unable to watch file", zap.String("file", f), zap.Error(err))
			}
		}

		select {
		case ev := <-watcher.Events:
			logger.Debug("file changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			t := time.NewTimer(debounce)
		outer:
			for {
				select {
				case <-watcher.Events:
				case <-t.C:
					break outer
				case <-ctx.Done():
					t.Stop()
					break outer
				}
			}
		case err := <-watcher.Errors:
			logger.Error("file watcher failed", zap.Error(err))
		case <-ctx.Done():
		}
		watcher.Close()
	}
}
