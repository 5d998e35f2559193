// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

func newWatchCmd(a *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch MANIFEST...",
		Short: "Rebuild and print the graph whenever a manifest changes",
		Long: `Like build, but keeps running and rebuilds the graph each time one of
the manifests is written, replaced or removed. Rebuilds happen at most once
per --interval. A manifest that fails to load is logged and the previous
output stays on screen.

Stop with Ctrl-C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}

			fw, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("creating file watcher: %w", err)
			}
			defer fw.Close()

			w, err := newManifestWatcher(a, args, cmd.OutOrStdout(), interval)
			if err != nil {
				return err
			}
			for dir := range w.dirs() {
				if err := fw.Add(dir); err != nil {
					return fmt.Errorf("watching %s: %w", dir, err)
				}
			}
			return w.run(cmd.Context(), fw.Events, fw.Errors)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 200*time.Millisecond, "minimum time between rebuilds")
	return cmd
}

// manifestWatcher rebuilds a graph from a fixed set of manifests.
type manifestWatcher struct {
	app     *app
	args    []string
	paths   map[string]bool
	out     io.Writer
	clear   bool
	limiter *rate.Limiter
}

func newManifestWatcher(a *app, args []string, out io.Writer, interval time.Duration) (*manifestWatcher, error) {
	paths := make(map[string]bool, len(args))
	for _, p := range args {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		paths[abs] = true
	}

	return &manifestWatcher{
		app:     a,
		args:    args,
		paths:   paths,
		out:     out,
		clear:   isTerminal(out),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

// dirs returns the directories holding the manifests. Directories are
// watched rather than files so editors that replace a file on save are
// still seen.
func (w *manifestWatcher) dirs() map[string]bool {
	dirs := make(map[string]bool)
	for p := range w.paths {
		dirs[filepath.Dir(p)] = true
	}
	return dirs
}

// relevant reports whether ev changes one of the watched manifests.
func (w *manifestWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.paths[abs]
}

// run renders once, then again after every relevant event until ctx is
// done or the event channel closes.
func (w *manifestWatcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	w.render(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			drain(events)
			w.app.logger.Debug("manifest changed", "path", ev.Name, "op", ev.Op.String())
			w.render(ctx)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.app.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *manifestWatcher) render(ctx context.Context) {
	g, err := w.app.buildGraph(ctx, w.args)
	if err != nil {
		w.app.logger.Warn("rebuild failed", "error", err)
		return
	}
	if w.clear {
		fmt.Fprint(w.out, clearScreen)
	}
	fmt.Fprint(w.out, g.String())
}

// drain discards queued events; the rebuild that follows reads every
// manifest anyway.
func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
