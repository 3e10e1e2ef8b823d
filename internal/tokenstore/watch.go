// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tokenstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch calls onChange whenever the file holding key is created, written,
// renamed or removed, including by another process. It returns once the
// watch is registered; events are delivered from a goroutine that exits
// when ctx is cancelled. onChange also fires for this process's own writes,
// so it should re-validate rather than assume the session ended.
func (b *FileBackend) Watch(ctx context.Context, key string, log *zap.Logger, onChange func()) error {
	if log == nil {
		log = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory, atomic replaces swap the file's inode
	if err := watcher.Add(b.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", b.dir, err)
	}

	target := filepath.Clean(b.Path(key))
	relevant := fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || event.Op&relevant == 0 {
					continue
				}
				log.Debug("token record changed", zap.String("op", event.Op.String()))
				onChange()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("token watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
