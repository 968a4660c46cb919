package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
	"github.com/gautamkumar30/kontract.ai/internal/logger"
)

// driftProcessor is the slice of the processor the watch loop needs.
type driftProcessor interface {
	CompareTexts(ctx context.Context, oldText, newText string) ([]domain.Change, error)
}

// Extensions recognised as contract documents when watching.
var watchedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Watch a directory and report drift whenever a contract file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	// Baseline snapshots so the first change to each file has something
	// to compare against.
	snapshots := make(map[string][]byte)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !watchedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			continue
		}
		snapshots[path] = raw
	}

	processor := buildProcessor(loadConfig())
	cmd.Printf("Watching %s (%d contract file(s) tracked)\n", dir, len(snapshots))

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !watchedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			handleWatchEvent(cmd, processor, snapshots, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

func handleWatchEvent(cmd *cobra.Command, processor driftProcessor, snapshots map[string][]byte, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading %s: %v", path, err)
		return
	}

	previous, seen := snapshots[path]
	snapshots[path] = raw
	if !seen {
		cmd.Printf("Tracking new file %s\n", path)
		return
	}
	if string(previous) == string(raw) {
		return
	}

	changes, err := processor.CompareTexts(cmd.Context(), string(previous), string(raw))
	if err != nil {
		logger.Warn("comparing %s: %v", path, err)
		return
	}
	cmd.Printf("\n%s changed:\n", path)
	cmd.Print(renderReport(changes))
}
