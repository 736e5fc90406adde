package commands

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounceWindow coalesces bursts of file events from spreadsheet exports,
// which typically rewrite several CSV files in quick succession.
const debounceWindow = 500 * time.Millisecond

// NewWatchCmd creates the watch command: recompute the report whenever the
// snapshot directory changes.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompute the report whenever the snapshot changes",
		Long: `Watch renders the report, then watches the data directory and renders
it again each time the external loader refreshes the snapshot files. Each
refresh builds a brand new snapshot; nothing is patched in place.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			logger := loggerFrom(cmd)

			render := func() {
				report, err := runAnalysis(cmd)
				if err != nil {
					logger.Error("analysis failed", "error", err)
					return
				}
				if err := renderFullReport(cmd.OutOrStdout(), cfg.OutputFormat, report); err != nil {
					logger.Error("render failed", "error", err)
				}
			}
			render()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			defer watcher.Close()

			if err := watcher.Add(cfg.DataDir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", cfg.DataDir, err)
			}
			logger.Info("watching snapshot directory", "dir", cfg.DataDir)

			var timer *time.Timer
			pending := make(chan struct{}, 1)
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
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounceWindow, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})
				case <-pending:
					logger.Info("snapshot changed, recomputing")
					render()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn("watch error", "error", err)
				}
			}
		},
	}
	addFilterFlags(cmd)
	return cmd
}
