package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillcase/skillcase/pkg/logger"
	"github.com/skillcase/skillcase/pkg/presenter"
	"github.com/skillcase/skillcase/pkg/validate"
)

type WatchConfig struct {
	IgnoreDirs   []string
	DebounceTime int
}

func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		IgnoreDirs:   []string{".git", "node_modules"},
		DebounceTime: 500,
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

// FileEvent represents a file system event with additional metadata
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate documents as they change",
	Long: `Continuously monitor the corpus roots and re-validate any document
that is written or created. Useful while authoring: findings show up
as soon as you save.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getWatchConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		runWatchMode(ctx, config)
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().StringSliceP("ignore", "i", defaults.IgnoreDirs, "Directories to ignore")
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	rootCmd.AddCommand(watchCmd)
}

func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()
	if ignoreDirs, err := cmd.Flags().GetStringSlice("ignore"); err == nil {
		config.IgnoreDirs = ignoreDirs
	}
	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounceTime
	}
	return config
}

func watchRoots() []string {
	if roots := viper.GetStringSlice("roots"); len(roots) > 0 {
		return roots
	}
	return []string{"./usecases"}
}

func runWatchMode(ctx context.Context, config *WatchConfig) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create file watcher")
		logger.G(ctx).WithError(err).Fatal("Failed to create file watcher")
	}
	defer watcher.Close()

	events := make(chan FileEvent)
	debouncedEvents := make(chan FileEvent)

	go debounceFileEvents(ctx, events, debouncedEvents, time.Duration(config.DebounceTime)*time.Millisecond)

	// Process debounced events
	go func() {
		for {
			select {
			case event, ok := <-debouncedEvents:
				if !ok {
					return
				}
				presenter.Info(fmt.Sprintf("Change detected: %s (%s)", event.Path, event.Op))
				logger.G(ctx).WithFields(map[string]interface{}{
					"file":      event.Path,
					"operation": event.Op.String(),
				}).Debug("File change detected")
				revalidate(ctx, event.Path)
			case <-ctx.Done():
				return
			}
		}
	}()

	// Watch for raw events
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if isIgnored(event.Name, config.IgnoreDirs) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !strings.HasSuffix(event.Name, ".md") {
					continue
				}
				events <- FileEvent{
					Path: event.Name,
					Op:   event.Op,
					Time: time.Now(),
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				presenter.Error(err, "File watcher error")
				logger.G(ctx).WithError(err).Error("Error watching files")
			case <-ctx.Done():
				return
			}
		}
	}()

	for _, root := range watchRoots() {
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			if isIgnored(path, config.IgnoreDirs) {
				return filepath.SkipDir
			}
			logger.G(ctx).WithField("directory", path).Debug("Adding directory to watcher")
			return watcher.Add(path)
		})
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to watch '%s'", root))
			logger.G(ctx).WithError(err).Fatal("Failed to watch directories")
		}
	}

	presenter.Info("Watching for document changes... Press Ctrl+C to stop")

	<-ctx.Done()
}

func isIgnored(path string, ignoreDirs []string) bool {
	for _, ignoreDir := range ignoreDirs {
		if strings.Contains(path, ignoreDir+string(os.PathSeparator)) || path == ignoreDir {
			return true
		}
	}
	return false
}

// revalidate runs the full corpus validation and reports only findings
// for the changed document, plus corpus-level duplicate-slug findings
// it participates in.
func revalidate(ctx context.Context, path string) {
	loader, err := newLoaderFromConfig()
	if err != nil {
		presenter.Error(err, "Failed to configure corpus loader")
		return
	}

	c, err := loader.Load(ctx)
	if err != nil {
		presenter.Error(err, "Failed to load corpus")
		return
	}

	reg, err := newRegistryFromConfig()
	if err != nil {
		presenter.Error(err, "Failed to load skill registry")
		return
	}

	result := newValidatorFromConfig(reg).Validate(c)

	abs, _ := filepath.Abs(path)
	shown := 0
	for _, finding := range result.Findings {
		fabs, _ := filepath.Abs(finding.Path)
		if fabs != abs {
			continue
		}
		shown++
		if finding.Severity == validate.SeverityError {
			presenter.Error(errors.New(finding.Message), finding.Rule)
		} else {
			presenter.Warning(finding.String())
		}
	}

	if shown == 0 {
		presenter.Success(fmt.Sprintf("%s is valid", path))
	}
	presenter.Separator()
}

// Debounce file events to prevent processing multiple rapid changes to the same file
func debounceFileEvents(ctx context.Context, input <-chan FileEvent, output chan<- FileEvent, delay time.Duration) {
	var pending = make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-input:
			if !ok {
				for _, timer := range pending {
					timer.Stop()
				}
				return
			}
			if timer, exists := pending[event.Path]; exists {
				timer.Stop()
				delete(pending, event.Path)
			}

			eventCopy := event
			pending[event.Path] = time.AfterFunc(delay, func() {
				select {
				case output <- eventCopy:
				case <-ctx.Done():
				}
			})
		case <-ctx.Done():
			for _, timer := range pending {
				timer.Stop()
			}
			return
		}
	}
}
