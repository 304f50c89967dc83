package cli

import (
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/davarch/lambda-api-ci/internal/application"
	"github.com/davarch/lambda-api-ci/internal/domain"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/cache_fs"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/codepipeline_sdk"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/config"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/logging"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/notify_libnotify"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the deployed pipeline and notify on execution changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New()
		defer func() { _ = log.Sync() }()

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		refs := pipelineRefs(cfg)
		if len(refs) == 0 {
			return errors.New("pipeline.name is required to watch executions")
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		pipelines, err := codepipeline_sdk.New(ctx, cfg.AWS.Region)
		if err != nil {
			return err
		}
		note := notify_libnotify.NewSoft(notify_libnotify.Options{Expire: 10 * time.Second})
		cache := cache_fs.New(cfg.Cache.Path)

		uc := application.NewPollUseCase(pipelines, note, cache)
		sched := application.NewScheduler(log, uc, refs, cfg.Watch.Interval, cfg.Watch.PauseFile)
		watchAndReload(cfgPath, log, sched)

		log.Info("start",
			zap.String("version", version),
			zap.String("pipeline", cfg.Pipeline.Name),
			zap.String("region", cfg.AWS.Region),
			zap.Duration("every", cfg.Watch.Interval),
			zap.String("cache", cfg.Cache.Path),
			zap.String("pause_file", cfg.Watch.PauseFile),
		)
		sched.Run(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func pipelineRefs(cfg config.Config) []domain.PipelineRef {
	if cfg.Pipeline.Name == "" {
		return nil
	}
	return []domain.PipelineRef{{Name: cfg.Pipeline.Name}}
}

func watchAndReload(cfgPath string, log *zap.Logger, sched *application.Scheduler) {
	if cfgPath == "" {
		return
	}

	dir := filepath.Dir(cfgPath)
	base := filepath.Base(cfgPath)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("fsnotify init failed", zap.Error(err))
		return
	}

	if err := w.Add(dir); err != nil {
		log.Warn("fsnotify add dir failed", zap.String("dir", dir), zap.Error(err))
		_ = w.Close()
		return
	}

	reload := func() {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			log.Warn("config reload failed", zap.Error(err))
			return
		}
		refs := pipelineRefs(cfg)
		if len(refs) == 0 {
			log.Warn("config reload: no pipeline configured")
		}
		sched.UpdateRefs(refs)
	}

	go func() {
		defer func() { _ = w.Close() }()

		var timer *time.Timer
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				if filepath.Base(ev.Name) != base {
					continue
				}

				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					if timer == nil {
						timer = time.AfterFunc(300*time.Millisecond, reload)
					} else {
						timer.Reset(300 * time.Millisecond)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("fsnotify error", zap.Error(err))
			}
		}
	}()
}
