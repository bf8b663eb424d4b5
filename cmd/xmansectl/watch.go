package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xmanse/pkg/business/xmanse"
	"github.com/omeyang/xmanse/pkg/calendar/xpillar"
	"github.com/omeyang/xmanse/pkg/config/xconf"
	"github.com/omeyang/xmanse/pkg/observability/xlog"
	"github.com/omeyang/xmanse/pkg/observability/xmetrics"
	"github.com/omeyang/xmanse/pkg/util/xwatch"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "监视数据集与配置文件，变化后热加载",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "for", Usage: "运行时长，0 表示直到收到信号"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if d := cmd.Duration("for"); d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}
			return runWatch(ctx, s, cmd)
		},
	}
}

func runWatch(ctx context.Context, s *session, cmd *cli.Command) error {
	// 回调在监视协程中输出
	w := &lockedWriter{w: cmd.Root().Writer}
	opts, err := s.serviceOptions(xmetrics.NoopObserver{})
	if err != nil {
		return err
	}

	// 与 query 不同，这里启动失败后仍可在文件修复时恢复
	holder := s.loadHolder(ctx)
	svc, err := xmanse.New(holder, opts...)
	if err != nil {
		return err
	}

	reloader, err := xpillar.NewReloader(holder, s.cfg.Dataset.Path,
		xpillar.WithReloadDebounce(s.cfg.Dataset.WatchDebounce),
		xpillar.WithReloadLogger(s.logger),
		xpillar.WithReloadLoadOptions(s.loadOptions()...),
		xpillar.WithOnReload(func(ds *xpillar.Dataset, err error) {
			if err != nil {
				fmt.Fprintf(w, "reload failed: %v\n", err)
				return
			}
			svc.Purge()
			fmt.Fprintf(w, "reloaded %d days, fingerprint %016x\n", ds.Len(), ds.Fingerprint())
		}),
	)
	if err != nil {
		return err
	}
	reloader.Start()
	defer func() { _ = reloader.Stop() }()

	if path := cmd.String("config"); path != "" {
		cw, err := xconf.Watch(path, func(cfg xconf.Config, err error) {
			applyConfig(ctx, s, cfg, err)
		}, xwatch.WithDebounce(s.cfg.Dataset.WatchDebounce))
		if err != nil {
			return err
		}
		cw.StartAsync()
		defer func() { _ = cw.Stop() }()
	}

	fmt.Fprintf(w, "watching %s (available=%t)\n", s.cfg.Dataset.Path, holder.Available())
	<-ctx.Done()

	st := svc.Stats()
	fmt.Fprintf(w, "stopped: cache size=%d hits=%d misses=%d\n", st.Size, st.Hits, st.Misses)
	return nil
}

// applyConfig 热更新可在运行时调整的配置项，目前只有日志级别。
func applyConfig(ctx context.Context, s *session, cfg xconf.Config, err error) {
	if err != nil {
		s.logger.Warn(ctx, "config reload failed, keeping previous config", xlog.Err(err))
		return
	}
	level, err := xlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		s.logger.Warn(ctx, "config reload: bad log level", xlog.Err(err))
		return
	}
	if level != s.logger.GetLevel() {
		s.logger.SetLevel(level)
		s.logger.Info(ctx, "log level changed", slog.String("new_level", level.String()))
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
