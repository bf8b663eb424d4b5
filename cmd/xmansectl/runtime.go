package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xmanse/pkg/business/xmanse"
	"github.com/omeyang/xmanse/pkg/calendar/xganji"
	"github.com/omeyang/xmanse/pkg/calendar/xpillar"
	"github.com/omeyang/xmanse/pkg/config/xconf"
	"github.com/omeyang/xmanse/pkg/observability/xlog"
	"github.com/omeyang/xmanse/pkg/observability/xmetrics"
)

// session 一次命令执行所需的依赖。
type session struct {
	cfg     xconf.Config
	logger  xlog.LoggerWithLevel
	cleanup func() error
}

// openSession 合并配置文件、环境变量与命令行 flag，并构建日志。
func openSession(cmd *cli.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}

	logger, cleanup, err := buildLogger(cmd.Root().ErrWriter, cfg.Log)
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	return &session{cfg: cfg, logger: logger, cleanup: cleanup}, nil
}

func loadConfig(cmd *cli.Command) (xconf.Config, error) {
	var (
		cfg xconf.Config
		err error
	)
	if path := cmd.String("config"); path != "" {
		cfg, err = xconf.Load(path)
	} else {
		cfg, err = xconf.Parse(nil, xconf.FormatYAML)
	}
	if err != nil {
		return xconf.Config{}, err
	}

	if ds := cmd.String("dataset"); ds != "" {
		cfg.Dataset.Path = ds
	}
	if lv := cmd.String("log-level"); lv != "" {
		cfg.Log.Level = lv
	}
	return cfg, nil
}

func buildLogger(stderr io.Writer, lc xconf.LogConfig) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetOutput(stderr).
		SetLevelString(lc.Level).
		SetFormat(lc.Format).
		SetAddSource(lc.AddSource).
		SetAttrs(slog.String("app", "xmansectl"))
	if lc.File != "" {
		b.SetRotation(lc.File,
			xlog.WithMaxSize(lc.MaxSizeMB),
			xlog.WithMaxBackups(lc.MaxBackups),
			xlog.WithMaxAge(lc.MaxAgeDays),
			xlog.WithCompress(lc.Compress),
		)
	}
	return b.Build()
}

func (s *session) close() {
	if s.cleanup != nil {
		_ = s.cleanup()
	}
}

func (s *session) loadOptions() []xpillar.LoadOption {
	return []xpillar.LoadOption{
		xpillar.WithLoadAttempts(s.cfg.Dataset.LoadAttempts),
		xpillar.WithLoadDelay(s.cfg.Dataset.LoadDelay),
		xpillar.WithLogger(s.logger),
	}
}

// loadHolder 加载数据集。失败时返回记录了原因的 Holder 而不是错误，
// 由服务把失败表现为 ServiceUnavailable。
func (s *session) loadHolder(ctx context.Context) *xpillar.Holder {
	ds, err := xpillar.Load(ctx, s.cfg.Dataset.Path, s.loadOptions()...)
	if err != nil {
		s.logger.Error(ctx, "dataset load failed, service unavailable",
			xlog.Path(s.cfg.Dataset.Path), xlog.Err(err))
		return xpillar.NewFailedHolder(err)
	}
	return xpillar.NewHolder(ds)
}

// serviceOptions 由配置生成服务选项。
func (s *session) serviceOptions(obs xmetrics.Observer) ([]xmanse.Option, error) {
	calc, err := xganji.NewCalculator(s.cfg.Cache.MemoSize)
	if err != nil {
		return nil, err
	}
	return []xmanse.Option{
		xmanse.WithCacheSize(s.cfg.Cache.MaxSize),
		xmanse.WithTTL(s.cfg.Cache.TTL),
		xmanse.WithSweepEvery(s.cfg.Cache.SweepEvery),
		xmanse.WithCalculator(calc),
		xmanse.WithLogger(s.logger),
		xmanse.WithObserver(obs),
	}, nil
}

// newService 按配置构建服务。启动时数据集加载失败得到永久不可用的服务。
func (s *session) newService(ctx context.Context, obs xmetrics.Observer) (*xmanse.Service, *xpillar.Holder, error) {
	opts, err := s.serviceOptions(obs)
	if err != nil {
		return nil, nil, err
	}

	holder := s.loadHolder(ctx)
	if !holder.Available() {
		return xmanse.NewUnavailable(holder.Err(), opts...), holder, nil
	}
	svc, err := xmanse.New(holder, opts...)
	if err != nil {
		return nil, nil, errors.Join(&usageError{msg: "invalid cache config"}, err)
	}
	return svc, holder, nil
}
