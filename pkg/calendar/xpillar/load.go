package xpillar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/klauspost/compress/gzip"

	"github.com/omeyang/xmanse/pkg/observability/xlog"
)

// 加载默认值。
const (
	DefaultLoadAttempts = 3
	DefaultLoadDelay    = 200 * time.Millisecond
)

type loadOptions struct {
	attempts uint
	delay    time.Duration
	logger   xlog.Logger
}

// LoadOption Load 的配置选项。
type LoadOption func(*loadOptions)

// WithLoadAttempts 设置读取文件的最大尝试次数（含首次），0 忽略。
func WithLoadAttempts(n uint) LoadOption {
	return func(o *loadOptions) {
		if n > 0 {
			o.attempts = n
		}
	}
}

// WithLoadDelay 设置重试间隔基数（指数退避），d <= 0 忽略。
func WithLoadDelay(d time.Duration) LoadOption {
	return func(o *loadOptions) {
		if d > 0 {
			o.delay = d
		}
	}
}

// WithLogger 设置日志记录器。
func WithLogger(l xlog.Logger) LoadOption {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildLoadOptions(opts []LoadOption) loadOptions {
	o := loadOptions{
		attempts: DefaultLoadAttempts,
		delay:    DefaultLoadDelay,
		logger:   xlog.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Load 读取并解析数据文件。gzip 压缩的文件（按魔数识别）会被透明解压。
//
// 读取失败按 WithLoadAttempts/WithLoadDelay 重试；文件不存在、gzip 损坏与解析失败不重试。
// 返回的错误均包装 ErrLoadFailed。
func Load(ctx context.Context, path string, opts ...LoadOption) (*Dataset, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	o := buildLoadOptions(opts)
	start := time.Now()

	data, err := retry.NewWithData[[]byte](
		retry.Context(ctx),
		retry.Attempts(o.attempts),
		retry.Delay(o.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, ErrCorrupt)
		}),
		retry.OnRetry(func(n uint, err error) {
			o.logger.Warn(ctx, "dataset read failed, retrying",
				xlog.Path(path), xlog.Count(int64(n)+1), xlog.Err(err))
		}),
	).Do(func() ([]byte, error) {
		return readResource(path)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, path, err)
	}

	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, path, err)
	}

	cov := ds.Coverage()
	o.logger.Info(ctx, "dataset loaded",
		xlog.Path(path),
		xlog.Fingerprint(ds.Fingerprint()),
		xlog.Count(int64(ds.Len())),
		xlog.Duration(time.Since(start)),
		slog.Int("first_year", cov.FirstYear),
		slog.Int("last_year", cov.LastYear),
		slog.Int("skipped", ds.Skipped()),
	)
	return ds, nil
}

var gzipMagic = []byte{0x1f, 0x8b}

// readResource 读取文件，gzip 内容自动解压。
func readResource(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(raw, gzipMagic) {
		return raw, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	defer func() { _ = zr.Close() }()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return data, nil
}
