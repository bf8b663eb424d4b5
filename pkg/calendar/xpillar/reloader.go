package xpillar

import (
	"context"
	"time"

	"github.com/omeyang/xmanse/pkg/observability/xlog"
	"github.com/omeyang/xmanse/pkg/util/xwatch"
)

// ReloaderOption Reloader 配置选项。
type ReloaderOption func(*reloaderOptions)

type reloaderOptions struct {
	debounce time.Duration
	logger   xlog.Logger
	load     []LoadOption
	onReload func(ds *Dataset, err error)
}

// WithReloadDebounce 设置文件变更防抖时间。
func WithReloadDebounce(d time.Duration) ReloaderOption {
	return func(o *reloaderOptions) { o.debounce = d }
}

// WithReloadLogger 设置日志记录器，同时用于加载过程。
func WithReloadLogger(l xlog.Logger) ReloaderOption {
	return func(o *reloaderOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReloadLoadOptions 设置每次重新加载使用的 LoadOption。
func WithReloadLoadOptions(opts ...LoadOption) ReloaderOption {
	return func(o *reloaderOptions) { o.load = append(o.load, opts...) }
}

// WithOnReload 设置每次重新加载完成后的回调，err 非 nil 表示失败。
func WithOnReload(fn func(ds *Dataset, err error)) ReloaderOption {
	return func(o *reloaderOptions) { o.onReload = fn }
}

// Reloader 监视数据文件，变更后重新加载到 Holder。
//
// 加载失败时调用 Holder.Fail：已有数据集继续服务，失败原因可经 Holder.Err 查询。
type Reloader struct {
	holder  *Holder
	path    string
	opts    reloaderOptions
	watcher *xwatch.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewReloader 创建 Reloader，调用 Start 后开始监视。
func NewReloader(holder *Holder, path string, opts ...ReloaderOption) (*Reloader, error) {
	if holder == nil {
		return nil, ErrNilHolder
	}
	if path == "" {
		return nil, ErrEmptyPath
	}
	o := reloaderOptions{debounce: xwatch.DefaultDebounce, logger: xlog.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Reloader{holder: holder, path: path, opts: o, ctx: ctx, cancel: cancel}

	w, err := xwatch.New(path, func() { _ = r.Reload(r.ctx) },
		xwatch.WithDebounce(o.debounce),
		xwatch.WithOnError(func(err error) {
			o.logger.Warn(ctx, "dataset watch error", xlog.Path(path), xlog.Err(err))
		}),
	)
	if err != nil {
		cancel()
		return nil, err
	}
	r.watcher = w
	return r, nil
}

// Reload 立即重新加载一次。
//
// Stop 之后（或 ctx 被取消时）中断的加载直接返回错误，
// 不记入 Holder，也不触发 onReload。
func (r *Reloader) Reload(ctx context.Context) error {
	loadOpts := append([]LoadOption{WithLogger(r.opts.logger)}, r.opts.load...)
	ds, err := Load(ctx, r.path, loadOpts...)
	if err != nil && (ctx.Err() != nil || r.ctx.Err() != nil) {
		return err
	}
	if err != nil {
		r.holder.Fail(err)
		r.opts.logger.Error(ctx, "dataset reload failed, keeping previous dataset",
			xlog.Path(r.path), xlog.Err(err))
	} else {
		r.holder.Store(ds)
	}
	if r.opts.onReload != nil {
		r.opts.onReload(ds, err)
	}
	return err
}

// Start 在后台开始监视。
func (r *Reloader) Start() { r.watcher.StartAsync() }

// Stop 停止监视，取消并等待进行中的加载。
func (r *Reloader) Stop() error {
	r.cancel()
	return r.watcher.Stop()
}
