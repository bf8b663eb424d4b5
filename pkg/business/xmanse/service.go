package xmanse

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/omeyang/xmanse/pkg/calendar/xganji"
	"github.com/omeyang/xmanse/pkg/calendar/xpillar"
	"github.com/omeyang/xmanse/pkg/observability/xlog"
	"github.com/omeyang/xmanse/pkg/observability/xmetrics"
	"github.com/omeyang/xmanse/pkg/storage/xexpire"
)

const component = "xmanse"

// Dataset 日表查询接口，*xpillar.Holder 实现了该接口。
// err 非 nil 表示数据集不可用。
type Dataset interface {
	Lookup(year, month, day int) (xpillar.DayRecord, bool, error)
}

var _ Dataset = (*xpillar.Holder)(nil)

// Service 만세력查询服务。所有方法并发安全。
type Service struct {
	dataset    Dataset
	cache      *xexpire.Cache[Key, Result]
	calc       *xganji.Calculator
	ttl        time.Duration
	sweepEvery uint64
	logger     xlog.Logger
	observer   xmetrics.Observer

	// unavailable 非 nil 时服务处于永久不可用状态
	unavailable error

	queries atomic.Uint64
	flight  singleflight.Group

	// gen 在每次 Purge 时递增；写缓存前比对，丢弃旧数据集算出的结果。
	// purgeMu 保证比对与写入不会和 Purge 交错。
	gen     atomic.Uint64
	purgeMu sync.RWMutex
}

// New 创建查询服务。
func New(dataset Dataset, opts ...Option) (*Service, error) {
	if dataset == nil {
		return nil, ErrNilDataset
	}
	return build(dataset, nil, opts)
}

// NewUnavailable 创建永久不可用的服务：启动时数据集加载失败，之后每次查询都返回
// 包装 cause 的 *UnavailableError，不做任何校验或重试。
func NewUnavailable(cause error, opts ...Option) *Service {
	if cause == nil {
		cause = xpillar.ErrUnavailable
	}
	s, err := build(nil, cause, opts)
	if err != nil {
		// 选项非法时仍需返回可用的不可用服务
		s, _ = build(nil, cause, nil)
	}
	return s
}

func build(dataset Dataset, unavailable error, opts []Option) (*Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.sweepEvery == 0 {
		return nil, ErrInvalidSweepEvery
	}

	cache := o.cache
	if cache == nil {
		c, err := xexpire.New[Key, Result](xexpire.Config{MaxSize: o.cacheSize, DefaultTTL: o.ttl})
		if err != nil {
			return nil, err
		}
		cache = c
	}
	calc := o.calc
	if calc == nil {
		c, err := xganji.NewCalculator(0)
		if err != nil {
			return nil, err
		}
		calc = c
	}

	return &Service{
		dataset:     dataset,
		cache:       cache,
		calc:        calc,
		ttl:         o.ttl,
		sweepEvery:  o.sweepEvery,
		logger:      o.logger.With(xlog.Component(component)),
		observer:    o.observer,
		unavailable: unavailable,
	}, nil
}

// QueryDate 是 Query 的便捷形式，hour 可为 nil。
func (s *Service) QueryDate(ctx context.Context, year, month, day int, hour *int) (Result, error) {
	return s.Query(ctx, NewRequest(year, month, day, hour))
}

// Query 查询四柱。
func (s *Service) Query(ctx context.Context, req Request) (res Result, err error) {
	ctx, span := xmetrics.Start(ctx, s.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "query",
	})
	hit := false
	defer func() {
		span.End(xmetrics.Result{Err: err, Attrs: []xmetrics.Attr{xmetrics.Bool("cache_hit", hit)}})
	}()

	if s.unavailable != nil {
		err = &UnavailableError{Cause: s.unavailable}
		s.logger.Error(ctx, "query rejected, dataset unavailable", xlog.Err(s.unavailable))
		return Result{}, err
	}

	key, err := s.validate(req)
	if err != nil {
		s.logger.Debug(ctx, "query rejected", xlog.Err(err))
		return Result{}, err
	}
	ctx = xlog.ContextWith(ctx, xlog.Date(key.Year, key.Month, key.Day), xlog.Hour(req.Hour))

	s.maybeSweep(ctx)

	if cached, ok := s.cache.Get(key); ok {
		hit = true
		s.logger.Debug(ctx, "cache hit")
		return cached, nil
	}
	s.logger.Debug(ctx, "cache miss")

	gen := s.gen.Load()
	v, err, shared := s.flight.Do(strconv.FormatUint(gen, 10)+"/"+key.String(), func() (any, error) {
		return s.compute(ctx, key, gen)
	})
	if err != nil {
		return Result{}, err
	}
	if shared {
		s.logger.Debug(ctx, "joined in-flight query")
	}
	return v.(Result), nil
}

// validate 依次检查必填、范围与日期合法性。
func (s *Service) validate(req Request) (Key, error) {
	switch {
	case req.Year == nil:
		return Key{}, &MissingParameterError{Field: "year"}
	case req.Month == nil:
		return Key{}, &MissingParameterError{Field: "month"}
	case req.Day == nil:
		return Key{}, &MissingParameterError{Field: "day"}
	}

	key := Key{Year: *req.Year, Month: *req.Month, Day: *req.Day, Hour: -1}
	if err := checkRange("year", key.Year, MinYear, MaxYear); err != nil {
		return Key{}, err
	}
	if err := checkRange("month", key.Month, MinMonth, MaxMonth); err != nil {
		return Key{}, err
	}
	if err := checkRange("day", key.Day, MinDay, MaxDay); err != nil {
		return Key{}, err
	}
	if req.Hour != nil {
		if err := checkRange("hour", *req.Hour, MinHour, MaxHour); err != nil {
			return Key{}, err
		}
		key.Hour = *req.Hour
	}

	if !s.calc.IsValidGregorianDate(key.Year, key.Month, key.Day) {
		return Key{}, &InvalidDateError{Year: key.Year, Month: key.Month, Day: key.Day}
	}
	return key, nil
}

func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &OutOfRangeError{Field: field, Value: v, Min: lo, Max: hi}
	}
	return nil
}

func (s *Service) compute(ctx context.Context, key Key, gen uint64) (Result, error) {
	rec, found, err := s.dataset.Lookup(key.Year, key.Month, key.Day)
	if err != nil {
		s.logger.Error(ctx, "dataset unavailable", xlog.Err(err))
		return Result{}, &UnavailableError{Cause: err}
	}
	if !found {
		s.logger.Warn(ctx, "date not covered by dataset")
		return Result{}, &DataNotFoundError{Year: key.Year, Month: key.Month, Day: key.Day}
	}

	res := Result{
		Year:        key.Year,
		Month:       key.Month,
		Day:         key.Day,
		YearPillar:  rec.YearPillar(),
		MonthPillar: s.calc.MonthPillar(key.Month, rec.YearStem),
		DayPillar:   rec.DayPillar(),
		YearGanji:   rec.YearGanji,
		DayGanji:    rec.DayGanji,
		LunarMonth:  rec.LunarMonth,
		LunarDay:    rec.LunarDay,
		IsLeapMonth: rec.IsLeapMonth,
	}
	if key.Hour >= 0 {
		res.HasHour = true
		res.Hour = key.Hour
		res.HourPillar = s.calc.HourPillar(key.Hour, rec.DayStem)
	}

	s.store(ctx, key, res, gen)
	return res, nil
}

// store 仅在查询期间没有发生 Purge 时写入缓存。
func (s *Service) store(ctx context.Context, key Key, res Result, gen uint64) {
	s.purgeMu.RLock()
	defer s.purgeMu.RUnlock()
	if s.gen.Load() != gen {
		s.logger.Debug(ctx, "dataset replaced during query, result not cached")
		return
	}
	if s.cache.Set(key, res, s.ttl) {
		s.logger.Debug(ctx, "result cache evicted oldest entry")
	}
}

func (s *Service) maybeSweep(ctx context.Context) {
	if s.queries.Add(1)%s.sweepEvery != 0 {
		return
	}
	if n := s.cache.Sweep(); n > 0 {
		s.logger.Debug(ctx, "swept expired results", slog.Int("removed", n))
	}
}

// Sweep 立即清理过期条目，返回清理数量。
func (s *Service) Sweep() int { return s.cache.Sweep() }

// Purge 清空结果缓存。数据集被替换后调用，避免返回旧数据算出的结果。
//
// 调用前已开始计算的查询仍返回各自的结果，但不会写回缓存；
// 之后到达的查询不会并入这些进行中的计算。
func (s *Service) Purge() {
	s.purgeMu.Lock()
	defer s.purgeMu.Unlock()
	s.gen.Add(1)
	s.cache.Clear()
}

// Stats 返回结果缓存统计。
func (s *Service) Stats() CacheStats {
	st := s.cache.Stats()
	return CacheStats{Size: st.Size, Hits: st.Hits, Misses: st.Misses, Evictions: st.Evictions}
}

// CalculatorStats 返回计算器记忆化子缓存统计。
func (s *Service) CalculatorStats() xganji.CalculatorStats { return s.calc.Stats() }
