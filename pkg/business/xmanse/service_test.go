package xmanse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/omeyang/xmanse/pkg/calendar/xganji"
	"github.com/omeyang/xmanse/pkg/calendar/xpillar"
	"github.com/omeyang/xmanse/pkg/observability/xlog"
	"github.com/omeyang/xmanse/pkg/storage/xexpire"
)

const fixture = `{
  "1990": {"5": {
    "15": {"ys":"경","yb":"오","yg":"경오","ds":"경","db":"진","dg":"경진","lm":4,"ld":21,"lp":false},
    "16": {"ys":"경","yb":"오","ds":"신","db":"사","lm":4,"ld":22,"lp":false}
  }},
  "2024": {"2": {"29": {"ys":"갑","yb":"진","yg":"갑진","ds":"계","db":"해","dg":"계해","lm":1,"ld":20,"lp":false}}},
  "2100": {"12": {"31": {"ys":"경","yb":"신","yg":"경신","ds":"정","db":"미","dg":"정미","lm":11,"ld":30,"lp":true}}}
}`

func newDataset(t testing.TB) *xpillar.Dataset {
	t.Helper()
	ds, err := xpillar.Parse([]byte(fixture))
	require.NoError(t, err)
	return ds
}

func newService(t testing.TB, opts ...Option) *Service {
	t.Helper()
	s, err := New(xpillar.NewHolder(newDataset(t)), opts...)
	require.NoError(t, err)
	return s
}

func intp(v int) *int { return &v }

func gyeongJinRecord() xpillar.DayRecord {
	return xpillar.DayRecord{
		YearStem: xganji.Gyeong, YearBranch: xganji.O,
		DayStem: xganji.Gyeong, DayBranch: xganji.Jin,
		YearGanji: "경오", DayGanji: "경진",
		LunarMonth: 4, LunarDay: 21,
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilDataset)

	_, err = New(xpillar.NewHolder(newDataset(t)), WithSweepEvery(0))
	require.ErrorIs(t, err, ErrInvalidSweepEvery)

	_, err = New(xpillar.NewHolder(newDataset(t)), WithCacheSize(-1))
	require.ErrorIs(t, err, xexpire.ErrInvalidSize)
}

func TestQuery_FourPillars(t *testing.T) {
	s := newService(t)

	res, err := s.QueryDate(context.Background(), 1990, 5, 15, intp(14))
	require.NoError(t, err)

	assert.Equal(t, "경오", res.YearPillar.String())
	assert.Equal(t, "정진", res.MonthPillar.String())
	assert.Equal(t, "경진", res.DayPillar.String())
	assert.True(t, res.HasHour)
	assert.Equal(t, 14, res.Hour)
	assert.Equal(t, "계미", res.HourPillar.String())
	assert.Equal(t, "경오", res.YearGanji)
	assert.Equal(t, "경진", res.DayGanji)
	assert.Equal(t, 4, res.LunarMonth)
	assert.Equal(t, 21, res.LunarDay)
	assert.False(t, res.IsLeapMonth)
}

func TestQuery_WithoutHour(t *testing.T) {
	s := newService(t)

	res, err := s.QueryDate(context.Background(), 2024, 2, 29, nil)
	require.NoError(t, err)
	assert.False(t, res.HasHour)
	assert.Equal(t, "갑진", res.YearGanji)
	assert.Equal(t, "계해", res.DayGanji)
	// 2 月 → 节气月 12，年干 갑
	assert.Equal(t, xganji.MonthPillar(2, xganji.Gap), res.MonthPillar)

	// 有无小时是不同的缓存键
	_, err = s.QueryDate(context.Background(), 2024, 2, 29, intp(0))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Stats().Size)
}

func TestQuery_MissingParameter(t *testing.T) {
	s := newService(t)
	y, m := 1990, 5

	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"all missing", Request{}, "year"},
		{"month and day missing", Request{Year: &y}, "month"},
		{"day missing", Request{Year: &y, Month: &m}, "day"},
		{"hour alone", Request{Hour: intp(3)}, "year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Query(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrMissingParameter)
			var mpe *MissingParameterError
			require.ErrorAs(t, err, &mpe)
			assert.Equal(t, tt.field, mpe.Field)
			assert.True(t, IsClientError(err))
		})
	}
}

func TestQuery_OutOfRange(t *testing.T) {
	s := newService(t)

	tests := []struct {
		name     string
		y, m, d  int
		hour     *int
		field    string
		min, max int
	}{
		{"year below", 1840, 1, 1, nil, "year", MinYear, MaxYear},
		{"year above", 2101, 1, 1, nil, "year", MinYear, MaxYear},
		{"month zero", 1990, 0, 1, nil, "month", 1, 12},
		{"month 13", 1990, 13, 1, nil, "month", 1, 12},
		{"day zero", 1990, 5, 0, nil, "day", 1, 31},
		{"day 32", 1990, 5, 32, nil, "day", 1, 31},
		{"hour negative", 1990, 5, 15, intp(-1), "hour", 0, 23},
		{"hour 24", 1990, 5, 15, intp(24), "hour", 0, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.QueryDate(context.Background(), tt.y, tt.m, tt.d, tt.hour)
			require.ErrorIs(t, err, ErrOutOfRange)
			var oor *OutOfRangeError
			require.ErrorAs(t, err, &oor)
			assert.Equal(t, tt.field, oor.Field)
			assert.Equal(t, tt.min, oor.Min)
			assert.Equal(t, tt.max, oor.Max)
		})
	}
}

func TestQuery_InvalidDate(t *testing.T) {
	s := newService(t)

	for _, d := range [][3]int{{2023, 2, 30}, {2023, 2, 29}, {1900, 2, 29}, {1990, 4, 31}} {
		_, err := s.QueryDate(context.Background(), d[0], d[1], d[2], nil)
		require.ErrorIs(t, err, ErrInvalidDate, "%v", d)
		var ide *InvalidDateError
		require.ErrorAs(t, err, &ide)
		assert.Equal(t, d[2], ide.Day)
	}
	assert.Zero(t, s.Stats().Misses, "rejected queries never reach the cache")
}

func TestQuery_DataNotFound(t *testing.T) {
	s := newService(t)

	_, err := s.QueryDate(context.Background(), 1990, 5, 17, nil)
	require.ErrorIs(t, err, ErrDataNotFound)
	assert.True(t, IsClientError(err))
	assert.Zero(t, s.Stats().Size, "failures are not cached")
}

func TestQuery_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := NewMockDataset(ctrl)
	ds.EXPECT().Lookup(1990, 5, 15).Return(gyeongJinRecord(), true, nil).Times(1)

	s, err := New(ds)
	require.NoError(t, err)

	first, err := s.QueryDate(context.Background(), 1990, 5, 15, intp(14))
	require.NoError(t, err)
	second, err := s.QueryDate(context.Background(), 1990, 5, 15, intp(14))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, CacheStats{Size: 1, Hits: 1, Misses: 1}, s.Stats())
}

func TestQuery_Unavailable(t *testing.T) {
	cause := errors.New("dataset missing")

	t.Run("permanent", func(t *testing.T) {
		s := NewUnavailable(cause)
		for _, req := range []Request{NewRequest(1990, 5, 15, nil), {}, NewRequest(1, 1, 1, nil)} {
			_, err := s.Query(context.Background(), req)
			require.ErrorIs(t, err, ErrServiceUnavailable)
			require.ErrorIs(t, err, cause)
			assert.False(t, IsClientError(err))
		}
	})

	t.Run("nil cause", func(t *testing.T) {
		_, err := NewUnavailable(nil).QueryDate(context.Background(), 1990, 5, 15, nil)
		require.ErrorIs(t, err, ErrServiceUnavailable)
		require.ErrorIs(t, err, xpillar.ErrUnavailable)
	})

	t.Run("failed holder", func(t *testing.T) {
		s, err := New(xpillar.NewFailedHolder(cause))
		require.NoError(t, err)

		_, err = s.QueryDate(context.Background(), 1990, 5, 15, nil)
		var ue *UnavailableError
		require.ErrorAs(t, err, &ue)
		require.ErrorIs(t, err, cause)

		// 参数错误仍先于数据集状态报告
		_, err = s.QueryDate(context.Background(), 1840, 1, 1, nil)
		require.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("dataset error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ds := NewMockDataset(ctrl)
		ds.EXPECT().Lookup(gomock.Any(), gomock.Any(), gomock.Any()).Return(xpillar.DayRecord{}, false, cause)

		s, err := New(ds)
		require.NoError(t, err)
		_, err = s.QueryDate(context.Background(), 1990, 5, 15, nil)
		require.ErrorIs(t, err, ErrServiceUnavailable)
	})
}

func TestQuery_HolderRecovers(t *testing.T) {
	h := xpillar.NewFailedHolder(errors.New("boot"))
	s, err := New(h)
	require.NoError(t, err)

	_, err = s.QueryDate(context.Background(), 1990, 5, 15, nil)
	require.ErrorIs(t, err, ErrServiceUnavailable)

	h.Store(newDataset(t))
	res, err := s.QueryDate(context.Background(), 1990, 5, 15, nil)
	require.NoError(t, err)
	assert.Equal(t, "경진", res.DayGanji)
}

func TestQuery_ConcurrentSameKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := NewMockDataset(ctrl)

	var lookups atomic.Int32
	release := make(chan struct{})
	ds.EXPECT().Lookup(1990, 5, 15).DoAndReturn(func(int, int, int) (xpillar.DayRecord, bool, error) {
		lookups.Add(1)
		<-release
		return gyeongJinRecord(), true, nil
	}).MinTimes(1)

	s, err := New(ds)
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	results := make([]Result, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.QueryDate(context.Background(), 1990, 5, 15, intp(14))
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
	assert.Less(t, int(lookups.Load()), n)
	assert.Equal(t, 1, s.Stats().Size)
}

func TestQuery_TTLAndSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	cache, err := xexpire.New[Key, Result](xexpire.Config{MaxSize: 10}, xexpire.WithNow[Key, Result](clock))
	require.NoError(t, err)
	s := newService(t, WithCache(cache), WithTTL(time.Hour), WithSweepEvery(3))

	ctx := context.Background()
	_, err = s.QueryDate(ctx, 1990, 5, 15, nil)
	require.NoError(t, err)
	_, err = s.QueryDate(ctx, 1990, 5, 16, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Stats().Size)

	advance(2 * time.Hour)

	// 第三次查询顺带清理两个过期条目，随后写入新结果
	_, err = s.QueryDate(ctx, 2024, 2, 29, nil)
	require.NoError(t, err)
	st := s.Stats()
	assert.Equal(t, 1, st.Size)
	assert.Equal(t, uint64(2), cache.Stats().Expirations)

	advance(2 * time.Hour)
	assert.Equal(t, 1, s.Sweep())
	assert.Zero(t, s.Stats().Size)
}

func TestService_Purge(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := NewMockDataset(ctrl)
	ds.EXPECT().Lookup(1990, 5, 15).Return(gyeongJinRecord(), true, nil).Times(2)

	s, err := New(ds)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.QueryDate(ctx, 1990, 5, 15, nil)
	require.NoError(t, err)
	s.Purge()
	assert.Zero(t, s.Stats().Size)

	// 清空后重新查询数据集
	_, err = s.QueryDate(ctx, 1990, 5, 15, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.Stats().Misses)
}

func TestService_PurgeDuringQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := NewMockDataset(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	reloaded := gyeongJinRecord()
	reloaded.DayGanji = "reloaded"
	ds.EXPECT().Lookup(1990, 5, 15).DoAndReturn(func(int, int, int) (xpillar.DayRecord, bool, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return gyeongJinRecord(), true, nil
		}
		return reloaded, true, nil
	}).Times(2)

	s, err := New(ds)
	require.NoError(t, err)
	ctx := context.Background()

	before := make(chan Result, 1)
	go func() {
		res, err := s.QueryDate(ctx, 1990, 5, 15, nil)
		assert.NoError(t, err)
		before <- res
	}()
	<-started
	s.Purge()

	// 清空后的查询不能并入清空前开始的计算
	after := make(chan Result, 1)
	go func() {
		res, err := s.QueryDate(ctx, 1990, 5, 15, nil)
		assert.NoError(t, err)
		after <- res
	}()
	select {
	case res := <-after:
		assert.Equal(t, "reloaded", res.DayGanji)
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("query after Purge waited for the earlier in-flight lookup")
	}

	close(release)
	assert.Equal(t, "경진", (<-before).DayGanji)

	// 旧结果没有覆盖缓存
	res, err := s.QueryDate(ctx, 1990, 5, 15, nil)
	require.NoError(t, err)
	assert.Equal(t, "reloaded", res.DayGanji)
	assert.Equal(t, 1, s.Stats().Size)
	assert.Equal(t, uint64(1), s.Stats().Hits)
}

func TestService_PurgeDiscardsInFlightResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := NewMockDataset(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	ds.EXPECT().Lookup(1990, 5, 15).DoAndReturn(func(int, int, int) (xpillar.DayRecord, bool, error) {
		close(started)
		<-release
		return gyeongJinRecord(), true, nil
	}).Times(1)

	s, err := New(ds)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.QueryDate(context.Background(), 1990, 5, 15, intp(14))
		done <- err
	}()
	<-started
	s.Purge()
	close(release)

	require.NoError(t, <-done)
	assert.Zero(t, s.Stats().Size)
}

func TestQuery_Eviction(t *testing.T) {
	s := newService(t, WithCacheSize(1))
	ctx := context.Background()

	_, err := s.QueryDate(ctx, 1990, 5, 15, nil)
	require.NoError(t, err)
	_, err = s.QueryDate(ctx, 1990, 5, 16, nil)
	require.NoError(t, err)

	st := s.Stats()
	assert.Equal(t, 1, st.Size)
	assert.Equal(t, uint64(1), st.Evictions)
}

func TestQuery_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetFormat("json").SetLevel(xlog.LevelDebug).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	s := newService(t, WithLogger(logger))
	_, err = s.QueryDate(context.Background(), 1990, 5, 17, intp(3))
	require.ErrorIs(t, err, ErrDataNotFound)

	out := buf.String()
	assert.Contains(t, out, `"component":"xmanse"`)
	assert.Contains(t, out, `"msg":"date not covered by dataset"`)
	assert.Contains(t, out, `"date":"1990-05-17"`)
	assert.Contains(t, out, `"hour":3`)
}

func TestResult_JSON(t *testing.T) {
	s := newService(t)

	res, err := s.QueryDate(context.Background(), 1990, 5, 15, intp(14))
	require.NoError(t, err)
	data, err := json.Marshal(res)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "경오", got["yearGanji"])
	assert.Equal(t, "정진", got["monthGanji"])
	assert.Equal(t, "경진", got["dayGanji"])
	assert.Equal(t, "계미", got["hourGanji"])
	assert.Equal(t, "정", got["monthStem"])
	assert.Equal(t, "미", got["hourBranch"])
	assert.EqualValues(t, 14, got["hour"])
	assert.EqualValues(t, 21, got["lunarDay"])

	res, err = s.QueryDate(context.Background(), 1990, 5, 15, nil)
	require.NoError(t, err)
	data, err = json.Marshal(res)
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotContains(t, got, "hour")
	assert.NotContains(t, got, "hourGanji")
	assert.NotContains(t, got, "hourStem")
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "1990-05-15", Key{Year: 1990, Month: 5, Day: 15, Hour: -1}.String())
	assert.Equal(t, "1990-05-15T07", Key{Year: 1990, Month: 5, Day: 15, Hour: 7}.String())
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(&InvalidDateError{Year: 2023, Month: 2, Day: 30}))
	assert.True(t, IsClientError(&DataNotFoundError{}))
	assert.False(t, IsClientError(&UnavailableError{}))
	assert.False(t, IsClientError(errors.New("other")))
	assert.False(t, IsClientError(nil))
	assert.Equal(t, ErrServiceUnavailable.Error(), (&UnavailableError{}).Error())
}
