package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/urfave/cli/v3"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xmanse/pkg/business/xmanse"
	"github.com/omeyang/xmanse/pkg/calendar/xpillar"
	"github.com/omeyang/xmanse/pkg/observability/xmetrics"
)

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "压测查询路径并输出缓存统计",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "queries", Aliases: []string{"n"}, Usage: "查询总数", Value: 10000},
			&cli.IntFlag{Name: "concurrency", Aliases: []string{"p"}, Usage: "并发数", Value: 4},
			&cli.IntFlag{Name: "dates", Usage: "参与查询的不同日期数", Value: 500},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			n, workers, spread := cmd.Int("queries"), cmd.Int("concurrency"), cmd.Int("dates")
			if n <= 0 || workers <= 0 || spread <= 0 {
				return &usageError{msg: "queries, concurrency and dates must be positive"}
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			return runBench(ctx, s, cmd.Root().Writer, n, workers, spread)
		},
	}
}

func runBench(ctx context.Context, s *session, w io.Writer, n, workers, spread int) error {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.WithoutCancel(ctx)) }()

	obs, err := xmetrics.NewOTelObserver(xmetrics.WithMeterProvider(mp))
	if err != nil {
		return err
	}
	svc, holder, err := s.newService(ctx, obs)
	if err != nil {
		return err
	}
	if !holder.Available() {
		return &xmanse.UnavailableError{Cause: holder.Err()}
	}
	reg, err := svc.RegisterMetrics(mp.Meter(xmetrics.InstrumentationName))
	if err != nil {
		return err
	}
	defer func() { _ = reg.Unregister() }()

	dates := sampleDates(holder.Dataset(), spread)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for worker := range workers {
		g.Go(func() error {
			for i := worker; i < n; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				d := dates[i%len(dates)]
				var hour *int
				if h := i % 25; h < 24 {
					hour = &h
				}
				if _, err := svc.QueryDate(gctx, d.Year, d.Month, d.Day, hour); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return err
	}
	writeBench(w, n, workers, elapsed, rm)
	return nil
}

// sampleDates 从数据集中等距取至多 limit 个日期。
func sampleDates(ds *xpillar.Dataset, limit int) []xpillar.Date {
	all := make([]xpillar.Date, 0, ds.Len())
	for d := range ds.All() {
		all = append(all, d)
	}
	if len(all) <= limit {
		return all
	}
	step := len(all) / limit
	out := make([]xpillar.Date, 0, limit)
	for i := 0; i < len(all) && len(out) < limit; i += step {
		out = append(out, all[i])
	}
	return out
}

func writeBench(w io.Writer, n, workers int, elapsed time.Duration, rm metricdata.ResourceMetrics) {
	fmt.Fprintf(w, "queries      %d (%d workers)\n", n, workers)
	fmt.Fprintf(w, "elapsed      %s\n", elapsed.Round(time.Microsecond))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(w, "throughput   %.0f q/s\n", float64(n)/secs)
	}
	if count, sum, ok := durationStats(rm); ok && count > 0 {
		fmt.Fprintf(w, "mean         %s\n", time.Duration(sum/float64(count)*float64(time.Second)).Round(time.Nanosecond))
	}

	hits := cacheValues(rm, "xmanse.cache.hits")
	misses := cacheValues(rm, "xmanse.cache.misses")
	evictions := cacheValues(rm, "xmanse.cache.evictions")
	sizes := cacheValues(rm, "xmanse.cache.size")

	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-12s size=%d hits=%d misses=%d evictions=%d\n",
			name, sizes[name], hits[name], misses[name], evictions[name])
	}
}

// durationStats 汇总 xmanse.operation.duration 直方图。
func durationStats(rm metricdata.ResourceMetrics) (count uint64, sum float64, ok bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "xmanse.operation.duration" {
				continue
			}
			hist, isHist := m.Data.(metricdata.Histogram[float64])
			if !isHist {
				continue
			}
			for _, dp := range hist.DataPoints {
				count += dp.Count
				sum += dp.Sum
			}
			ok = true
		}
	}
	return count, sum, ok
}

// cacheValues 按 cache 属性取 int64 指标的值。
func cacheValues(rm metricdata.ResourceMetrics, name string) map[string]int64 {
	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			var points []metricdata.DataPoint[int64]
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				points = data.DataPoints
			case metricdata.Gauge[int64]:
				points = data.DataPoints
			}
			for _, dp := range points {
				if v, found := dp.Attributes.Value("cache"); found {
					out[v.AsString()] = dp.Value
				}
			}
		}
	}
	return out
}
