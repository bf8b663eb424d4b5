package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xmanse/pkg/business/xmanse"
	"github.com/omeyang/xmanse/pkg/observability/xmetrics"
)

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "查询四柱",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Aliases: []string{"y"}, Usage: "公历年 1841..2100"},
			&cli.IntFlag{Name: "month", Aliases: []string{"m"}, Usage: "公历月 1..12"},
			&cli.IntFlag{Name: "day", Usage: "公历日 1..31"},
			&cli.IntFlag{Name: "hour", Usage: "小时 0..23，可省略"},
			&cli.BoolFlag{Name: "json", Usage: "以 JSON 输出"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			svc, _, err := s.newService(ctx, xmetrics.NoopObserver{})
			if err != nil {
				return err
			}
			res, err := svc.Query(ctx, requestFromFlags(cmd))
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return writeJSON(cmd.Root().Writer, res)
			}
			writeResult(cmd.Root().Writer, res)
			return nil
		},
	}
}

// requestFromFlags 未设置的 flag 保持为 nil，由服务报告缺参。
func requestFromFlags(cmd *cli.Command) xmanse.Request {
	var req xmanse.Request
	if cmd.IsSet("year") {
		v := cmd.Int("year")
		req.Year = &v
	}
	if cmd.IsSet("month") {
		v := cmd.Int("month")
		req.Month = &v
	}
	if cmd.IsSet("day") {
		v := cmd.Int("day")
		req.Day = &v
	}
	if cmd.IsSet("hour") {
		v := cmd.Int("hour")
		req.Hour = &v
	}
	return req
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeResult(w io.Writer, res xmanse.Result) {
	date := fmt.Sprintf("%04d-%02d-%02d", res.Year, res.Month, res.Day)
	if res.HasHour {
		date += fmt.Sprintf(" %02d시", res.Hour)
	}
	fmt.Fprintf(w, "날짜   %s\n", date)
	fmt.Fprintf(w, "년주   %s (%s)\n", res.YearGanji, res.YearPillar.Hanja())
	fmt.Fprintf(w, "월주   %s (%s)\n", res.MonthPillar, res.MonthPillar.Hanja())
	fmt.Fprintf(w, "일주   %s (%s)\n", res.DayGanji, res.DayPillar.Hanja())
	if res.HasHour {
		fmt.Fprintf(w, "시주   %s (%s)\n", res.HourPillar, res.HourPillar.Hanja())
	}
	leap := ""
	if res.IsLeapMonth {
		leap = " (윤달)"
	}
	fmt.Fprintf(w, "음력   %d월 %d일%s\n", res.LunarMonth, res.LunarDay, leap)
}
