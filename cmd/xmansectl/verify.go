package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xmanse/pkg/business/xmanse"
	"github.com/omeyang/xmanse/pkg/calendar/xpillar"
)

// maxListed 文本输出中每类问题最多列出的日期数。
const maxListed = 10

// verifySummary verify 的 JSON 输出。
type verifySummary struct {
	Path          string   `json:"path"`
	Fingerprint   string   `json:"fingerprint"`
	FirstYear     int      `json:"firstYear"`
	LastYear      int      `json:"lastYear"`
	Days          int      `json:"days"`
	Skipped       int      `json:"skipped"`
	Gaps          int      `json:"gaps"`
	NonCanonical  []string `json:"nonCanonical"`
	Discontinuous []string `json:"discontinuous"`
	OK            bool     `json:"ok"`
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "检查数据集完整性",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "以 JSON 输出"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			ds, err := xpillar.Load(ctx, s.cfg.Dataset.Path, s.loadOptions()...)
			if err != nil {
				return &xmanse.UnavailableError{Cause: err}
			}

			sum := summarize(s.cfg.Dataset.Path, ds)
			w := cmd.Root().Writer
			if cmd.Bool("json") {
				if err := writeJSON(w, sum); err != nil {
					return err
				}
			} else {
				writeSummary(w, sum)
			}
			if !sum.OK {
				return &exitError{code: exitFailure}
			}
			return nil
		},
	}
}

func summarize(path string, ds *xpillar.Dataset) verifySummary {
	rep := ds.Verify()
	cov := ds.Coverage()
	return verifySummary{
		Path:          path,
		Fingerprint:   fmt.Sprintf("%016x", ds.Fingerprint()),
		FirstYear:     cov.FirstYear,
		LastYear:      cov.LastYear,
		Days:          rep.Days,
		Skipped:       ds.Skipped(),
		Gaps:          rep.Gaps,
		NonCanonical:  dateStrings(rep.NonCanonical),
		Discontinuous: dateStrings(rep.Discontinuous),
		OK:            rep.OK(),
	}
}

func dateStrings(dates []xpillar.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

func writeSummary(w io.Writer, sum verifySummary) {
	fmt.Fprintf(w, "dataset      %s\n", sum.Path)
	fmt.Fprintf(w, "fingerprint  %s\n", sum.Fingerprint)
	fmt.Fprintf(w, "coverage     %d..%d (%d days, %d gaps)\n", sum.FirstYear, sum.LastYear, sum.Days, sum.Gaps)
	fmt.Fprintf(w, "skipped      %d\n", sum.Skipped)
	listDates(w, "non-canonical", sum.NonCanonical)
	listDates(w, "discontinuous", sum.Discontinuous)
	if sum.OK {
		fmt.Fprintln(w, "result       ok")
	} else {
		fmt.Fprintln(w, "result       FAILED")
	}
}

func listDates(w io.Writer, label string, dates []string) {
	if len(dates) == 0 {
		return
	}
	shown := dates
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	fmt.Fprintf(w, "%-12s %d: %v", label, len(dates), shown)
	if len(dates) > maxListed {
		fmt.Fprint(w, " ...")
	}
	fmt.Fprintln(w)
}
