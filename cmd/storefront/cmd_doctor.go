package main

import (
	"fmt"
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/storefront/pkg/health"
)

func (c *cli) doctorCmd() *cobra.Command {
	var watch time.Duration
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check storage and API connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if watch > 0 {
				c.app.Health.Watch(cmd.Context(), watch, func(r health.Report) {
					_ = printReport(out, r)
					_, _ = fmt.Fprintln(out)
				})
				return nil
			}

			r := c.app.Health.Run(cmd.Context())
			if err := printReport(out, r); err != nil {
				return err
			}
			if !r.OK() {
				return errors.Errorf("%d check(s) failing", len(r.Failures()))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&watch, "watch", 0, "repeat the checks at this interval until interrupted")
	return cmd
}

func printReport(out io.Writer, r health.Report) error {
	return table(out, "CHECK\tSTATUS\tTOOK\tDETAIL", func(w io.Writer) {
		for _, res := range r.Results {
			status, detail := "ok", ""
			if !res.Healthy {
				status = "FAIL"
			}
			if res.Err != nil {
				detail = res.Err.Error()
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Name, status, res.Duration.Round(time.Millisecond), detail)
		}
	})
}
