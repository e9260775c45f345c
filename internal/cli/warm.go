package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tbckr/edl/internal/endpoints"
	"github.com/tbckr/edl/internal/output"
	"github.com/tbckr/edl/internal/worker"
)

// feedStatus is the outcome of refreshing one vendor feed.
type feedStatus struct {
	URL   string `json:"url"`
	Bytes int    `json:"bytes"`
	Error string `json:"error,omitempty"`
}

type feedReport []feedStatus

// WritePlain writes one "ok <url>" or "fail <url>: <error>" line per feed.
func (r feedReport) WritePlain(w io.Writer) error {
	for _, s := range r {
		var err error
		if s.Error != "" {
			_, err = fmt.Fprintf(w, "fail %s: %s\n", s.URL, s.Error)
		} else {
			_, err = fmt.Fprintf(w, "ok %s\n", s.URL)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteTable writes the report as a feed/bytes/status table.
func (r feedReport) WriteTable(w io.Writer) error {
	tbl := output.NewWrappingTable(w, 30, 14)
	tbl.Header([]string{"Feed", "Bytes", "Status"})
	rows := make([][]string, 0, len(r))
	for _, s := range r {
		status := "ok"
		if s.Error != "" {
			status = output.StripANSI(s.Error)
		}
		rows = append(rows, []string{s.URL, fmt.Sprintf("%d", s.Bytes), status})
	}
	if err := tbl.Bulk(rows); err != nil {
		return err
	}
	return tbl.Render()
}

func newWarmCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "warm",
		Short:   "Download every vendor feed into the cache",
		GroupID: "lists",
		Long: `Download every vendor feed into the cache so the next lookups and HTTP
requests are served without contacting the vendors. Fresh cache entries are
kept; feeds are fetched with at most --concurrency parallel requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eps, err := endpoints.Load(d.cfg.EndpointsFile)
			if err != nil {
				return err
			}
			f, err := d.newFetcher()
			if err != nil {
				return err
			}
			urls := newRegistry(d.cfg, eps, f, nil, d.logger).FeedURLs()

			results := worker.Run(cmd.Context(), urls, d.cfg.Concurrency, f.Fetch)
			report := make(feedReport, 0, len(results))
			var failed int
			for _, r := range results {
				s := feedStatus{URL: r.Input, Bytes: len(r.Output)}
				if r.Err != nil {
					failed++
					s.Error = r.Err.Error()
					d.logger.Warn("feed refresh failed", "url", r.Input, "error", r.Err)
				}
				report = append(report, s)
			}
			if err := writeResult(cmd.OutOrStdout(), d, report); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d feeds failed", failed, len(urls))
			}
			return nil
		},
	}
}
