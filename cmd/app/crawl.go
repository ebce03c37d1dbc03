package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"webcrawler/internal/app/domain"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl <seed-url>",
		Short: "Crawl one domain and print the urls found as JSON",
		Example: `  webcrawler crawl https://example.com
  webcrawler crawl --cache-backend memory --debug https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawl,
	}
}

func runCrawl(cmd *cobra.Command, args []string) error {
	d, err := domain.New(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	rs, err := a.cr.Crawl(cmd.Context(), d)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rs)
}
