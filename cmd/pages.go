package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/sbc/filter"
	"github.com/s0up4200/sbc/scrapbox"
)

var (
	// Command flags
	skip       int
	limit      int
	batchSize  int
	filterExpr string
)

// pagesCmd represents the pages command
var pagesCmd = &cobra.Command{
	Use:   "pages <project>",
	Short: "List pages of a project",
	Long: `List one slice of a project's pages, selected with --skip and --limit.

Arguments:
  project   Project name`,
	Args: cobra.ExactArgs(1),
	RunE: runPages,
}

// bulkPagesCmd represents the bulk-pages command
var bulkPagesCmd = &cobra.Command{
	Use:   "bulk-pages <project>",
	Short: "List every page of a project",
	Long: `List every page of a project. Pages are fetched in batches of
--batch-size (default from bulk.batch_size) and progress is reported on stderr.

Arguments:
  project   Project name`,
	Args: cobra.ExactArgs(1),
	RunE: runBulkPages,
}

func init() {
	pagesCmd.Flags().IntVar(&skip, "skip", 0, "number of pages to skip")
	pagesCmd.Flags().IntVar(&limit, "limit", 100, "maximum number of pages to return")
	pagesCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression, e.g. 'Views > 100 and not Pinned'")

	bulkPagesCmd.Flags().IntVar(&batchSize, "batch-size", scrapbox.DefaultBatchSize, "number of pages fetched per request")
	bulkPagesCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression, e.g. 'Updated > daysAgo(30)'")

	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(bulkPagesCmd)
}

func runPages(cmd *cobra.Command, args []string) error {
	project := args[0]

	pageFilter, err := compileFilter()
	if err != nil {
		return err
	}

	logger.Debug().Str("project", project).Int("skip", skip).Int("limit", limit).Msg("Listing pages")

	list, err := client.GetPages(cmd.Context(), project, skip, limit)
	if err != nil {
		return err
	}

	return showPageList(cmd, list, pageFilter)
}

func runBulkPages(cmd *cobra.Command, args []string) error {
	project := args[0]

	size := batchSize
	if !cmd.Flags().Changed("batch-size") {
		size = cfg.Bulk.BatchSize
	}

	pageFilter, err := compileFilter()
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, "Fetching all pages...")

	list, err := client.GetAllPages(cmd.Context(), project, size, func(fetched, total int) {
		fmt.Fprintf(errOut, "Fetched %d/%d pages\n", fetched, total)
	})
	if err != nil {
		return err
	}

	logger.Debug().Str("project", project).Int("pages", list.Count).Msg("Fetched all pages")

	return showPageList(cmd, list, pageFilter)
}

// compileFilter compiles --filter, returning nil when it is unset
func compileFilter() (*filter.Filter, error) {
	if filterExpr == "" {
		return nil, nil
	}

	pageFilter, err := filter.Compile(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return pageFilter, nil
}

func showPageList(cmd *cobra.Command, list *scrapbox.PageList, pageFilter *filter.Filter) error {
	if pageFilter == nil {
		printPageList(cmd, list, list.Pages, false)
		return nil
	}

	matched, err := pageFilter.Apply(list.Pages)
	if err != nil {
		return err
	}
	printPageList(cmd, list, matched, true)
	return nil
}
