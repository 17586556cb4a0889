package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/sbc/scrapbox"
)

// validateOutputPath checks that path can be written before anything is
// fetched: its parent directory must exist and path must not be a directory.
func validateOutputPath(path string) error {
	if path == "" {
		return nil
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("output path %s is a directory", path)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("output directory %s does not exist", dir)
		}
		return fmt.Errorf("failed to check output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %s is not a directory", dir)
	}
	return nil
}

// writeOutput writes data to path, or to stdout when path is empty
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s\n", path)
	return nil
}

// printPageList prints the listing header followed by one line per page.
// shown is the subset left after filtering, or list.Pages when unfiltered.
func printPageList(cmd *cobra.Command, list *scrapbox.PageList, shown []scrapbox.PageSummary, filtered bool) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Project: %s\n", list.ProjectName)
	fmt.Fprintf(out, "Total pages: %d\n", list.Count)
	fmt.Fprintf(out, "Skip: %d, Limit: %d\n", list.Skip, list.Limit)
	if filtered {
		fmt.Fprintf(out, "Matched: %d of %d\n", len(shown), len(list.Pages))
	}

	if len(shown) == 0 {
		return
	}

	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, page := range shown {
		fmt.Fprintf(out, "• %s", page.Title)
		if page.IsPinned() {
			fmt.Fprint(out, " [PINNED]")
		}
		fmt.Fprintf(out, " (views: %d, linked: %d", page.Views, page.Linked)
		if updated := page.UpdatedAt(); !updated.IsZero() {
			fmt.Fprintf(out, ", updated: %s", updated.Format("2006-01-02"))
		}
		fmt.Fprintln(out, ")")
	}
}
