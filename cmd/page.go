package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var outputPath string

// pageCmd represents the page command
var pageCmd = &cobra.Command{
	Use:   "page <project> <title>",
	Short: "Show a page's details and lines",
	Long: `Show a page's metadata followed by the text of each line.

Arguments:
  project   Project name
  title     Page title`,
	Args: cobra.ExactArgs(2),
	RunE: runPage,
}

// textCmd represents the text command
var textCmd = &cobra.Command{
	Use:   "text <project> <title>",
	Short: "Print a page as plain text",
	Long: `Print the plain-text rendering of a page, or save it with --output.

Arguments:
  project   Project name
  title     Page title`,
	Args: cobra.ExactArgs(2),
	RunE: runText,
}

// iconCmd represents the icon command
var iconCmd = &cobra.Command{
	Use:   "icon <project> <title>",
	Short: "Print the URL of a page's icon",
	Long: `Resolve the image a page's icon points to and print its URL.

Arguments:
  project   Project name
  title     Page title`,
	Args: cobra.ExactArgs(2),
	RunE: runIcon,
}

func init() {
	textCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the text to this file instead of stdout")

	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(iconCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	page, err := client.GetPage(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Title: %s\n", page.Title)
	fmt.Fprintf(out, "ID: %s\n", page.ID)
	fmt.Fprintf(out, "Lines: %d\n", page.LinesCount)
	fmt.Fprintf(out, "Characters: %d\n", page.CharsCount)
	fmt.Fprintf(out, "Views: %d\n", page.Views)
	fmt.Fprintf(out, "Created: %s\n", formatTime(page.CreatedAt()))
	fmt.Fprintf(out, "Updated: %s\n", formatTime(page.UpdatedAt()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, page.Text())
	return nil
}

func runText(cmd *cobra.Command, args []string) error {
	if err := validateOutputPath(outputPath); err != nil {
		return err
	}

	text, err := client.GetPageText(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	if outputPath == "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return writeOutput(cmd, outputPath, []byte(text))
}

func runIcon(cmd *cobra.Command, args []string) error {
	iconURL, err := client.GetPageIconURL(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), iconURL)
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
