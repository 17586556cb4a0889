package cmd

import (
	"github.com/spf13/cobra"
)

var fileOutputPath string

// fileCmd represents the file command
var fileCmd = &cobra.Command{
	Use:   "file <reference>",
	Short: "Download a file attachment",
	Long: `Download a file attachment and write its raw bytes to stdout or --output.

The reference may be a bare file ID (60190edf1176d9001c13f8e8.png), a
Scrapbox file URL (https://scrapbox.io/files/<id>.png) or a Gyazo URL
(https://gyazo.com/<hash>). Gyazo videos are not supported.

Arguments:
  reference   File ID or URL`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	fileCmd.Flags().StringVarP(&fileOutputPath, "output", "o", "", "write the file here instead of stdout")

	rootCmd.AddCommand(fileCmd)
}

func runFile(cmd *cobra.Command, args []string) error {
	if err := validateOutputPath(fileOutputPath); err != nil {
		return err
	}

	ref, err := client.ClassifyReference(args[0])
	if err != nil {
		return err
	}
	logger.Debug().Stringer("strategy", ref.Strategy).Str("reference", args[0]).Msg("Downloading file")

	data, err := client.GetFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return writeOutput(cmd, fileOutputPath, data)
}
