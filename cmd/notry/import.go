package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/notry/internal/notes"
)

var importExts []string

var importCmd = &cobra.Command{
	Use:   "import DIR",
	Short: "Import the text files of a directory as notes",
	Long: `Import every allowlisted file directly inside DIR (no recursion). Each file
becomes a note titled with its file name stem. Files whose title and content
were imported before are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exts := importExts
		if len(exts) == 0 {
			exts = cfg.Import.Extensions
		}
		allow := notes.NewAllowlist(exts)

		store, err := openStore()
		if err != nil {
			return &exitError{code: 1, err: fmt.Errorf("open storage: %w", err)}
		}
		defer store.Close()

		sum, err := store.ImportDir(cmd.Context(), args[0], allow)
		out := cmd.OutOrStdout()
		for _, f := range sum.Failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "unreadable: %s: %v\n", f.Path, f.Err)
		}
		fmt.Fprintf(out, "Imported %d new, skipped %d duplicates, %d failed\n", sum.Imported, sum.Skipped, len(sum.Failed))
		return err
	},
}

func init() {
	importCmd.Flags().StringSliceVar(&importExts, "ext", nil, "file extensions to accept (default from config)")
	rootCmd.AddCommand(importCmd)
}
