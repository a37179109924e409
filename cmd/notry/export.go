package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportIDs []int64

var exportCmd = &cobra.Command{
	Use:   "export DIR",
	Short: "Export notes as markdown files",
	Long: `Export notes into DIR as note-<id>-<slug>.md files, creating DIR if needed.
Without --id every note is exported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return &exitError{code: 1, err: fmt.Errorf("open storage: %w", err)}
		}
		defer store.Close()

		var ids []int64
		if cmd.Flags().Changed("id") {
			ids = exportIDs
		}
		res, err := store.Export(cmd.Context(), args[0], ids)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, id := range res.Missing {
			fmt.Fprintf(cmd.ErrOrStderr(), "not found: #%d\n", id)
		}
		for _, f := range res.Failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "write failed: %v\n", f)
		}
		fmt.Fprintf(out, "Exported %d notes → %s\n", res.Written, res.Dir)
		return nil
	},
}

func init() {
	exportCmd.Flags().Int64SliceVar(&exportIDs, "id", nil, "note ids to export (repeatable)")
	rootCmd.AddCommand(exportCmd)
}
