package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lualint/internal/resolve"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk manifest cache",
}

var cacheDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete every cached import manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := resolve.OpenDiskCache("lualint")
		if err != nil {
			return err
		}
		if err := dc.DropAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "manifest cache dropped")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDropCmd)
}
