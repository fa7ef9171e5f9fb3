package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"abix/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the abix version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("abix", version.Version)
		if version.GitCommit != "" {
			fmt.Println("commit:", version.GitCommit)
		}
		if version.BuildDate != "" {
			fmt.Println("built:", version.BuildDate)
		}
	},
}
