package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/ladle"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ladle",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ladle version %s\n", strings.TrimSpace(ladle.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
