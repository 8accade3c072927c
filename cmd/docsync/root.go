package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "docsync",
		Short:         "Sync Feishu documents into a Notion database",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "config.yaml", "Configuration file path")

	rootCmd.AddCommand(newServeCommand(&configFlag))
	rootCmd.AddCommand(newProcessCommand(&configFlag))
	rootCmd.AddCommand(newRetryCommand(&configFlag))
	rootCmd.AddCommand(newScanCommand(&configFlag))

	return rootCmd
}
