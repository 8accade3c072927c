package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"docsync/internal/service"
)

func newProcessCommand(configPath *string) *cobra.Command {
	var taskID int64

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process pending tasks once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if taskID > 0 {
				result, err := a.sync.ProcessTask(cmd.Context(), taskID)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			}

			stats, err := a.sync.ProcessPending(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, stats)
		},
	}

	cmd.Flags().Int64Var(&taskID, "task", 0, "Process a single task by id")
	return cmd
}

func newRetryCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [ids...]",
		Short: "Requeue failed tasks, or every failed task when no ids are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("parse task id %q: %w", arg, err)
				}
				ids = append(ids, id)
			}

			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			requeued, err := a.tasks.RetryFailed(cmd.Context(), ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "requeued %d task(s): %v\n", len(requeued), requeued)
			return nil
		},
	}
}

func newScanCommand(configPath *string) *cobra.Command {
	var req service.ScanRequest

	cmd := &cobra.Command{
		Use:   "scan <folder>",
		Short: "List the documents in a source folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			req.Folder = args[0]
			result, err := a.tasks.ScanFolder(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().IntVar(&req.MaxDepth, "depth", 0, "Maximum folder depth")
	cmd.Flags().BoolVar(&req.UseCache, "cache", true, "Use the folder listing cache")
	cmd.Flags().BoolVar(&req.Enqueue, "enqueue", false, "Create sync tasks for the documents found")
	cmd.Flags().BoolVar(&req.ForceResync, "force", false, "Resync documents that already succeeded")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
