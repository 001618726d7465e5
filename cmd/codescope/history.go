package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"codescope/internal/config"
	"codescope/internal/history"
	"codescope/internal/output"
)

var (
	historyRoot  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded analysis runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the stored report of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyRoot, "root", ".",
		"Project root whose history store to open")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list (0 = all)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	root, err := filepath.Abs(historyRoot)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	return history.Open(historyPath(cfg, root), newLogger(cfg))
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background(), historyLimit)
	if err != nil {
		return err
	}

	data, err := output.EncodeIndented(output.Document{"runs": runs}, "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	_, report, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Println(string(report))
	return nil
}
