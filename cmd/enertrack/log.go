package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the project activity log, newest first",
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVar(&logLimit, "limit", 250, "maximum entries to show")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)
	entries := st.LogEntries(logLimit)
	if len(entries) == 0 {
		fmt.Println("No activity recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s\n", e.TS, e.Msg)
	}
	return nil
}
