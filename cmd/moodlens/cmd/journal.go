package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Write and read journal entries",
}

var journalAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add an entry tagged with the current mood",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJournalAdd,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries",
	RunE:  runJournalList,
}

func init() {
	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalListCmd)
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	e, ok, err := a.Tracker.SubmitJournal(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("%snothing to save — entry is empty%s\n", colorGray, colorReset)
		return nil
	}
	tag := "no mood"
	if e.Mood != nil {
		tag = string(*e.Mood)
	}
	fmt.Printf("⚡ journal entry saved (%s)\n", tag)
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	a, err := openApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Print(formatJournal(a.Tracker.Snapshot().Journal))
	return nil
}
