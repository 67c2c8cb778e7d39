package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the close-event journal",
	Long: `Query and display close events from a SQLite journal.

Subcommands:
  trade  - List every close slice of a specific trade by ID
  today  - List close events recorded today
  day    - List close events recorded on a specific day

Examples:
  papertrade journal trade <trade-id>
  papertrade journal today
  papertrade journal day 2024-01-15`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "List every close slice of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List close events recorded today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List close events recorded on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./papertrade.sqlite", "path to SQLite journal DB")
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.GetTradeCloses(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	printCloses(recs)
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return listDay(time.Now().Local().Format("2006-01-02"))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listDay(args[0])
}

func listDay(day string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListClosesBetween(start, end)
	if err != nil {
		return fmt.Errorf("query closes: %w", err)
	}

	printCloses(recs)
	return nil
}

func printCloses(recs []journal.CloseRecord) {
	total := 0.0
	for _, r := range recs {
		fmt.Printf("%s  #%d %s  %s %.0f @ %.5f -> %.5f  P/L %.2f (%s)\n",
			r.CloseTime.Format("2006-01-02 15:04"),
			r.TradeIndex, r.TradeID,
			r.Action, r.Units, r.EntryPrice, r.ClosePrice,
			r.RealizedPL, r.Reason)
		total += r.RealizedPL
	}
	fmt.Printf("\n%d close events, realized P/L %.2f\n", len(recs), total)
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
