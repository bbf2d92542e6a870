package output

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"idle-profit/core/profit"
)

// CLIFormatter renders a human-readable table
type CLIFormatter struct{}

// Format returns the format type
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the report as an aligned table
func (f *CLIFormatter) Render(w io.Writer, report *Report) error {
	r := report.Profit
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Action:\t%s\n", r.ActionHrid)
	fmt.Fprintf(tw, "Duration:\t%.2fs\n", r.Timing.ActionSeconds)
	fmt.Fprintf(tw, "Actions/hour:\t%s\n", humanize.CommafWithDigits(r.ActionsPerHour, 1))
	if r.SuccessRate < 1 {
		fmt.Fprintf(tw, "Success rate:\t%.1f%%\n", r.SuccessRate*100)
	}
	fmt.Fprintln(tw)

	if len(r.Revenues) > 0 {
		fmt.Fprintln(tw, "REVENUE\tQTY\tUNIT\tAMOUNT")
		for _, line := range r.Revenues {
			writeLine(tw, line)
		}
		fmt.Fprintln(tw)
	}
	if len(r.Costs) > 0 {
		fmt.Fprintln(tw, "COST\tQTY\tUNIT\tAMOUNT")
		for _, line := range r.Costs {
			writeLine(tw, line)
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintf(tw, "Revenue/hour:\t%s\n", coins(r.RevenuePerHour))
	fmt.Fprintf(tw, "Cost/hour:\t%s\n", coins(r.CostPerHour))
	if !r.TeaCostPerHour.IsZero() {
		fmt.Fprintf(tw, "Consumables/hour:\t%s\n", coins(r.TeaCostPerHour))
	}
	fmt.Fprintf(tw, "Profit/hour:\t%s\n", coins(r.ProfitPerHour))

	if report.Limit != nil {
		if report.Limit.Bounded {
			fmt.Fprintf(tw, "Queue bound:\t%s attempts (%s)\n",
				humanize.Comma(report.Limit.MaxAttempts), report.Limit.Binding)
		} else {
			fmt.Fprintf(tw, "Queue bound:\tunbounded\n")
		}
	}
	if r.PriceMissing {
		fmt.Fprintln(tw, "Warning:\tsome items had no price and were valued at 0")
	}
	if report.SnapshotID != "" {
		fmt.Fprintf(tw, "Snapshot:\t%s (%s old)\n", report.SnapshotID, report.SnapshotAge.Round(time.Second))
	}
	return tw.Flush()
}

func writeLine(w io.Writer, line profit.LineItem) {
	fmt.Fprintf(w, "%s (%s)\t%.3f\t%s\t%s\n",
		line.ItemHrid, line.Label, line.Quantity, coins(line.UnitPrice), coins(line.Amount))
}

// coins renders a coin amount with thousands separators
func coins(d decimal.Decimal) string {
	return humanize.CommafWithDigits(d.InexactFloat64(), 2)
}
