package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"satang/internal/api"
	"satang/internal/core"
	"satang/internal/filter"
	"satang/internal/resource"
)

// failureError turns a resource failure into a command error with the
// retry affordance. Auth failures also advertise sign-out, since the
// stored token may be stale relative to the backend's view.
func failureError(message string, kind api.Kind) error {
	lines := []string{message, "Run the command again to retry."}
	if kind == api.KindAuthFailed {
		lines = append(lines, "If it keeps failing, run 'satang logout' and sign in again.")
	}
	if kind == api.KindNoToken {
		lines = []string{message, "Run 'satang login' first."}
	}
	return errors.New(strings.Join(lines, "\n"))
}

func coreSettingsUpdate(pct float64) core.SettingsUpdate {
	return core.SettingsUpdate{SavingsPercentage: &pct}
}

func (a *app) runOverview(ctx context.Context) error {
	res := resource.NewOverview(a.client, a.token(), a.logger)
	res.Refetch(ctx)

	snapshot := res.Snapshot()
	if snapshot.Phase == resource.PhaseFailed {
		return failureError(snapshot.Error, snapshot.Kind)
	}
	overview := *snapshot.Data

	fmt.Println("Summary")
	fmt.Printf("  Income:  %12.2f\n", overview.Summary.TotalIncome)
	fmt.Printf("  Expense: %12.2f\n", overview.Summary.TotalExpense)
	fmt.Printf("  Balance: %12.2f\n", overview.Summary.Balance)

	if overview.SalaryPattern.Frequency != "" {
		fmt.Printf("\nSalary: %.2f %s, next expected %s\n",
			overview.SalaryPattern.Amount,
			overview.SalaryPattern.Frequency,
			overview.SalaryPattern.NextExpectedDate)
	}

	plan := overview.FinancialPlan
	fmt.Println("\nPlan")
	fmt.Printf("  Savings target:          %.0f%%\n", plan.SavingsTargetPercentage)
	fmt.Printf("  Monthly savings:         %12.2f\n", plan.MonthlySavings)
	fmt.Printf("  Recommended daily spend: %12.2f\n", plan.RecommendedDailyBudget)
	fmt.Printf("  Days until next salary:  %d\n", plan.DaysUntilNextSalary)

	if len(overview.TopCategories) > 0 {
		fmt.Println("\nTop categories")
		for _, c := range overview.TopCategories {
			fmt.Printf("  %-20s %12.2f  (%d items, %.1f%%)\n", c.Category, c.Amount, c.Count, c.Percentage)
		}
	}

	if len(overview.LatestTransactions) > 0 {
		fmt.Println("\nLatest transactions")
		for _, tx := range overview.LatestTransactions {
			printTransaction(tx)
		}
	}
	return nil
}

func (a *app) runList(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("list", flag.ContinueOnError)
	typeFlag := flags.String("type", filter.TypeAll, "all, income or expense")
	monthFlag := flags.String("month", filter.MonthAll, "month as YYYY-MM, or all")
	categoryFlag := flags.String("category", "", "comma-separated category names")
	monthsFlag := flags.Bool("months", false, "list the selectable months instead of transactions")
	categoriesFlag := flags.Bool("categories", false, "list the known categories instead of transactions")
	if err := flags.Parse(args); err != nil {
		return err
	}

	res := resource.NewTransactions(a.client, a.token(), a.logger)
	res.Refetch(ctx)

	snapshot := res.Snapshot()
	if snapshot.Phase == resource.PhaseFailed {
		return failureError(snapshot.Error, snapshot.Kind)
	}
	transactions := *snapshot.Data

	if *categoriesFlag || *monthsFlag {
		if *categoriesFlag {
			for _, c := range filter.Categories(transactions) {
				fmt.Println(c)
			}
		}
		if *monthsFlag {
			for _, line := range monthOptionLines(transactions) {
				fmt.Println(line)
			}
		}
		return nil
	}

	f := filter.New()
	f.Type = *typeFlag
	f.Month = *monthFlag
	if *categoryFlag != "" {
		for _, c := range strings.Split(*categoryFlag, ",") {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				f.Categories = append(f.Categories, trimmed)
			}
		}
	}

	filtered := f.Apply(transactions)
	for _, tx := range filtered {
		printTransaction(tx)
	}

	if f.HasActive() {
		fmt.Printf("\n%d of %d transactions (%d filters active)\n", len(filtered), len(transactions), f.ActiveCount())
	} else {
		fmt.Printf("\n%d transactions\n", len(transactions))
	}
	return nil
}

func (a *app) runProfile(ctx context.Context) error {
	res := resource.NewProfile(a.client, a.token(), a.cache, a.logger)
	res.Refetch(ctx)

	snapshot := res.Snapshot()
	if snapshot.Phase == resource.PhaseFailed {
		return failureError(snapshot.Error, snapshot.Kind)
	}
	p := *snapshot.Data

	fmt.Printf("Name:    %s %s\n", p.FirstName, p.LastName)
	fmt.Printf("Email:   %s\n", p.Email)
	fmt.Printf("Savings: %.0f%%\n", p.SavingsPercentage)
	if p.Avatar != "" {
		fmt.Printf("Avatar:  %s\n", p.Avatar)
	}
	return nil
}

// monthOptionLines renders the selectable months, newest first, with
// the all-pass option leading.
func monthOptionLines(transactions []core.Transaction) []string {
	options := filter.Months(transactions)
	lines := make([]string, 0, len(options))
	for _, o := range options {
		lines = append(lines, fmt.Sprintf("%-8s %s", o.Value, o.Label))
	}
	return lines
}

func printTransaction(tx core.Transaction) {
	sign := "-"
	if tx.Type == core.Income {
		sign = "+"
	}
	fmt.Printf("  #%-6d %s  %s%10.2f  %-15s %s\n", tx.ID, tx.Date, sign, tx.Amount, tx.Category, tx.Description)
}
