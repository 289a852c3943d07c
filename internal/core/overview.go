package core

type (
	// OverviewSummary aggregates income and spending over the whole ledger.
	OverviewSummary struct {
		TotalIncome  float64 `json:"totalIncome"`
		TotalExpense float64 `json:"totalExpense"`
		Balance      float64 `json:"balance"`
	}

	// SalaryPattern describes the salary cadence the backend inferred.
	SalaryPattern struct {
		Frequency        string  `json:"frequency"`
		Amount           float64 `json:"amount"`
		NextExpectedDate string  `json:"nextExpectedDate"`
	}

	// FinancialPlan is the backend's budget recommendation.
	FinancialPlan struct {
		SavingsTargetPercentage          float64 `json:"savingsTargetPercentage"`
		WeeklySavings                    float64 `json:"weeklySavings"`
		MonthlySavings                   float64 `json:"monthlySavings"`
		DailySpending                    float64 `json:"dailySpending"`
		WeeklySpending                   float64 `json:"weeklySpending"`
		RecommendedDailyBudget           float64 `json:"recommendedDailyBudget"`
		ProjectedBalanceBeforeNextSalary float64 `json:"projectedBalanceBeforeNextSalary"`
		DaysUntilNextSalary              int     `json:"daysUntilNextSalary"`
	}

	TopCategory struct {
		Category   string  `json:"category"`
		Amount     float64 `json:"amount"`
		Count      int     `json:"count"`
		Percentage float64 `json:"percentage"`
	}

	// Overview is the dashboard payload.
	Overview struct {
		Summary            OverviewSummary `json:"summary"`
		SalaryPattern      SalaryPattern   `json:"salaryPattern"`
		FinancialPlan      FinancialPlan   `json:"financialPlan"`
		TopCategories      []TopCategory   `json:"topCategories"`
		LatestTransactions []Transaction   `json:"latestTransactions"`
	}
)
