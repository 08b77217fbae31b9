package notifier

import (
	"fmt"

	"budgeteer/internal/core"
)

// Notification titles and fixed bodies.
const (
	TitleOverBudget  = "Budget Exceeded!"
	TitleUnderBudget = "Great Job!"
	TitlePeriodEnded = "Budget Period Ended!"
	TitleTest        = "Great Job!"

	BodyPeriodEndedOver  = "Time's up for this budget. Try to save a bit more next time."
	BodyPeriodEndedUnder = "Time's up for this budget. Great job, you met your goals!"
	BodyTest             = "You stayed within your daily budget. Keep it up!"
)

// OverBudgetBody reports by how much today's spending exceeded the daily
// allowance.
func OverBudgetBody(over core.Money, currency string) string {
	return fmt.Sprintf("You have exceeded your daily budget by %s %s.", over.Abs().Format(), currency)
}

// UnderBudgetBody reports today's surplus against the daily allowance.
func UnderBudgetBody(surplus core.Money, currency string) string {
	return fmt.Sprintf("You saved on your daily budget by %s %s.", surplus.Format(), currency)
}
