package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseCategory is the kind of reimbursable cost being claimed.
type ExpenseCategory string

const (
	ExpenseFuel        ExpenseCategory = "fuel"
	ExpenseWash        ExpenseCategory = "wash"
	ExpenseTrainTicket ExpenseCategory = "train_ticket"
	ExpenseSeasonPass  ExpenseCategory = "season_pass"
	ExpenseTaxi        ExpenseCategory = "taxi"
	ExpenseRideshare   ExpenseCategory = "rideshare"
)

// Valid reports whether ec is one of the known expense categories.
func (ec ExpenseCategory) Valid() bool {
	switch ec {
	case ExpenseFuel, ExpenseWash, ExpenseTrainTicket, ExpenseSeasonPass, ExpenseTaxi, ExpenseRideshare:
		return true
	}
	return false
}

// ExpenseStatus is the approval state of an ExpenseRecord.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
	ExpensePaid     ExpenseStatus = "paid"
)

// Valid reports whether es is one of the known approval states.
func (es ExpenseStatus) Valid() bool {
	switch es {
	case ExpensePending, ExpenseApproved, ExpenseRejected, ExpensePaid:
		return true
	}
	return false
}

var expenseTransitions = map[ExpenseStatus][]ExpenseStatus{
	ExpensePending:  {ExpenseApproved, ExpenseRejected},
	ExpenseApproved: {ExpensePaid, ExpenseRejected},
}

// CanTransitionExpense reports whether an expense record may move between
// approval states through the regular workflow.
func CanTransitionExpense(from, to ExpenseStatus) bool {
	for _, next := range expenseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ExpenseRecord ("Auslagennachweis") is one driver-submitted reimbursable cost.
type ExpenseRecord struct {
	ID          uuid.UUID       `json:"id"`
	DriverID    uuid.UUID       `json:"driver_id"`
	TourNumber  string          `json:"tour_number"`
	Plate       string          `json:"plate,omitempty"`
	Date        time.Time       `json:"date"`
	RouteFrom   string          `json:"route_from,omitempty"`
	RouteTo     string          `json:"route_to,omitempty"`
	Category    ExpenseCategory `json:"category"`
	AmountCents int64           `json:"amount_cents"`
	ProofKey    string          `json:"proof_key,omitempty"`
	Status      ExpenseStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
