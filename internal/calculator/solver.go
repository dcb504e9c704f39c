package calculator

import (
	"sort"

	"github.com/shreyanshchaubey/ExpenseX/internal/money"
)

// Tolerance is the smallest balance magnitude treated as outstanding.
// Anything below it is considered settled and takes part in no transfer.
const Tolerance money.Cents = 1

// Settlement is one directed payment: From pays To the given amount.
type Settlement struct {
	From   string      `json:"from"`
	To     string      `json:"to"`
	Amount money.Cents `json:"amount"`
}

// Solve produces transfers that bring every balance to zero.
//
// Greedy pairing: repeatedly take the largest creditor and the largest
// debtor, settle whichever side is smaller in full and put the other back
// with what remains. Each round retires at least one member, so for balances
// that sum to zero the result has at most len(balances)-1 transfers. This is
// a heuristic; it does not guarantee the minimum number of transfers.
//
// If the balances do not sum to zero, whatever is left once one side runs
// out is dropped.
func Solve(balances Balances) []Settlement {
	creditors := newCreditorQueue()
	debtors := newDebtorQueue()

	// Map iteration order is random; seed the heaps in a fixed order.
	members := make([]string, 0, len(balances))
	for m := range balances {
		members = append(members, m)
	}
	sort.Strings(members)

	for _, m := range members {
		b := balances[m]
		switch {
		case b.Abs() < Tolerance:
			continue
		case b > 0:
			creditors.push(entry{member: m, balance: b})
		default:
			debtors.push(entry{member: m, balance: b})
		}
	}

	settlements := make([]Settlement, 0, len(members))
	for creditors.Len() > 0 && debtors.Len() > 0 {
		credit := creditors.pop()
		debit := debtors.pop()

		var amount money.Cents
		sum := credit.balance + debit.balance
		switch {
		case sum == 0:
			amount = credit.balance
		case sum < 0:
			// Debtor still owes after paying this creditor in full.
			amount = credit.balance
			debtors.push(entry{member: debit.member, balance: sum})
		default:
			// Creditor is still owed after this debtor pays everything.
			amount = -debit.balance
			creditors.push(entry{member: credit.member, balance: sum})
		}

		settlements = append(settlements, Settlement{
			From:   debit.member,
			To:     credit.member,
			Amount: amount,
		})
	}

	return settlements
}

// ComputeSettlements runs CalculateBalances followed by Solve.
func ComputeSettlements(expenses []Expense, members []string) ([]Settlement, error) {
	balances, err := CalculateBalances(expenses, members)
	if err != nil {
		return nil, err
	}
	return Solve(balances), nil
}

// Apply returns a copy of balances with every settlement applied:
// the payer's balance rises and the receiver's falls by the amount.
func Apply(balances Balances, settlements []Settlement) Balances {
	out := make(Balances, len(balances))
	for m, b := range balances {
		out[m] = b
	}
	for _, s := range settlements {
		out[s.From] += s.Amount
		out[s.To] -= s.Amount
	}
	return out
}
