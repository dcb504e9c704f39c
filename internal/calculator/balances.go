package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/shreyanshchaubey/ExpenseX/internal/money"
)

var (
	// ErrInvalidExpense is returned for a non-positive or out-of-range amount
	// or an empty participant list.
	ErrInvalidExpense = errors.New("invalid expense")
	// ErrUnknownMember is returned when an expense references someone who is not on the roster.
	ErrUnknownMember = errors.New("unknown member")
	// ErrDuplicateMember is returned when the roster lists the same member twice.
	ErrDuplicateMember = errors.New("duplicate member")
)

// Expense is a single payment shared equally among its participants.
type Expense struct {
	Amount       decimal.Decimal
	PaidBy       string
	Participants []string // need not include PaidBy
}

// Balances maps each member to their net position.
// Positive = is owed money, negative = owes money.
type Balances map[string]money.Cents

// ExpenseError reports which expense failed validation.
type ExpenseError struct {
	Index int
	Err   error
}

func (e *ExpenseError) Error() string {
	return fmt.Sprintf("expense %d: %v", e.Index, e.Err)
}

func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// ValidateExpense checks a single expense against the roster and returns
// the per-participant shares in participant order.
func ValidateExpense(expense Expense, roster map[string]bool) ([]money.Cents, error) {
	amount, err := validate(expense, roster)
	if err != nil {
		return nil, err
	}
	return amount.Split(len(expense.Participants))
}

// validate checks an expense and returns its amount in cents.
func validate(expense Expense, roster map[string]bool) (money.Cents, error) {
	amount, err := money.FromDecimal(expense.Amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidExpense, err)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount %s must be positive", ErrInvalidExpense, expense.Amount)
	}
	if len(expense.Participants) == 0 {
		return 0, fmt.Errorf("%w: no participants", ErrInvalidExpense)
	}
	if !roster[expense.PaidBy] {
		return 0, fmt.Errorf("%w: payer %q", ErrUnknownMember, expense.PaidBy)
	}
	for _, p := range expense.Participants {
		if !roster[p] {
			return 0, fmt.Errorf("%w: participant %q", ErrUnknownMember, p)
		}
	}
	return amount, nil
}

// Roster builds the membership set used for validation.
func Roster(members []string) (map[string]bool, error) {
	roster := make(map[string]bool, len(members))
	for _, m := range members {
		if roster[m] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMember, m)
		}
		roster[m] = true
	}
	return roster, nil
}

// CalculateBalances reduces expenses to one net balance per member.
//
// Algorithm:
//   - payer is credited the full amount
//   - each participant is debited amount / len(participants)
//   - shares are accumulated exactly, then each balance is rounded to the
//     cent once at the end (see roundBalances)
//
// Every member in members gets an entry, even if zero, and the rounded
// balances always sum to exactly zero.
func CalculateBalances(expenses []Expense, members []string) (Balances, error) {
	roster, err := Roster(members)
	if err != nil {
		return nil, err
	}

	exact := make(map[string]*big.Rat, len(members))
	for _, m := range members {
		exact[m] = new(big.Rat)
	}

	// Every balance is bounded by the sum of all amounts, so keeping that
	// sum within an int64 keeps rounding and totals from overflowing.
	var spent money.Cents
	for i, expense := range expenses {
		amount, err := validate(expense, roster)
		if err != nil {
			return nil, &ExpenseError{Index: i, Err: err}
		}
		if spent > math.MaxInt64-amount {
			return nil, &ExpenseError{Index: i, Err: fmt.Errorf("%w: total spend overflows", ErrInvalidExpense)}
		}
		spent += amount

		exact[expense.PaidBy].Add(exact[expense.PaidBy], new(big.Rat).SetInt64(int64(amount)))

		share := big.NewRat(int64(amount), int64(len(expense.Participants)))
		for _, participant := range expense.Participants {
			exact[participant].Sub(exact[participant], share)
		}
	}

	return roundBalances(members, exact), nil
}

// roundBalances rounds each exact balance to the nearest cent. Rounding can
// leave the total a few cents off zero; the difference is taken back from the
// members whose rounding moved them furthest in that direction, one cent
// each, with ties going to the lower member ID.
func roundBalances(members []string, exact map[string]*big.Rat) Balances {
	type rounding struct {
		member string
		err    *big.Rat // rounded - exact
	}

	balances := make(Balances, len(members))
	roundings := make([]rounding, 0, len(members))
	var total money.Cents
	for _, m := range members {
		r := exact[m]
		c := roundRat(r)
		balances[m] = c
		total += c
		roundings = append(roundings, rounding{
			member: m,
			err:    new(big.Rat).Sub(new(big.Rat).SetInt64(int64(c)), r),
		})
	}
	if total == 0 {
		return balances
	}

	// total > 0: too much was rounded up, so take a cent from the largest
	// upward roundings. total < 0: the reverse.
	sort.Slice(roundings, func(i, j int) bool {
		cmp := roundings[i].err.Cmp(roundings[j].err)
		if cmp != 0 {
			if total > 0 {
				return cmp > 0
			}
			return cmp < 0
		}
		return roundings[i].member < roundings[j].member
	})

	step := money.Cents(1)
	if total > 0 {
		step = -1
	}
	for i := 0; total != 0; i++ {
		m := roundings[i%len(roundings)].member
		balances[m] += step
		total += step
	}
	return balances
}

// roundRat rounds r to the nearest integer, halves rounding up.
func roundRat(r *big.Rat) money.Cents {
	num := new(big.Int).Mul(r.Num(), big.NewInt(2))
	num.Add(num, r.Denom())
	den := new(big.Int).Mul(r.Denom(), big.NewInt(2))
	// floor((2n + d) / 2d) == floor(n/d + 1/2)
	q, _ := new(big.Int).DivMod(num, den, new(big.Int))
	return money.Cents(q.Int64())
}
