package calculator

import (
	"container/heap"

	"github.com/shreyanshchaubey/ExpenseX/internal/money"
)

// entry pairs a member with their outstanding balance while solving.
type entry struct {
	member  string
	balance money.Cents
}

// balanceQueue is a heap of entries ordered by signed balance.
// With descending=true it is a max-heap (creditors), otherwise a min-heap
// (debtors). Equal balances fall back to member ID so results are repeatable.
type balanceQueue struct {
	entries    []entry
	descending bool
}

var _ heap.Interface = (*balanceQueue)(nil)

func newCreditorQueue() *balanceQueue { return &balanceQueue{descending: true} }

func newDebtorQueue() *balanceQueue { return &balanceQueue{} }

func (q *balanceQueue) Len() int { return len(q.entries) }

func (q *balanceQueue) Less(i, j int) bool {
	a, b := q.entries[i], q.entries[j]
	if a.balance != b.balance {
		if q.descending {
			return a.balance > b.balance
		}
		return a.balance < b.balance
	}
	return a.member < b.member
}

func (q *balanceQueue) Swap(i, j int) { q.entries[i], q.entries[j] = q.entries[j], q.entries[i] }

func (q *balanceQueue) Push(x any) { q.entries = append(q.entries, x.(entry)) }

func (q *balanceQueue) Pop() any {
	n := len(q.entries)
	e := q.entries[n-1]
	q.entries = q.entries[:n-1]
	return e
}

func (q *balanceQueue) push(e entry) { heap.Push(q, e) }

func (q *balanceQueue) pop() entry { return heap.Pop(q).(entry) }
