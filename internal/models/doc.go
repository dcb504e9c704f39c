// Package models defines the core domain models for ExpenseX.
//
// # Models
//
//   - User: a registered account; members of groups are users
//   - Group: a set of users who share expenses
//   - Expense: a payment by one member, split equally among participants
//
// Amounts are stored as money.Cents. Settlements are not modelled here:
// they are derived on demand from a group's expenses by the calculator
// package and never persisted.
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships use ID strings (UUID format)
// 2. **Integer money**: no floating point anywhere in the models
package models
