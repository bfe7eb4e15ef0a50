package testutil

import "time"

// Fixed identifiers and clock values for deterministic tests.
var (
	TestCustomerID = "00000000-0000-0000-0000-000000000101"
	TestLoanID     = "00000000-0000-0000-0000-000000000201"
	TestUserID     = "00000000-0000-0000-0000-000000000301"

	// TestNow is mid-month so the first installment falls due on 2025-04-01.
	TestNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
)

// Date returns the UTC midnight of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
