package domain_test

import (
	"testing"

	"github.com/pfledger/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBalanceImpact(t *testing.T) {
	amount := decimal.NewFromInt(50)

	testCases := []struct {
		name        string
		accountType domain.AccountType
		isIncome    bool
		expected    decimal.Decimal
	}{
		{"current income adds", domain.Current, true, amount},
		{"current expense subtracts", domain.Current, false, amount.Neg()},
		{"savings income adds", domain.Savings, true, amount},
		{"savings expense subtracts", domain.Savings, false, amount.Neg()},
		{"debt income reduces what is owed", domain.Debt, true, amount.Neg()},
		{"debt expense grows what is owed", domain.Debt, false, amount},
		{"unknown type behaves like current", domain.AccountType("FUTURE"), true, amount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.accountType.BalanceImpact(tc.isIncome, amount)
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}
}

func TestBalanceImpactIncomeExpenseNegate(t *testing.T) {
	amount := decimal.NewFromFloat(12.34)
	for _, accountType := range []domain.AccountType{domain.Current, domain.Savings, domain.Debt} {
		income := accountType.BalanceImpact(true, amount)
		expense := accountType.BalanceImpact(false, amount)
		assert.True(t, income.Equal(expense.Neg()),
			"income and expense impacts must negate for %s", accountType)
	}
}

func TestAccountTypeFromRaw(t *testing.T) {
	testCases := []struct {
		raw      string
		expected domain.AccountType
	}{
		{"CURRENT", domain.Current},
		{"savings", domain.Savings},
		{"Savings & Investments", domain.Savings},
		{"  Checking  ", domain.Current},
		{"debt", domain.Debt},
		{"Debt", domain.Debt},
		{"mystery", domain.Current},
		{"", domain.Current},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, domain.AccountTypeFromRaw(tc.raw), "raw=%q", tc.raw)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Current", domain.Current.DisplayName())
	assert.Equal(t, "Savings & Investments", domain.Savings.DisplayName())
	assert.Equal(t, "Debt", domain.Debt.DisplayName())
}
