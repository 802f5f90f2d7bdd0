package household

// USD is a helper for tests to create usd money from const.
func USD(v float64) Money { return M(v, "USD") }

// snap is a helper to build an account snapshot updated the day it is taken.
func snap(account string, typ AccountType, balance float64, asOf string) AccountSnapshot {
	on := MustParseDate(asOf)
	return AccountSnapshot{
		Account:     account,
		Type:        typ,
		Balance:     USD(balance),
		AsOf:        on,
		LastUpdated: on,
		Confidence:  1,
	}
}

// tx is a helper to build a fully-trusted transaction.
func tx(id, date string, amount float64, category string) Transaction {
	return Transaction{
		ID:               id,
		Date:             MustParseDate(date),
		Amount:           USD(amount),
		Category:         category,
		Account:          "checking",
		SourceConfidence: 1,
	}
}
