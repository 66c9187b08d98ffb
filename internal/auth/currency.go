package auth

import "strings"

var countryCurrencies = map[string]string{
	"US": "USD", "USA": "USD",
	"GB": "GBP", "UK": "GBP",
	"EU": "EUR", "EUR": "EUR",
	"JP": "JPY", "JPN": "JPY",
	"IN": "INR", "IND": "INR",
	"CA": "CAD", "CAN": "CAD",
	"AU": "AUD", "AUS": "AUD",
	"SG": "SGD", "SGP": "SGD",
	"CH": "CHF", "CHE": "CHF",
	"CN": "CNY", "CHN": "CNY",
	"NZ": "NZD", "NZL": "NZD",
}

// CurrencyForCountry maps a country/locale code to a best-effort currency,
// defaulting to INR when unmapped.
func CurrencyForCountry(code string) string {
	if currency, ok := countryCurrencies[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return currency
	}
	return "INR"
}
