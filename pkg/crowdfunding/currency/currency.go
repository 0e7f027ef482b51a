package currency

import (
	"encoding/json"
	"strings"
)

// Currency represents a currency of the crowdfunding platform
type Currency struct {
	ID       int64
	Title    string
	Code     string
	Symbol   string
	Position int8
}

// IsEmpty returns true if the currency is considered empty/uninitialized
func (c Currency) IsEmpty() bool {
	return c.Code == ""
}

// NormalizeCode returns the upper case ISO 4217 form of the given code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c Currency) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Code)
}
