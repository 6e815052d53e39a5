package coupon

import "strings"

// Discount types.
const (
	TypeFixed   = "fixed"
	TypePercent = "percent"
)

type Rule struct {
	Discount    float64 `json:"discount"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

// Table maps coupon codes to discount rules. Codes are matched
// case-insensitively; the table itself never mutates carts, callers copy
// the matched rule onto the cart at apply time.
type Table map[string]Rule

// Default returns the built-in promotion set.
func Default() Table {
	return Table{
		"FIRST50":   {Discount: 50, Type: TypeFixed, Description: "First time user"},
		"SAVE100":   {Discount: 100, Type: TypeFixed, Description: "₹100 off on orders over ₹500"},
		"ORGANIC20": {Discount: 20, Type: TypePercent, Description: "20% off organic products"},
		"WELCOME10": {Discount: 10, Type: TypePercent, Description: "10% welcome discount"},
	}
}

// Lookup resolves a code ignoring case. The second return reports whether
// the code exists.
func (t Table) Lookup(code string) (Rule, bool) {
	rule, ok := t[strings.ToUpper(code)]
	return rule, ok
}
