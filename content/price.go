package content

import (
	"strconv"
	"strings"
)

// ResolvePrice tries an exact key first, then the first key (in declaration
// order) that contains the query or is contained by it.
func (s *Store) ResolvePrice(idOrKeyword string) (PriceRange, string, bool) {
	q := strings.ToLower(strings.TrimSpace(idOrKeyword))
	if q == "" {
		return PriceRange{}, "", false
	}
	for _, p := range s.prices {
		if p.key == q {
			return p.price, p.key, true
		}
	}
	for _, p := range s.prices {
		if strings.Contains(p.key, q) || strings.Contains(q, p.key) {
			return p.price, p.key, true
		}
	}
	return PriceRange{}, "", false
}

// PriceKeys lists every priced treatment id in declaration order.
func (s *Store) PriceKeys() []string {
	keys := make([]string, 0, len(s.prices))
	for _, p := range s.prices {
		keys = append(keys, p.key)
	}
	return keys
}

// FormatINR renders whole rupees with Indian digit grouping: 150000 -> "₹1,50,000".
func FormatINR(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.Itoa(amount)

	var groups []string
	if len(digits) > 3 {
		groups = append(groups, digits[len(digits)-3:])
		digits = digits[:len(digits)-3]
		for len(digits) > 2 {
			groups = append([]string{digits[len(digits)-2:]}, groups...)
			digits = digits[:len(digits)-2]
		}
	}
	if digits != "" {
		groups = append([]string{digits}, groups...)
	}

	out := "₹" + strings.Join(groups, ",")
	if neg {
		out = "-" + out
	}
	return out
}
