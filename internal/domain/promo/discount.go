package promo

import "strings"

// Normalize canonicalizes a submitted code: surrounding whitespace is
// stripped and the result upper-cased, so "  kate10 " matches "KATE10".
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount computes the discount amount for the given subtotal. All values
// are integers in the store's minor currency unit; the division truncates
// toward zero, consistently applied. For percentage in [1,100] and
// subtotal >= 0 the result never exceeds subtotal.
func (c *Code) Discount(subtotal int64) int64 {
	return subtotal * int64(c.PercentageDiscount) / 100
}
