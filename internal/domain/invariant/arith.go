package invariant

import "math"

// AddCents 金额相加,结果超出int64时ok为false
func AddCents(a, b int64) (sum int64, ok bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

// MulCents 数量×单价,结果超出int64时ok为false
func MulCents(quantity, price int64) (product int64, ok bool) {
	if quantity == 0 || price == 0 {
		return 0, true
	}
	p := quantity * price
	if p/price != quantity || (quantity == -1 && price == math.MinInt64) || (price == -1 && quantity == math.MinInt64) {
		return 0, false
	}
	return p, true
}

// Overflow 派生金额溢出时的校验错误
func Overflow(field string) error {
	return Failed([]FieldViolation{{
		Field:   field,
		Rule:    RuleRange,
		Message: field + "超出int64范围",
	}})
}
