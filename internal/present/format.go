package present

import "strconv"

// FormatRupiah renders an amount in whole rupiah with dot-grouped thousands,
// e.g. 20000 -> "Rp 20.000". Amounts are always non-negative integers in this
// system; a negative value is rendered with a leading minus for safety.
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	if neg {
		return "Rp -" + string(out)
	}
	return "Rp " + string(out)
}
