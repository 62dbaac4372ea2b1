package common

import "golang.org/x/exp/constraints"

// NextPowerOfTwo returns the smallest power of two that is greater than or
// equal to x. For values smaller than one the result is one. The caller is
// responsible for keeping x in a range where the result does not overflow.
func NextPowerOfTwo[I constraints.Integer](x I) I {
	n := I(1)
	for n < x {
		n <<= 1
	}
	return n
}

// IsPowerOfTwo reports whether x is a positive power of two.
func IsPowerOfTwo[I constraints.Integer](x I) bool {
	return x > 0 && x&(x-1) == 0
}
