package utils

// DivRoundUp divide redondeando hacia arriba
func DivRoundUp(numerador, divisor int) int {
	Assert(divisor > 0, "DivRoundUp con divisor %d", divisor)
	return (numerador + divisor - 1) / divisor
}

// Min devuelve el menor de dos enteros
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
