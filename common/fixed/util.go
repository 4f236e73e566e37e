package fixed

import "strings"

func formatFractional(str string) string {
	padded := strings.Repeat("0", FractionalCount-len(str)) + str
	return strings.TrimRight(padded, "0")
}

func padFractional(str string) string {
	return str + strings.Repeat("0", FractionalCount-len(str))
}
