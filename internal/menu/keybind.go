package menu

import "strings"

// DiffCodes are the jump codes that open a diff, in allocation order. The
// order favours comfortable home-row motions: same-key pairs, then adjacent
// rolls outward (index toward pinky) and inward, then skip-one rolls, then
// the wide pairs.
var DiffCodes = [25]string{
	"hh", "jj", "kk", "ll", ";;",
	"hj", "jk", "kl", "l;",
	"jh", "kj", "lk", ";l",
	"hk", "jl", "k;",
	"kh", "lj", ";k",
	"hl", "j;",
	"lh", ";j",
	"h;", ";h",
}

// DirectCodes are the shifted DiffCodes. They open the file itself.
var DirectCodes = shiftCodes(DiffCodes)

var shift = strings.NewReplacer("h", "H", "j", "J", "k", "K", "l", "L", ";", ":")

func shiftCodes(codes [25]string) [25]string {
	var out [25]string
	for i, c := range codes {
		out[i] = shift.Replace(c)
	}
	return out
}

// MaxCodes is the number of file rows that receive jump codes.
const MaxCodes = len(DiffCodes)

// AssignCodes returns the codes for the 1-based ordinal-th file row.
func AssignCodes(ordinal int) (diff, direct string, ok bool) {
	if ordinal < 1 || ordinal > MaxCodes {
		return "", "", false
	}
	return DiffCodes[ordinal-1], DirectCodes[ordinal-1], true
}

// IsCodePrefix reports whether key can start a jump code.
func IsCodePrefix(key string) bool {
	switch key {
	case "h", "j", "k", "l", ";", "H", "J", "K", "L", ":":
		return true
	}
	return false
}
