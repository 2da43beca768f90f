package nuxl

import (
	"sort"
	"strings"

	apperrors "github.com/msplatform/mscore/internal/errors"
)

// Formula is a sparse element-count map (chemical empirical formula),
// e.g. {"C": 10, "H": 15, "N": 2, "O": 9, "P": 1}.
type Formula map[string]int

// ParseFormula parses a simple "ElementCount" concatenation such as
// "C10H15N2O9P" (no nested groups, no charges).
func ParseFormula(s string) (Formula, error) {
	f := make(Formula)
	i := 0
	for i < len(s) {
		if s[i] < 'A' || s[i] > 'Z' {
			return nil, apperrors.E(apperrors.Op("nuxl.ParseFormula"), apperrors.KindParse, "expected element symbol at position "+itoa(i))
		}
		start := i
		i++
		for i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
			i++
		}
		element := s[start:i]
		numStart := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		count := 1
		if i > numStart {
			count = atoi(s[numStart:i])
		}
		f[element] += count
	}
	return f, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// IsSubformula reports whether f is a subformula of super: every element
// count in f is <= the corresponding count in super, i.e. subtracting f
// from super never drives an element count negative (§4.5 step 5, §8
// scenario S6).
func IsSubformula(f, super Formula) bool {
	for el, n := range f {
		if super[el] < n {
			return false
		}
	}
	return true
}

// Subtract returns super - f, assuming IsSubformula(f, super).
func Subtract(super, f Formula) Formula {
	out := make(Formula, len(super))
	for el, n := range super {
		out[el] = n - f[el]
	}
	return out
}

// String renders the formula in sorted-element order (e.g. "C10H15N2O9P").
func (f Formula) String() string {
	elements := make([]string, 0, len(f))
	for el := range f {
		elements = append(elements, el)
	}
	sort.Strings(elements)
	var sb strings.Builder
	for _, el := range elements {
		sb.WriteString(el)
		if f[el] != 1 {
			sb.WriteString(itoa(f[el]))
		}
	}
	return sb.String()
}
