package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"qmechsim/qsystem"
	"qmechsim/tensor"
)

// ampExprRegex matches amplitude expressions once whitespace is removed:
// i, -i, 2i, 2*i, 1/sqrt2, 1/sqrt(2), -1/√2, i/sqrt2, 1/2, 3/4 ...
var ampExprRegex = regexp.MustCompile(`^([+-]?)(\d*\.?\d*)\*?(i?)(?:/(?:sqrt\(?(\d+\.?\d*)\)?|√(\d+\.?\d*)|(\d+\.?\d*)))?$`)

// parseAmplitude parses a single complex amplitude.
// Returns the value and true on success, or 0 and false on failure.
//
// Supported formats:
//   - Go complex literals: "1", "-0.5", "0.8i", "0.6+0.8i"
//   - Imaginary unit: "i", "-i", "2i", "2*i"
//   - Square-root denominators: "1/sqrt2", "1/sqrt(2)", "-1/√2", "i/sqrt2"
//   - Plain fractions: "1/2", "-3/4", "i/2"
func parseAmplitude(s string) (complex128, bool) {
	s = strings.ToLower(strings.Join(strings.Fields(s), ""))
	if s == "" {
		return 0, false
	}

	// Try a complex literal first
	if val, err := strconv.ParseComplex(s, 128); err == nil {
		if cmplx.IsInf(val) || cmplx.IsNaN(val) {
			return 0, false
		}
		return val, true
	}

	matches := ampExprRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, false
	}
	negative := matches[1] == "-"
	coeffStr := matches[2]
	imaginary := matches[3] == "i"
	if coeffStr == "" && !imaginary {
		return 0, false
	}

	coeff := 1.0
	if coeffStr != "" {
		var err error
		coeff, err = strconv.ParseFloat(coeffStr, 64)
		if err != nil {
			return 0, false
		}
	}

	denom := 1.0
	switch {
	case matches[4] != "" || matches[5] != "":
		arg := matches[4] + matches[5]
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, false
		}
		denom = math.Sqrt(v)
	case matches[6] != "":
		v, err := strconv.ParseFloat(matches[6], 64)
		if err != nil {
			return 0, false
		}
		denom = v
	}
	if denom == 0 {
		return 0, false
	}

	val := coeff / denom
	if negative {
		val = -val
	}
	if imaginary {
		return complex(0, val), true
	}
	return complex(val, 0), true
}

// parseKetInput parses a single-qubit state: either a named ket
// ("0", "1", "+", "-", "+i", "-i") or two comma-separated amplitudes.
func parseKetInput(s string) (tensor.Vector, error) {
	if v, ok := qsystem.KetByName(s); ok {
		return v, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, errors.Errorf("want a ket name or two amplitudes \"a, b\", got %q", s)
	}
	v := make(tensor.Vector, 2)
	for i, part := range parts {
		amp, ok := parseAmplitude(part)
		if !ok {
			return nil, errors.Errorf("invalid amplitude %q", strings.TrimSpace(part))
		}
		v[i] = amp
	}
	return v, nil
}

// formatAmplitude formats an amplitude, using 1/√2 notation when possible.
func formatAmplitude(a complex128) string {
	type ampForm struct {
		value   float64
		display string
	}
	forms := []ampForm{
		{1, "1"},
		{1 / math.Sqrt2, "1/√2"},
		{0.5, "1/2"},
	}

	re, im := real(a), imag(a)
	switch {
	case math.Abs(re) < 1e-10 && math.Abs(im) < 1e-10:
		return "0"
	case math.Abs(im) < 1e-10:
		for _, f := range forms {
			if math.Abs(re-f.value) < 1e-10 {
				return f.display
			}
			if math.Abs(re+f.value) < 1e-10 {
				return "-" + f.display
			}
		}
	case math.Abs(re) < 1e-10:
		for _, f := range forms {
			imDisplay := strings.Replace(f.display, "1", "i", 1)
			if math.Abs(im-f.value) < 1e-10 {
				return imDisplay
			}
			if math.Abs(im+f.value) < 1e-10 {
				return "-" + imDisplay
			}
		}
		return fmt.Sprintf("%.4fi", im)
	}
	return tensor.FormatComplex(a)
}

// formatKet names v if it is one of the library kets, otherwise lists its
// amplitudes.
func formatKet(v tensor.Vector) string {
	for _, k := range qsystem.Kets {
		if v.ApproxEqual(k.Vector, 1e-10) {
			return k.Label
		}
	}
	if len(v) != 2 {
		return v.String()
	}
	return fmt.Sprintf("(%s, %s)", formatAmplitude(v[0]), formatAmplitude(v[1]))
}
