package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/compiler/ast"
)

// ParseCapacity validates a directive's capacity token.
//
// The token must be a single unsigned Go integer literal (decimal, 0x, 0o or 0b,
// with optional _ separators) that fits in an int. Octal needs the 0o prefix; a
// bare leading zero is rejected. Zero is rejected separately so the diagnostic
// can say so.
func ParseCapacity(arg ast.CapacityArgument) (int, error) {
	text := arg.Text
	if text == "" || strings.ContainsAny(text, " \t") || text[0] == '+' || text[0] == '-' {
		return 0, invalidCapacity(arg)
	}

	value, err := strconv.ParseUint(text, 0, 64)
	if err != nil || value > math.MaxInt {
		return 0, invalidCapacity(arg)
	}
	if value != 0 && legacyOctal(text) {
		return 0, errors.NewCompilerError(
			errors.PhaseCapacity,
			errors.ErrInvalidCapacity,
			"capacity must be a valid unsigned integer (leading zero: write "+strings.TrimLeft(text, "0_")+" or 0o"+strings.TrimLeft(text, "0_")+")",
			arg.Loc.ErrorLocation(),
			errors.Error,
		)
	}
	if value == 0 {
		return 0, errors.NewCompilerError(
			errors.PhaseCapacity,
			errors.ErrZeroCapacity,
			"capacity must be greater than 0",
			arg.Loc.ErrorLocation(),
			errors.Error,
		)
	}

	return int(value), nil
}

func invalidCapacity(arg ast.CapacityArgument) error {
	msg := "capacity must be a valid unsigned integer"
	if arg.Text == "" {
		msg += " (missing capacity argument)"
	}
	return errors.NewCompilerError(
		errors.PhaseCapacity,
		errors.ErrInvalidCapacity,
		msg,
		arg.Loc.ErrorLocation(),
		errors.Error,
	)
}

// legacyOctal reports whether text is an octal literal without the 0o prefix,
// such as 010, which would read as 8 where a decimal 10 is likely meant.
func legacyOctal(text string) bool {
	return len(text) > 1 && text[0] == '0' && (text[1] == '_' || (text[1] >= '0' && text[1] <= '9'))
}
