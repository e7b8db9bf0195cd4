// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/holiman/uint256"

	"github.com/ezrec/rize/word"
)

const (
	COMMENT_MARKER = "#"
	LABEL_MARKER   = "."
	HEX_PREFIX     = "0x"
	LABEL_MAX      = 16
)

// ArgType is the classification of an operand token.
type ArgType int

//go:generate go tool stringer -linecomment -type=ArgType
const (
	ARG_NONE      = ArgType(0) // none
	ARG_REGISTER  = ArgType(1) // register
	ARG_IMMEDIATE = ArgType(2) // immediate
	ARG_MEMADDR   = ArgType(3) // memaddr
	ARG_SYMBOL    = ArgType(4) // symbol
	ARG_MALFORMED = ArgType(5) // malformed
)

// Operand is one classified, and possibly resolved, instruction operand.
type Operand struct {
	Type    ArgType
	Text    string      // Source token.
	Name    string      // Register name (lower case) or symbol name.
	Address uint64      // Memory address, for ARG_MEMADDR.
	Number  uint256.Int // Literal, for ARG_IMMEDIATE.

	Value    word.Value // Resolved value.
	Resolved bool       // Set for register, immediate and memaddr once decoded.
}

func isAlpha(text string) bool {
	if len(text) == 0 {
		return false
	}
	for _, r := range text {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isDecimal(text string) bool {
	if len(text) == 0 {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Classify maps a token to an operand. The first matching rule wins:
//
//	""          none
//	#...        none (comment)
//	letters     register
//	0x<hex>     memory address (malformed if the hex is bad)
//	<decimal>   immediate
//	.<letters>  symbol
//
// Anything else is malformed.
func Classify(token string) (arg Operand) {
	arg.Text = token

	switch {
	case len(token) == 0, strings.HasPrefix(token, COMMENT_MARKER):
		arg.Type = ARG_NONE
	case isAlpha(token):
		arg.Type = ARG_REGISTER
		arg.Name = strings.ToLower(token)
	case strings.HasPrefix(token, HEX_PREFIX):
		addr, err := strconv.ParseUint(token[len(HEX_PREFIX):], 16, 64)
		if err != nil {
			arg.Type = ARG_MALFORMED
			break
		}
		arg.Type = ARG_MEMADDR
		arg.Address = addr
	case isDecimal(token):
		err := arg.Number.SetFromDecimal(token)
		if err != nil {
			arg.Type = ARG_MALFORMED
			break
		}
		arg.Type = ARG_IMMEDIATE
	case strings.HasPrefix(token, LABEL_MARKER) && isAlpha(token[len(LABEL_MARKER):]):
		arg.Type = ARG_SYMBOL
		arg.Name = token[len(LABEL_MARKER):]
	default:
		arg.Type = ARG_MALFORMED
	}

	return
}

// Tokenize splits an instruction line into words. Words are separated by
// white space or commas, and a word starting with the comment marker ends
// the line.
func Tokenize(line string) (words []string) {
	for _, token := range strings.FieldsFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	}) {
		if strings.HasPrefix(token, COMMENT_MARKER) {
			break
		}
		words = append(words, token)
	}
	return
}
