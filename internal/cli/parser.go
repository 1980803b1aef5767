package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

// SwapRequest is a parsed swap command
type SwapRequest struct {
	Amount string
	From   entities.TokenSymbol
	To     entities.TokenSymbol
}

// Pattern: <amount> <from> TO <to>
var swapPattern = regexp.MustCompile(`^(\d+)\s+([A-Z]+)\s+TO\s+([A-Z]+)$`)

// ParseSwapCommand parses a swap command
// Examples:
//   - "swap 5 TokenA to TokenB"
//   - "5 tka to tkb"
//   - "100 B to A"
func ParseSwapCommand(command string) (*SwapRequest, error) {
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimPrefix(command, "SWAP ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 5 TokenA to TokenB')")
	}

	from, err := ParseToken(matches[2])
	if err != nil {
		return nil, err
	}
	to, err := ParseToken(matches[3])
	if err != nil {
		return nil, err
	}

	return &SwapRequest{
		Amount: matches[1],
		From:   from,
		To:     to,
	}, nil
}

var tokenAliases = map[string]entities.TokenSymbol{
	"TOKENA": entities.TokenA,
	"TKA":    entities.TokenA,
	"A":      entities.TokenA,
	"TOKENB": entities.TokenB,
	"TKB":    entities.TokenB,
	"B":      entities.TokenB,
}

// ParseToken maps a token name, ticker or letter to its symbol, ignoring case
func ParseToken(s string) (entities.TokenSymbol, error) {
	token, ok := tokenAliases[strings.TrimSpace(strings.ToUpper(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown token %q (use TokenA or TokenB)", entities.ErrInvalidSelection, s)
	}
	return token, nil
}
