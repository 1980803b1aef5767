package entities

import "fmt"

// Direction is the canonical state of the swap pair. Both the "from" and the
// "to" side are derived from it, so they can never hold the same token.
type Direction int

const (
	AtoB Direction = iota
	BtoA
)

// From returns the token being sold
func (d Direction) From() TokenSymbol {
	if d == BtoA {
		return TokenB
	}
	return TokenA
}

// To returns the token being bought
func (d Direction) To() TokenSymbol {
	return d.From().Complement()
}

// FunctionName returns the pool function that swaps in this direction
func (d Direction) FunctionName() FunctionName {
	if d == BtoA {
		return FnSwapBforA
	}
	return FnSwapAforB
}

func (d Direction) String() string {
	return fmt.Sprintf("%s->%s", d.From(), d.To())
}

// DirectionFrom returns the direction that sells the given token
func DirectionFrom(from TokenSymbol) (Direction, bool) {
	switch from {
	case TokenA:
		return AtoB, true
	case TokenB:
		return BtoA, true
	default:
		return AtoB, false
	}
}

// SwapFunctionFor maps an explicit (from, to) pair to the pool function.
// Equal or unknown tokens yield ErrInvalidSelection.
func SwapFunctionFor(from, to TokenSymbol) (FunctionName, error) {
	switch {
	case from == TokenA && to == TokenB:
		return FnSwapAforB, nil
	case from == TokenB && to == TokenA:
		return FnSwapBforA, nil
	default:
		return "", fmt.Errorf("%w: %q -> %q", ErrInvalidSelection, from, to)
	}
}

// SwapSelection holds the swap form's token pair.
// It is not safe for concurrent use; the owning form serializes access.
type SwapSelection struct {
	direction Direction
	updates   int
}

// NewSwapSelection starts from TokenA -> TokenB
func NewSwapSelection() SwapSelection {
	return SwapSelection{direction: AtoB}
}

func (s *SwapSelection) Direction() Direction { return s.direction }

func (s *SwapSelection) From() TokenSymbol { return s.direction.From() }

func (s *SwapSelection) To() TokenSymbol { return s.direction.To() }

// Updates counts effective selection changes
func (s *SwapSelection) Updates() int { return s.updates }

// SelectFrom sets the token to sell; the other side flips to its complement.
// It reports whether the selection changed.
func (s *SwapSelection) SelectFrom(from TokenSymbol) (bool, error) {
	d, ok := DirectionFrom(from)
	if !ok {
		return false, fmt.Errorf("%w: unknown token %q", ErrInvalidSelection, from)
	}
	return s.set(d), nil
}

// SelectTo sets the token to buy; the other side flips to its complement.
// It reports whether the selection changed.
func (s *SwapSelection) SelectTo(to TokenSymbol) (bool, error) {
	if !to.Valid() {
		return false, fmt.Errorf("%w: unknown token %q", ErrInvalidSelection, to)
	}
	d, _ := DirectionFrom(to.Complement())
	return s.set(d), nil
}

func (s *SwapSelection) set(d Direction) bool {
	if d == s.direction {
		return false
	}
	s.direction = d
	s.updates++
	return true
}
