package entities

import (
	"fmt"
	"math/big"
)

// PriceQuote is the pool price of one token expressed in the other
type PriceQuote struct {
	Token    TokenSymbol `json:"token"`
	Unit     string      `json:"unit"`
	Price    *big.Int    `json:"price,omitempty"`
	Resolved bool        `json:"resolved"`
}

// UnquotedPrice is the placeholder shown before a price is known
func UnquotedPrice(token TokenSymbol) PriceQuote {
	return PriceQuote{Token: token, Unit: QuoteUnit(token)}
}

// QuoteUnit is the ticker a token's price is denominated in
func QuoteUnit(token TokenSymbol) string {
	info, ok := TokenInfo(token.Complement())
	if !ok {
		return ""
	}
	return info.Ticker
}

// Display renders the quote as "<price> <unit>", or "0 <unit>" when the
// price is unknown or zero
func (q PriceQuote) Display() string {
	if !q.Resolved || q.Price == nil || q.Price.Sign() == 0 {
		return fmt.Sprintf("0 %s", q.Unit)
	}
	return fmt.Sprintf("%s %s", q.Price.String(), q.Unit)
}

// PriceBoard holds both pool prices
type PriceBoard struct {
	PriceOfA PriceQuote `json:"priceOfA"`
	PriceOfB PriceQuote `json:"priceOfB"`
}
