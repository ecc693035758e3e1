package entity

// NativeToken is the sentinel used instead of a contract address for a chain's native asset.
const NativeToken = "native"

// DefaultPrecision is the number of fractional digits shown for a holding without an explicit precision.
const DefaultPrecision = 2

// TokenAmount is an amount of a token received in a transaction.
type TokenAmount struct {
	TokenAddress string  `json:"tokenAddress" validate:"required,eth_addr|eq=native"`
	Symbol       string  `json:"symbol" validate:"required"`
	Value        float64 `json:"value" validate:"gte=0"`
}

// Transaction is one acquisition event of a holding.
type Transaction struct {
	AmountIn  float64     `json:"amountIn" validate:"gte=0"`
	AmountOut TokenAmount `json:"amountOut"`
	Fee       float64     `json:"fee" validate:"gte=0"`
}

// Holding describes one token position of a wallet on one chain.
type Holding struct {
	Chain         string        `json:"chain" validate:"required"`
	TokenAddress  string        `json:"tokenAddress" validate:"required,eth_addr"`
	Symbol        string        `json:"symbol" validate:"required"`
	Transactions  []Transaction `json:"transactions" validate:"required,dive"`
	StakedAddress string        `json:"stakedAddress,omitempty" validate:"omitempty,eth_addr"`
	Precision     *int          `json:"precision,omitempty" validate:"omitempty,gte=0,lte=18"`
}

// EffectivePrecision returns the configured precision or DefaultPrecision when unset.
func (h Holding) EffectivePrecision() int {
	if h.Precision == nil {
		return DefaultPrecision
	}
	return *h.Precision
}

// IsNativeToken reports whether the address denotes the chain's native asset.
func IsNativeToken(tokenAddress string) bool {
	return tokenAddress == "" || tokenAddress == NativeToken
}
