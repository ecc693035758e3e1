package entity

// DecimalsEntry is a cached ERC20 metadata row, unique on (Chain, Token).
// Token is always stored lowercased.
type DecimalsEntry struct {
	Chain    string `json:"chain"`
	Token    string `json:"token"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
}
