package entity

// PortfolioError represents a holding that could not be resolved.
type PortfolioError struct {
	WalletAddress string `json:"walletAddress"`
	Chain         string `json:"chain"`
	TokenSymbol   string `json:"tokenSymbol"`
	TokenAddress  string `json:"tokenAddress,omitempty"`
	Message       string `json:"message"`
}
