package entity

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WalletHoldings groups the holdings tracked for one wallet address.
type WalletHoldings struct {
	Wallet   string    `json:"wallet" validate:"required,eth_addr"`
	Holdings []Holding `json:"holdings" validate:"dive"`
}

// Ledger maps wallet addresses to their holdings. The JSON form is an object
// keyed by wallet address; decoding keeps the document order of the keys so
// the resolved portfolio is reported in the same order.
type Ledger struct {
	Wallets []WalletHoldings `validate:"dive"`
}

// UnmarshalJSON decodes a wallet-keyed object while preserving key order.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	iter := jsoniter.ParseBytes(json, data)
	if next := iter.WhatIsNext(); next != jsoniter.ObjectValue {
		return fmt.Errorf("ledger must be a JSON object keyed by wallet address")
	}

	wallets := make([]WalletHoldings, 0)
	iter.ReadObjectCB(func(it *jsoniter.Iterator, wallet string) bool {
		var holdings []Holding
		it.ReadVal(&holdings)
		wallets = append(wallets, WalletHoldings{Wallet: wallet, Holdings: holdings})
		return it.Error == nil
	})
	if iter.Error != nil {
		return fmt.Errorf("failed to decode ledger: %w", iter.Error)
	}

	l.Wallets = wallets
	return nil
}

// HoldingCount returns the number of (wallet, holding) pairs in the ledger.
func (l Ledger) HoldingCount() int {
	n := 0
	for _, w := range l.Wallets {
		n += len(w.Holdings)
	}
	return n
}
