package service

import (
	"testing"

	"portfolio_tracker/internal/domain/entity"
)

func TestSummarize(t *testing.T) {
	balances := []entity.Balance{
		{Wallet: walletOne, Chain: entity.ChainEthereum, Symbol: "UNI", Cost: 1000, CurrentBalance: 2.5, RewardedBalance: 0.5, CurrentPrice: 600, NotionalValue: 1500, Precision: 2},
		{Wallet: walletTwo, Chain: entity.ChainPolygon, Symbol: "AIRDROP", Cost: 0, CurrentBalance: 10, CurrentPrice: 5, NotionalValue: 50, Precision: 4},
	}

	s := Summarize(balances, entity.QuoteBTC)
	if s.Currency != entity.QuoteBTC {
		t.Fatalf("currency = %q", s.Currency)
	}
	if len(s.Rows) != 2 {
		t.Fatalf("got %d rows", len(s.Rows))
	}

	first := s.Rows[0]
	if first.PNL != 500 || first.ROI != 50 || first.Rewards != 0.5 || first.Precision != 2 {
		t.Fatalf("unexpected first row %+v", first)
	}
	second := s.Rows[1]
	if second.PNL != 50 || second.ROI != 0 {
		t.Fatalf("a row without cost must report ROI 0, got %+v", second)
	}

	if s.Total != 1550 || s.Invested != 1000 || s.PNL != 550 || s.ROI != 55 {
		t.Fatalf("unexpected totals %+v", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, entity.QuoteUSD)
	if s.Rows == nil || len(s.Rows) != 0 {
		t.Fatal("rows must be an empty, non-nil slice")
	}
	if s.Total != 0 || s.ROI != 0 {
		t.Fatalf("unexpected totals %+v", s)
	}
}
