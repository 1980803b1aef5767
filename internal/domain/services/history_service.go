package services

import (
	"context"
	"fmt"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// Transaction is a journal entry as shown by the block explorer view
type Transaction struct {
	entities.Submission
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// Link is a navigation entry of the front-end
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type HistoryService struct {
	journal     Journal
	explorerURL string
}

func NewHistoryService(journal Journal, explorerURL string) *HistoryService {
	return &HistoryService{
		journal:     journal,
		explorerURL: explorerURL,
	}
}

// Recent returns the latest submissions, newest first
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	subs, err := s.journal.ListSubmissions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	txs := make([]Transaction, len(subs))
	for i, sub := range subs {
		txs[i] = Transaction{Submission: sub, ExplorerURL: s.TxURL(sub.TxHash)}
	}
	return txs, nil
}

// TxURL links a transaction hash to the configured explorer
func (s *HistoryService) TxURL(txHash string) string {
	if s.explorerURL == "" || txHash == "" {
		return ""
	}
	return s.explorerURL + "/tx/" + txHash
}

// Links returns the navigation links of the front-end
func (s *HistoryService) Links() []Link {
	links := []Link{
		{Label: "Debug Contracts", Href: "/debug"},
		{Label: "Block Explorer", Href: "/blockexplorer"},
	}
	if s.explorerURL != "" {
		links = append(links, Link{Label: "External Explorer", Href: s.explorerURL})
	}
	return links
}
