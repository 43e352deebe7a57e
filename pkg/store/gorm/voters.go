package gorm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// VoteRight returns the flag for account
func (s *Store) VoteRight(ctx context.Context, account common.Address) (bool, error) {
	var exists bool
	if err := s.db.WithContext(ctx).Raw(
		`SELECT EXISTS(SELECT 1 FROM voters WHERE account = ?)`, accountKey(account),
	).Scan(&exists).Error; err != nil {
		return false, fmt.Errorf("failed to check vote right: %w", err)
	}
	return exists, nil
}

// SetVoteRight sets the flag for account
func (s *Store) SetVoteRight(ctx context.Context, account common.Address, voter bool) (bool, error) {
	db := s.db.WithContext(ctx)
	if voter {
		res := db.Exec(
			`INSERT INTO voters (account, created_at) VALUES (?, NOW()) ON CONFLICT (account) DO NOTHING`,
			accountKey(account),
		)
		if res.Error != nil {
			return false, fmt.Errorf("failed to add voter: %w", res.Error)
		}
		return res.RowsAffected > 0, nil
	}

	res := db.Exec(`DELETE FROM voters WHERE account = ?`, accountKey(account))
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove voter: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Voters returns every account whose flag is true
func (s *Store) Voters(ctx context.Context) ([]common.Address, error) {
	var accounts []string
	if err := s.db.WithContext(ctx).Raw(`SELECT account FROM voters ORDER BY account`).Scan(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list voters: %w", err)
	}
	return toAddresses(accounts), nil
}
