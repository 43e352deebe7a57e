package gorm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/model"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
)

// Deployment returns the genesis record
func (s *Store) Deployment(ctx context.Context) (*store.Deployment, error) {
	var rows []model.Deployment
	if err := s.db.WithContext(ctx).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch deployment: %w", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotDeployed
	}
	return &store.Deployment{
		Deployer:   common.HexToAddress(rows[0].Deployer),
		TxID:       rows[0].TxID,
		DeployedAt: rows[0].DeployedAt.UTC(),
	}, nil
}

// CreateDeployment stores the genesis record
func (s *Store) CreateDeployment(ctx context.Context, d store.Deployment) error {
	res := s.db.WithContext(ctx).Exec(
		`INSERT INTO deployments (id, deployer, tx_id, deployed_at) VALUES (1, ?, ?, ?) ON CONFLICT (id) DO NOTHING`,
		accountKey(d.Deployer), d.TxID, d.DeployedAt,
	)
	if res.Error != nil {
		return fmt.Errorf("failed to create deployment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrAlreadyDeployed
	}
	return nil
}
