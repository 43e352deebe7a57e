package model

import "time"

// Deployment is the single genesis row of a registry
type Deployment struct {
	ID         int16     `gorm:"column:id;primaryKey;default:1"`
	Deployer   string    `gorm:"column:deployer;not null"`
	TxID       string    `gorm:"column:tx_id;not null"`
	DeployedAt time.Time `gorm:"column:deployed_at;not null"`
}

func (Deployment) TableName() string {
	return "deployments"
}
