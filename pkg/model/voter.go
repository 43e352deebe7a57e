package model

import "time"

// Voter marks an account as holding the vote right. Accounts without a row
// have none.
type Voter struct {
	Account   string    `gorm:"column:account;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Voter) TableName() string {
	return "voters"
}
