package model

import "time"

// ContractEvent is one entry of the event log. RoleID and Account are the
// indexed fields; they are NULL for events that do not carry them.
type ContractEvent struct {
	ID                  string    `gorm:"column:id;primaryKey"`
	TxID                string    `gorm:"column:tx_id;not null"`
	LogIndex            int       `gorm:"column:log_index;not null"`
	Kind                string    `gorm:"column:kind;not null"`
	RoleID              *string   `gorm:"column:role_id"`
	Account             *string   `gorm:"column:account"`
	Sender              string    `gorm:"column:sender;not null"`
	PreviousAdminRoleID *string   `gorm:"column:previous_admin_role_id"`
	NewAdminRoleID      *string   `gorm:"column:new_admin_role_id"`
	CreatedAt           time.Time `gorm:"column:created_at;not null"`
	// Seq is assigned by the database on insert and orders the log by commit.
	Seq int64 `gorm:"column:seq;->"`
}

func (ContractEvent) TableName() string {
	return "contract_events"
}
