package model

// RoleMember places an account at a dense position within a role
type RoleMember struct {
	RoleID   string `gorm:"column:role_id;primaryKey"`
	Account  string `gorm:"column:account;primaryKey"`
	Position int    `gorm:"column:position;not null"`
}

func (RoleMember) TableName() string {
	return "role_members"
}
