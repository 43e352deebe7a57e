package model

// RoleAdmin configures the admin role of a role. Roles without a row are
// administered by the all-zero role.
type RoleAdmin struct {
	RoleID      string `gorm:"column:role_id;primaryKey"`
	AdminRoleID string `gorm:"column:admin_role_id;not null"`
}

func (RoleAdmin) TableName() string {
	return "role_admins"
}
