package gorm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/voterlist/pkg/model"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
)

func roleKey(role common.Hash) string {
	return role.Hex()
}

func accountKey(account common.Address) string {
	return strings.ToLower(account.Hex())
}

// HasMember checks if account is a member of role
func (s *Store) HasMember(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).Raw(
		`SELECT EXISTS(SELECT 1 FROM role_members WHERE role_id = ? AND account = ?)`,
		roleKey(role), accountKey(account),
	).Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role membership: %w", err)
	}
	return exists, nil
}

// AddMember appends account to role at the next free position
func (s *Store) AddMember(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	res := s.db.WithContext(ctx).Exec(`
		INSERT INTO role_members (role_id, account, position)
		SELECT ?, ?, COUNT(*) FROM role_members WHERE role_id = ?
		ON CONFLICT (role_id, account) DO NOTHING
	`, roleKey(role), accountKey(account), roleKey(role))
	if res.Error != nil {
		return false, fmt.Errorf("failed to add role member: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// RemoveMember removes account from role and moves the last member into
// the freed position
func (s *Store) RemoveMember(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	db := s.db.WithContext(ctx)

	var positions []int
	if err := db.Raw(
		`SELECT position FROM role_members WHERE role_id = ? AND account = ?`,
		roleKey(role), accountKey(account),
	).Scan(&positions).Error; err != nil {
		return false, fmt.Errorf("failed to fetch role member: %w", err)
	}
	if len(positions) == 0 {
		return false, nil
	}

	if err := db.Exec(
		`DELETE FROM role_members WHERE role_id = ? AND account = ?`,
		roleKey(role), accountKey(account),
	).Error; err != nil {
		return false, fmt.Errorf("failed to delete role member: %w", err)
	}

	// After the delete the last member sits at position COUNT(*). When the
	// removed member was the last one nothing matches.
	if err := db.Exec(`
		UPDATE role_members SET position = ?
		WHERE role_id = ? AND position = (SELECT COUNT(*) FROM role_members WHERE role_id = ?)
	`, positions[0], roleKey(role), roleKey(role)).Error; err != nil {
		return false, fmt.Errorf("failed to compact role members: %w", err)
	}
	return true, nil
}

// MemberCount counts members of a role
func (s *Store) MemberCount(ctx context.Context, role common.Hash) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM role_members WHERE role_id = ?`, roleKey(role),
	).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count role members: %w", err)
	}
	return int(count), nil
}

// MemberAt returns the member at position index
func (s *Store) MemberAt(ctx context.Context, role common.Hash, index int) (common.Address, error) {
	var accounts []string
	if err := s.db.WithContext(ctx).Raw(
		`SELECT account FROM role_members WHERE role_id = ? AND position = ?`, roleKey(role), index,
	).Scan(&accounts).Error; err != nil {
		return common.Address{}, fmt.Errorf("failed to fetch role member: %w", err)
	}
	if len(accounts) == 0 {
		return common.Address{}, store.ErrMemberNotFound
	}
	return common.HexToAddress(accounts[0]), nil
}

// Members returns all members of a role in position order
func (s *Store) Members(ctx context.Context, role common.Hash) ([]common.Address, error) {
	var accounts []string
	if err := s.db.WithContext(ctx).Raw(
		`SELECT account FROM role_members WHERE role_id = ? ORDER BY position`, roleKey(role),
	).Scan(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list role members: %w", err)
	}
	return toAddresses(accounts), nil
}

// RoleAdmin returns the configured admin role
func (s *Store) RoleAdmin(ctx context.Context, role common.Hash) (common.Hash, error) {
	var admins []string
	if err := s.db.WithContext(ctx).Raw(
		`SELECT admin_role_id FROM role_admins WHERE role_id = ?`, roleKey(role),
	).Scan(&admins).Error; err != nil {
		return common.Hash{}, fmt.Errorf("failed to fetch role admin: %w", err)
	}
	if len(admins) == 0 {
		return common.Hash{}, nil
	}
	return common.HexToHash(admins[0]), nil
}

// SetRoleAdmin configures the admin role of role
func (s *Store) SetRoleAdmin(ctx context.Context, role, admin common.Hash) error {
	db := s.db.WithContext(ctx)
	if admin == (common.Hash{}) {
		if err := db.Exec(`DELETE FROM role_admins WHERE role_id = ?`, roleKey(role)).Error; err != nil {
			return fmt.Errorf("failed to reset role admin: %w", err)
		}
		return nil
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"admin_role_id"}),
	}).Create(&model.RoleAdmin{
		RoleID:      roleKey(role),
		AdminRoleID: roleKey(admin),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to set role admin: %w", err)
	}
	return nil
}

func toAddresses(accounts []string) []common.Address {
	out := make([]common.Address, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, common.HexToAddress(a))
	}
	return out
}
