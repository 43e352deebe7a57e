package gorm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/model"
)

// AppendEvents adds committed events to the log
func (s *Store) AppendEvents(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.ContractEvent, 0, len(events))
	for _, e := range events {
		rows = append(rows, toModel(e))
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to append events: %w", err)
	}
	return nil
}

// FilterEvents returns logged events matching filter, oldest first
func (s *Store) FilterEvents(ctx context.Context, filter event.Filter) ([]event.Event, error) {
	q := s.db.WithContext(ctx).Model(&model.ContractEvent{})

	if len(filter.Kinds) > 0 {
		kinds := make([]string, 0, len(filter.Kinds))
		for _, k := range filter.Kinds {
			kinds = append(kinds, k.String())
		}
		q = q.Where("kind IN ?", kinds)
	}
	if len(filter.Roles) > 0 {
		roles := make([]string, 0, len(filter.Roles))
		for _, r := range filter.Roles {
			roles = append(roles, roleKey(r))
		}
		q = q.Where("role_id IN ?", roles)
	}
	if len(filter.Accounts) > 0 {
		accounts := make([]string, 0, len(filter.Accounts))
		for _, a := range filter.Accounts {
			accounts = append(accounts, accountKey(a))
		}
		q = q.Where("account IN ?", accounts)
	}
	if filter.Sender != nil {
		q = q.Where("sender = ?", accountKey(*filter.Sender))
	}
	q = q.Order("seq")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []model.ContractEvent
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to filter events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		e, err := fromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func toModel(e event.Event) model.ContractEvent {
	row := model.ContractEvent{
		ID:        e.ID,
		TxID:      e.TxID,
		LogIndex:  e.Index,
		Kind:      e.Kind.String(),
		Sender:    accountKey(e.Sender),
		CreatedAt: e.Time,
	}
	if e.Kind.IsRoleEvent() {
		role := roleKey(e.Role)
		row.RoleID = &role
	}
	if e.Kind == event.KindRoleAdminChanged {
		prev, next := roleKey(e.PreviousAdminRole), roleKey(e.NewAdminRole)
		row.PreviousAdminRoleID = &prev
		row.NewAdminRoleID = &next
	} else {
		account := accountKey(e.Account)
		row.Account = &account
	}
	return row
}

func fromModel(row model.ContractEvent) (event.Event, error) {
	kind, err := event.KindString(row.Kind)
	if err != nil {
		return event.Event{}, fmt.Errorf("event %s: %w", row.ID, err)
	}
	e := event.Event{
		ID:     row.ID,
		TxID:   row.TxID,
		Index:  row.LogIndex,
		Kind:   kind,
		Sender: common.HexToAddress(row.Sender),
		Time:   row.CreatedAt.UTC(),
	}
	if row.RoleID != nil {
		e.Role = common.HexToHash(*row.RoleID)
	}
	if row.Account != nil {
		e.Account = common.HexToAddress(*row.Account)
	}
	if row.PreviousAdminRoleID != nil {
		e.PreviousAdminRole = common.HexToHash(*row.PreviousAdminRoleID)
	}
	if row.NewAdminRoleID != nil {
		e.NewAdminRole = common.HexToHash(*row.NewAdminRoleID)
	}
	return e, nil
}
