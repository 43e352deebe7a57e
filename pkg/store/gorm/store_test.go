package gorm

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
)

var (
	role     = common.HexToHash("0x1d2b7e2a25d0b6b4d8f4a2c3e1f7a9b8c6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f1")
	roleHex  = "0x1d2b7e2a25d0b6b4d8f4a2c3e1f7a9b8c6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f1"
	alice    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	aliceHex = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	bob      = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	bobHex   = "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"
)

type Suite struct {
	suite.Suite
	store *Store
	mock  sqlmock.Sqlmock
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	var (
		db  *sql.DB
		err error
	)

	db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	s.store = New(gormDB)
	s.ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestGormStore(t *testing.T) {
	suite.Run(t, new(Suite))
}

func (s *Suite) TestTransactionCommit() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(AdvisoryLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(`INSERT INTO role_members`).
		WithArgs(roleHex, aliceHex, roleHex).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	var added bool
	err := s.store.Transaction(s.ctx, func(tx store.Store) error {
		var err error
		added, err = tx.AddMember(s.ctx, role, alice)
		return err
	})
	s.NoError(err)
	s.True(added)
}

func (s *Suite) TestTransactionRollback() {
	boom := errors.New("boom")

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(AdvisoryLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectExec(`INSERT INTO voters`).
		WithArgs(aliceHex).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectRollback()

	err := s.store.Transaction(s.ctx, func(tx store.Store) error {
		if _, err := tx.SetVoteRight(s.ctx, alice, true); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)
}

func (s *Suite) TestTransactionNested() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(AdvisoryLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	calls := 0
	err := s.store.Transaction(s.ctx, func(tx store.Store) error {
		return tx.Transaction(s.ctx, func(inner store.Store) error {
			calls++
			return nil
		})
	})
	s.NoError(err)
	s.Equal(1, calls)
}

func (s *Suite) TestTransactionLockFailure() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(AdvisoryLockKey).
		WillReturnError(errors.New("connection reset"))
	s.mock.ExpectRollback()

	err := s.store.Transaction(s.ctx, func(tx store.Store) error {
		s.Fail("fn must not run without the lock")
		return nil
	})
	s.ErrorContains(err, "failed to acquire registry lock")
}

func (s *Suite) TestCheckConnectivity() {
	s.mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.NoError(s.store.CheckConnectivity(s.ctx))
}

func (s *Suite) TestDeployment() {
	deployedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	s.mock.ExpectQuery(`SELECT \* FROM "deployments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "deployer", "tx_id", "deployed_at"}))
	_, err := s.store.Deployment(s.ctx)
	s.ErrorIs(err, store.ErrNotDeployed)

	s.mock.ExpectQuery(`SELECT \* FROM "deployments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "deployer", "tx_id", "deployed_at"}).
			AddRow(1, aliceHex, "01HQ", deployedAt))
	d, err := s.store.Deployment(s.ctx)
	s.Require().NoError(err)
	s.Equal(alice, d.Deployer)
	s.Equal("01HQ", d.TxID)
	s.Equal(deployedAt, d.DeployedAt)
}

func (s *Suite) TestCreateDeployment() {
	deployedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d := store.Deployment{Deployer: alice, TxID: "01HQ", DeployedAt: deployedAt}

	s.mock.ExpectExec(`INSERT INTO deployments`).
		WithArgs(aliceHex, "01HQ", deployedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.NoError(s.store.CreateDeployment(s.ctx, d))

	s.mock.ExpectExec(`INSERT INTO deployments`).
		WithArgs(aliceHex, "01HQ", deployedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.ErrorIs(s.store.CreateDeployment(s.ctx, d), store.ErrAlreadyDeployed)
}

func (s *Suite) TestHasMember() {
	s.mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM role_members`).
		WithArgs(roleHex, aliceHex).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.store.HasMember(s.ctx, role, alice)
	s.NoError(err)
	s.True(ok)
}

func (s *Suite) TestHasMemberError() {
	s.mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM role_members`).
		WithArgs(roleHex, aliceHex).
		WillReturnError(errors.New("boom"))

	_, err := s.store.HasMember(s.ctx, role, alice)
	s.ErrorContains(err, "failed to check role membership")
}

func (s *Suite) TestAddMemberExisting() {
	s.mock.ExpectExec(`INSERT INTO role_members`).
		WithArgs(roleHex, aliceHex, roleHex).
		WillReturnResult(sqlmock.NewResult(0, 0))

	added, err := s.store.AddMember(s.ctx, role, alice)
	s.NoError(err)
	s.False(added)
}

func (s *Suite) TestRemoveMember() {
	s.mock.ExpectQuery(`SELECT position FROM role_members`).
		WithArgs(roleHex, aliceHex).
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(0))
	s.mock.ExpectExec(`DELETE FROM role_members`).
		WithArgs(roleHex, aliceHex).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`UPDATE role_members SET position`).
		WithArgs(0, roleHex, roleHex).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := s.store.RemoveMember(s.ctx, role, alice)
	s.NoError(err)
	s.True(removed)
}

func (s *Suite) TestRemoveMemberMissing() {
	s.mock.ExpectQuery(`SELECT position FROM role_members`).
		WithArgs(roleHex, aliceHex).
		WillReturnRows(sqlmock.NewRows([]string{"position"}))

	removed, err := s.store.RemoveMember(s.ctx, role, alice)
	s.NoError(err)
	s.False(removed)
}

func (s *Suite) TestMemberCount() {
	s.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM role_members`).
		WithArgs(roleHex).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := s.store.MemberCount(s.ctx, role)
	s.NoError(err)
	s.Equal(2, count)
}

func (s *Suite) TestMemberAt() {
	s.mock.ExpectQuery(`SELECT account FROM role_members WHERE role_id = \$1 AND position = \$2`).
		WithArgs(roleHex, 1).
		WillReturnRows(sqlmock.NewRows([]string{"account"}).AddRow(bobHex))

	account, err := s.store.MemberAt(s.ctx, role, 1)
	s.NoError(err)
	s.Equal(bob, account)

	s.mock.ExpectQuery(`SELECT account FROM role_members WHERE role_id = \$1 AND position = \$2`).
		WithArgs(roleHex, 7).
		WillReturnRows(sqlmock.NewRows([]string{"account"}))

	_, err = s.store.MemberAt(s.ctx, role, 7)
	s.ErrorIs(err, store.ErrMemberNotFound)
}

func (s *Suite) TestMembers() {
	s.mock.ExpectQuery(`SELECT account FROM role_members WHERE role_id = \$1 ORDER BY position`).
		WithArgs(roleHex).
		WillReturnRows(sqlmock.NewRows([]string{"account"}).AddRow(bobHex).AddRow(aliceHex))

	members, err := s.store.Members(s.ctx, role)
	s.NoError(err)
	s.Equal([]common.Address{bob, alice}, members)
}

func (s *Suite) TestRoleAdmin() {
	admin := common.HexToHash("0xad")

	s.mock.ExpectQuery(`SELECT admin_role_id FROM role_admins`).
		WithArgs(roleHex).
		WillReturnRows(sqlmock.NewRows([]string{"admin_role_id"}))
	got, err := s.store.RoleAdmin(s.ctx, role)
	s.NoError(err)
	s.Equal(common.Hash{}, got)

	s.mock.ExpectQuery(`SELECT admin_role_id FROM role_admins`).
		WithArgs(roleHex).
		WillReturnRows(sqlmock.NewRows([]string{"admin_role_id"}).AddRow(admin.Hex()))
	got, err = s.store.RoleAdmin(s.ctx, role)
	s.NoError(err)
	s.Equal(admin, got)
}

func (s *Suite) TestSetRoleAdmin() {
	admin := common.HexToHash("0xad")

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "role_admins" .* ON CONFLICT \("role_id"\) DO UPDATE`).
		WithArgs(roleHex, admin.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()
	s.NoError(s.store.SetRoleAdmin(s.ctx, role, admin))

	s.mock.ExpectExec(`DELETE FROM role_admins`).
		WithArgs(roleHex).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.NoError(s.store.SetRoleAdmin(s.ctx, role, common.Hash{}))
}

func (s *Suite) TestVoteRight() {
	s.mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM voters`).
		WithArgs(aliceHex).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := s.store.VoteRight(s.ctx, alice)
	s.NoError(err)
	s.False(ok)
}

func (s *Suite) TestSetVoteRight() {
	tests := []struct {
		name     string
		voter    bool
		sql      string
		affected int64
		changed  bool
	}{
		{name: "add new voter", voter: true, sql: `INSERT INTO voters`, affected: 1, changed: true},
		{name: "add existing voter", voter: true, sql: `INSERT INTO voters`, affected: 0, changed: false},
		{name: "remove voter", voter: false, sql: `DELETE FROM voters`, affected: 1, changed: true},
		{name: "remove non-voter", voter: false, sql: `DELETE FROM voters`, affected: 0, changed: false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.mock.ExpectExec(tt.sql).
				WithArgs(aliceHex).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			changed, err := s.store.SetVoteRight(s.ctx, alice, tt.voter)
			s.NoError(err)
			s.Equal(tt.changed, changed)
		})
	}
}

func (s *Suite) TestVoters() {
	s.mock.ExpectQuery(`SELECT account FROM voters ORDER BY account`).
		WillReturnRows(sqlmock.NewRows([]string{"account"}).AddRow(bobHex).AddRow(aliceHex))

	voters, err := s.store.Voters(s.ctx)
	s.NoError(err)
	s.Equal([]common.Address{bob, alice}, voters)
}

func (s *Suite) TestAppendEvents() {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "contract_events"`).
		WithArgs(
			"01A", "01T", 0, "RoleGranted", roleHex, aliceHex, bobHex, nil, nil, at,
			"01B", "01T", 1, "VoterAdded", nil, aliceHex, bobHex, nil, nil, at,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectCommit()

	err := s.store.AppendEvents(s.ctx, []event.Event{
		{ID: "01A", TxID: "01T", Index: 0, Kind: event.KindRoleGranted, Role: role, Account: alice, Sender: bob, Time: at},
		{ID: "01B", TxID: "01T", Index: 1, Kind: event.KindVoterAdded, Account: alice, Sender: bob, Time: at},
	})
	s.NoError(err)

	s.NoError(s.store.AppendEvents(s.ctx, nil))
}

func (s *Suite) TestFilterEvents() {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "tx_id", "log_index", "kind", "role_id", "account", "sender", "previous_admin_role_id", "new_admin_role_id", "created_at"}

	s.mock.ExpectQuery(`SELECT \* FROM "contract_events" WHERE kind IN .* AND role_id IN .* AND account IN .* AND sender = .* ORDER BY seq LIMIT 10`).
		WithArgs("RoleGranted", "RoleRevoked", roleHex, aliceHex, bobHex).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("01A", "01T", 0, "RoleGranted", roleHex, aliceHex, bobHex, nil, nil, at).
			AddRow("01B", "01U", 0, "RoleRevoked", roleHex, aliceHex, bobHex, nil, nil, at))

	events, err := s.store.FilterEvents(s.ctx, event.Filter{
		Kinds:    []event.Kind{event.KindRoleGranted, event.KindRoleRevoked},
		Roles:    []common.Hash{role},
		Accounts: []common.Address{alice},
		Sender:   &bob,
		Limit:    10,
	})
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(event.KindRoleGranted, events[0].Kind)
	s.Equal(role, events[0].Role)
	s.Equal(alice, events[0].Account)
	s.Equal(bob, events[0].Sender)
	s.Equal(event.KindRoleRevoked, events[1].Kind)
}

func (s *Suite) TestFilterEventsAdminChanged() {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "tx_id", "log_index", "kind", "role_id", "account", "sender", "previous_admin_role_id", "new_admin_role_id", "created_at"}
	admin := common.HexToHash("0xad")

	s.mock.ExpectQuery(`SELECT \* FROM "contract_events" ORDER BY seq`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("01A", "01T", 0, "RoleAdminChanged", roleHex, nil, bobHex, common.Hash{}.Hex(), admin.Hex(), at))

	events, err := s.store.FilterEvents(s.ctx, event.Filter{})
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(event.KindRoleAdminChanged, events[0].Kind)
	s.Equal(common.Hash{}, events[0].PreviousAdminRole)
	s.Equal(admin, events[0].NewAdminRole)
	s.Equal(common.Address{}, events[0].Account)
}

func (s *Suite) TestFilterEventsUnknownKind() {
	columns := []string{"id", "tx_id", "log_index", "kind", "role_id", "account", "sender", "previous_admin_role_id", "new_admin_role_id", "created_at"}

	s.mock.ExpectQuery(`SELECT \* FROM "contract_events"`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("01A", "01T", 0, "Bogus", nil, aliceHex, bobHex, nil, nil, time.Now()))

	_, err := s.store.FilterEvents(s.ctx, event.Filter{})
	s.Error(err)
}
