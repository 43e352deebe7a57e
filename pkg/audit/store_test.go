package audit

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,    // facility
			int(SeverityNotice), // severity
			sqlmock.AnyArg(),    // timestamp
			sqlmock.AnyArg(),    // hostname
			"voterlist",         // appname
			sqlmock.AnyArg(),    // procid
			"role-granted",      // msgid
			sqlmock.AnyArg(),    // sdata (JSON)
			sqlmock.AnyArg(),    // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(RoleEvent{Log: grantedLog(), ClientIP: "10.0.0.1"})
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveMutationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityWarning),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"voterlist",
			sqlmock.AnyArg(),
			"mutation",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnError(errors.New("connection reset"))

	err = store.SaveContext(context.Background(), MutationEvent{
		Operation:    "addVoter",
		Caller:       alice,
		ErrorMessage: "missing role",
	})
	if err == nil {
		t.Error("Expected error from Save()")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveVoterEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	log := grantedLog()
	log.Kind = event.KindVoterAdded

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityNotice),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"voterlist",
			sqlmock.AnyArg(),
			"voter-added",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(VoterEvent{Log: log}); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{}
	if err := store.Save(MutationEvent{}); err != nil {
		t.Errorf("Save() with nil db error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() with nil db error = %v", err)
	}
}

func TestNewStoreWithoutURL(t *testing.T) {
	t.Setenv("AUDIT_DATABASE_URL", "")
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store != nil {
		t.Error("Expected nil store without AUDIT_DATABASE_URL")
	}
}

func TestStoreObserverSavesEachEventOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	var errs bytes.Buffer
	errorOutput = &errs
	defer func() { errorOutput = os.Stderr }()

	t.Setenv("AUDIT_DATABASE_URL", "postgres://127.0.0.1:1/audit?sslmode=disable")
	SetEnabled(true)

	var out bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&out)
	obs := NewStoreObserver(logger, NewStoreWithDB(db))

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"voterlist", sqlmock.AnyArg(), "role-granted", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"voterlist", sqlmock.AnyArg(), "mutation", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	obs.Committed(context.Background(), &event.Receipt{
		TxID:      "01HQTX",
		Operation: accesscontrol.OpGrantRole,
		Sender:    deployer,
		Logs:      []event.Event{grantedLog()},
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
	if errs.Len() != 0 {
		t.Errorf("Expected no save errors, got %q", errs.String())
	}
	if lines := strings.Count(out.String(), "\n"); lines != 2 {
		t.Errorf("Expected 2 log lines, got %d", lines)
	}
	if DefaultStore != nil {
		t.Error("Expected the default store to stay unused")
	}
}
