package audit

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/identity"
)

var (
	deployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	alice    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	minter   = accesscontrol.RoleFromName("MINTER")
)

func grantedLog() event.Event {
	return event.Event{
		ID:      "01HQXYZ",
		TxID:    "01HQTX",
		Index:   0,
		Kind:    event.KindRoleGranted,
		Role:    minter,
		Account: alice,
		Sender:  deployer,
		Time:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	logger.Log(RoleEvent{Log: grantedLog(), ClientIP: "192.168.1.1"})

	output := buf.String()

	if !strings.HasPrefix(output, "<85>1 ") {
		t.Errorf("Expected PRI <85> and version 1, got %q", output)
	}
	if !strings.Contains(output, "voterlist") {
		t.Error("Expected app name 'voterlist' in output")
	}
	if !strings.Contains(output, "role-granted") {
		t.Error("Expected message ID 'role-granted' in output")
	}
	if !strings.Contains(output, accesscontrol.FormatAccount(alice)) {
		t.Error("Expected account in output")
	}
	if !strings.Contains(output, `ip="192.168.1.1"`) {
		t.Error("Expected client IP in output")
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Expected trailing newline")
	}
}

func TestFormatStructuredData(t *testing.T) {
	got := formatStructuredData(map[string]map[string]string{
		SDIDSubject: {"role": "r", "account": "a"},
		SDIDAction:  {"operation": "op"},
	})
	want := `[action@32473 operation="op"][subject@32473 account="a" role="r"]`
	if got != want {
		t.Errorf("formatStructuredData() = %q, want %q", got, want)
	}

	if got := formatStructuredData(nil); got != "" {
		t.Errorf("formatStructuredData(nil) = %q, want empty", got)
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`a"b`, `"a\"b"`},
		{`a]b`, `"a\]b"`},
		{`a\b`, `"a\\b"`},
	}
	for _, tt := range tests {
		if got := escapeSDValue(tt.in); got != tt.want {
			t.Errorf("escapeSDValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoleEvent(t *testing.T) {
	revoked := grantedLog()
	revoked.Kind = event.KindRoleRevoked
	revoked.Sender = deployer

	renounced := grantedLog()
	renounced.Kind = event.KindRoleRevoked
	renounced.Sender = alice

	adminChanged := grantedLog()
	adminChanged.Kind = event.KindRoleAdminChanged
	adminChanged.Account = common.Address{}
	adminChanged.PreviousAdminRole = accesscontrol.DefaultAdminRole
	adminChanged.NewAdminRole = accesscontrol.RoleFromName("MINTER_ADMIN")

	tests := []struct {
		name      string
		log       event.Event
		wantMsg   string
		wantMsgID string
	}{
		{"granted", grantedLog(), "granted", "role-granted"},
		{"revoked", revoked, "revoked", "role-revoked"},
		{"renounced", renounced, "renounced", "role-revoked"},
		{"admin changed", adminChanged, "changed the admin role", "role-admin-changed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := RoleEvent{Log: tt.log, ClientIP: "10.0.0.1"}
			if !strings.Contains(e.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", e.Message(), tt.wantMsg)
			}
			if e.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %q, want %q", e.MessageID(), tt.wantMsgID)
			}
			if e.Severity() != SeverityNotice {
				t.Errorf("Severity() = %v, want %v", e.Severity(), SeverityNotice)
			}
			if e.Facility() != FacilityAuthPriv {
				t.Errorf("Facility() = %d, want %d", e.Facility(), FacilityAuthPriv)
			}
			sd := e.StructuredData()
			if sd[SDIDSubject]["role"] != minter.Hex() {
				t.Errorf("subject role = %q, want %q", sd[SDIDSubject]["role"], minter.Hex())
			}
			if sd[SDIDTx]["id"] != "01HQTX" {
				t.Errorf("tx id = %q, want 01HQTX", sd[SDIDTx]["id"])
			}
		})
	}

	sd := RoleEvent{Log: adminChanged}.StructuredData()
	if _, ok := sd[SDIDSubject]["account"]; ok {
		t.Error("Expected no account for admin role change")
	}
	if sd[SDIDSubject]["new_admin_role"] != adminChanged.NewAdminRole.Hex() {
		t.Error("Expected new admin role in structured data")
	}
}

func TestVoterEvent(t *testing.T) {
	added := grantedLog()
	added.Kind = event.KindVoterAdded
	added.Role = common.Hash{}

	removed := added
	removed.Kind = event.KindVoterRemoved

	if e := (VoterEvent{Log: added}); e.MessageID() != "voter-added" || !strings.Contains(e.Message(), "gave the vote right") {
		t.Errorf("unexpected voter added event: %s %s", e.MessageID(), e.Message())
	}
	if e := (VoterEvent{Log: removed}); e.MessageID() != "voter-removed" || !strings.Contains(e.Message(), "took the vote right") {
		t.Errorf("unexpected voter removed event: %s %s", e.MessageID(), e.Message())
	}

	sd := VoterEvent{Log: added, ClientIP: "10.0.0.2"}.StructuredData()
	if sd[SDIDSubject]["account"] != accesscontrol.FormatAccount(alice) {
		t.Errorf("subject account = %q", sd[SDIDSubject]["account"])
	}
	if sd[SDIDClient]["ip"] != "10.0.0.2" {
		t.Errorf("client ip = %q", sd[SDIDClient]["ip"])
	}
}

func TestMutationEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   MutationEvent
		wantMsg string
		wantSev Severity
		wantRes string
	}{
		{
			name:    "changed",
			event:   MutationEvent{Operation: "addVoters", Caller: deployer, TxID: "tx", Changes: 2, Success: true},
			wantMsg: "2 change(s)",
			wantSev: SeverityInfo,
			wantRes: "success",
		},
		{
			name:    "no change",
			event:   MutationEvent{Operation: "addVoter", Caller: deployer, TxID: "tx", Success: true},
			wantMsg: "no change",
			wantSev: SeverityInfo,
			wantRes: "success",
		},
		{
			name:    "rejected",
			event:   MutationEvent{Operation: "grantRole", Caller: alice, ErrorMessage: "missing role"},
			wantMsg: "failed to call grantRole: missing role",
			wantSev: SeverityWarning,
			wantRes: "failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if got := tt.event.StructuredData()[SDIDAction]["result"]; got != tt.wantRes {
				t.Errorf("result = %q, want %q", got, tt.wantRes)
			}
		})
	}

	if _, ok := (MutationEvent{}).StructuredData()[SDIDTx]; ok {
		t.Error("Expected no tx SD-ID without a transaction")
	}
}

func TestFromLog(t *testing.T) {
	log := grantedLog()
	if _, ok := FromLog(log, "-").(RoleEvent); !ok {
		t.Error("Expected RoleEvent for role log")
	}
	log.Kind = event.KindVoterAdded
	if _, ok := FromLog(log, "-").(VoterEvent); !ok {
		t.Error("Expected VoterEvent for voter log")
	}
}

func TestObserver(t *testing.T) {
	var got []Event
	obs := &Observer{Log: func(e Event) { got = append(got, e) }}

	ctx := identity.Set(context.Background(),
		identity.Operator(deployer).WithRemoteIP(net.ParseIP("10.1.2.3")))

	receipt := &event.Receipt{
		TxID:      "01HQTX",
		Operation: accesscontrol.OpGrantRole,
		Sender:    deployer,
		Logs:      []event.Event{grantedLog()},
	}
	obs.Committed(ctx, receipt)

	if len(got) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(got))
	}
	if ev, ok := got[0].(RoleEvent); !ok || ev.ClientIP != "10.1.2.3" {
		t.Errorf("Expected RoleEvent from 10.1.2.3, got %#v", got[0])
	}
	if ev, ok := got[1].(MutationEvent); !ok || !ev.Success || ev.Changes != 1 {
		t.Errorf("Expected successful MutationEvent, got %#v", got[1])
	}

	got = nil
	obs.Rejected(context.Background(), accesscontrol.OpGrantRole, alice, errors.New("denied"))
	if len(got) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(got))
	}
	ev, ok := got[0].(MutationEvent)
	if !ok || ev.Success || ev.ErrorMessage != "denied" || ev.ClientIP != "-" {
		t.Errorf("unexpected rejection event %#v", got[0])
	}
}

func TestSetEnabledConcurrent(t *testing.T) {
	defer SetEnabled(true)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(enabled bool) {
			defer wg.Done()
			SetEnabled(enabled)
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			_ = IsEnabled()
		}()
	}
	wg.Wait()

	SetEnabled(true)
	if !IsEnabled() {
		t.Error("Expected audit logging to be enabled")
	}
}

func TestSetEnabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)
	if IsEnabled() {
		t.Error("Expected audit logging to be disabled")
	}
}
