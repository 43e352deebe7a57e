package audit

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
)

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RoleEvent records a committed role membership or admin change
type RoleEvent struct {
	Log      event.Event
	ClientIP string
}

func (e RoleEvent) MessageID() string {
	switch e.Log.Kind {
	case event.KindRoleGranted:
		return "role-granted"
	case event.KindRoleRevoked:
		return "role-revoked"
	default:
		return "role-admin-changed"
	}
}

func (e RoleEvent) Message() string {
	sender := accesscontrol.FormatAccount(e.Log.Sender)
	role := accesscontrol.RoleLabel(e.Log.Role)
	account := accesscontrol.FormatAccount(e.Log.Account)

	switch e.Log.Kind {
	case event.KindRoleGranted:
		return fmt.Sprintf("%s granted %s to %s", sender, role, account)
	case event.KindRoleRevoked:
		if e.Log.Sender == e.Log.Account {
			return fmt.Sprintf("%s renounced %s", sender, role)
		}
		return fmt.Sprintf("%s revoked %s from %s", sender, role, account)
	default:
		return fmt.Sprintf("%s changed the admin role of %s from %s to %s",
			sender, role,
			accesscontrol.RoleLabel(e.Log.PreviousAdminRole),
			accesscontrol.RoleLabel(e.Log.NewAdminRole))
	}
}

func (e RoleEvent) Severity() Severity {
	return SeverityNotice
}

func (e RoleEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RoleEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": accesscontrol.FormatAccount(e.Log.Sender),
		},
		SDIDSubject: {
			"role": e.Log.Role.Hex(),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Log.Kind.String(),
			"result":    "success",
		},
		SDIDTx: {
			"id":    e.Log.TxID,
			"index": fmt.Sprintf("%d", e.Log.Index),
		},
	}
	if e.Log.Kind == event.KindRoleAdminChanged {
		sd[SDIDSubject]["previous_admin_role"] = e.Log.PreviousAdminRole.Hex()
		sd[SDIDSubject]["new_admin_role"] = e.Log.NewAdminRole.Hex()
	} else {
		sd[SDIDSubject]["account"] = accesscontrol.FormatAccount(e.Log.Account)
	}
	return sd
}

// VoterEvent records a committed change of an account's vote right
type VoterEvent struct {
	Log      event.Event
	ClientIP string
}

func (e VoterEvent) MessageID() string {
	if e.Log.Kind == event.KindVoterAdded {
		return "voter-added"
	}
	return "voter-removed"
}

func (e VoterEvent) Message() string {
	sender := accesscontrol.FormatAccount(e.Log.Sender)
	account := accesscontrol.FormatAccount(e.Log.Account)
	if e.Log.Kind == event.KindVoterAdded {
		return fmt.Sprintf("%s gave the vote right to %s", sender, account)
	}
	return fmt.Sprintf("%s took the vote right from %s", sender, account)
}

func (e VoterEvent) Severity() Severity {
	return SeverityNotice
}

func (e VoterEvent) Facility() int {
	return FacilityAuthPriv
}

func (e VoterEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": accesscontrol.FormatAccount(e.Log.Sender),
		},
		SDIDSubject: {
			"account": accesscontrol.FormatAccount(e.Log.Account),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Log.Kind.String(),
			"result":    "success",
		},
		SDIDTx: {
			"id":    e.Log.TxID,
			"index": fmt.Sprintf("%d", e.Log.Index),
		},
	}
}

// MutationEvent records the outcome of a mutation as a whole. Committed
// mutations that changed nothing and rejected mutations are only visible
// through this event.
type MutationEvent struct {
	Operation    string
	Caller       common.Address
	ClientIP     string
	TxID         string
	Changes      int
	Success      bool
	ErrorMessage string
}

func (e MutationEvent) MessageID() string {
	return "mutation"
}

func (e MutationEvent) Message() string {
	caller := accesscontrol.FormatAccount(e.Caller)
	if e.Success {
		if e.Changes == 0 {
			return fmt.Sprintf("%s called %s: no change", caller, e.Operation)
		}
		return fmt.Sprintf("%s called %s: %d change(s)", caller, e.Operation, e.Changes)
	}
	msg := fmt.Sprintf("%s failed to call %s", caller, e.Operation)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e MutationEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e MutationEvent) Facility() int {
	return FacilityAuthPriv
}

func (e MutationEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": accesscontrol.FormatAccount(e.Caller),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
	if e.TxID != "" {
		sd[SDIDTx] = map[string]string{"id": e.TxID}
	}
	return sd
}

// FromLog converts a committed event log entry into its audit event.
func FromLog(log event.Event, clientIP string) Event {
	switch log.Kind {
	case event.KindVoterAdded, event.KindVoterRemoved:
		return VoterEvent{Log: log, ClientIP: clientIP}
	default:
		return RoleEvent{Log: log, ClientIP: clientIP}
	}
}
