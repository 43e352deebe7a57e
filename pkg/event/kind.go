package event

//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind -json -text -yaml -output kind.gen.go

// Kind names an event in the registry's log.
type Kind int

const (
	KindRoleGranted Kind = iota
	KindRoleRevoked
	KindRoleAdminChanged
	KindVoterAdded
	KindVoterRemoved
)

// IsRoleEvent reports whether events of this kind carry a role identifier.
func (k Kind) IsRoleEvent() bool {
	switch k {
	case KindRoleGranted, KindRoleRevoked, KindRoleAdminChanged:
		return true
	default:
		return false
	}
}
