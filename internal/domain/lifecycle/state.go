package lifecycle

// State is a lifecycle position
type State int

const (
	StateStart State = iota
	StateParentCreated
	StateCtxAllocated
	StateEP1Created
	StateEP2Created
	StateEP3Created
	StateEP4Created
	StateReady
	StateStopped
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateParentCreated:
		return "PARENT_CREATED"
	case StateCtxAllocated:
		return "CTX_ALLOCATED"
	case StateEP1Created:
		return "EP1_CREATED"
	case StateEP2Created:
		return "EP2_CREATED"
	case StateEP3Created:
		return "EP3_CREATED"
	case StateEP4Created:
		return "EP4_CREATED"
	case StateReady:
		return "READY"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}
