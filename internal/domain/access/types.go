package access

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/procintf/internal/shared/id"
)

// Mode holds unix permission bits plus the directory flag
type Mode uint32

// ModeDir marks a container node
const ModeDir Mode = 1 << 31

const (
	permRead  Mode = 04
	permWrite Mode = 02
)

// Perm returns the permission bits
func (m Mode) Perm() Mode { return m & 0777 }

// IsDir reports whether the directory flag is set
func (m Mode) IsDir() bool { return m&ModeDir != 0 }

// String renders the mode in octal, prefixed with "d" for containers
func (m Mode) String() string {
	if m.IsDir() {
		return fmt.Sprintf("d%04o", uint32(m.Perm()))
	}
	return fmt.Sprintf("%04o", uint32(m.Perm()))
}

// Capability is what a node's handler table can do
type Capability int

const (
	ReadOnly Capability = iota
	ReadWrite
)

// String returns the capability name
func (c Capability) String() string {
	switch c {
	case ReadOnly:
		return "READ_ONLY"
	case ReadWrite:
		return "READ_WRITE"
	default:
		return "UNKNOWN"
	}
}

// ShowFunc renders the current state as text
type ShowFunc func(ctx context.Context) (string, error)

// ApplyFunc parses data and applies it, returning the bytes accepted
type ApplyFunc func(ctx context.Context, data []byte) (int, error)

// Ops is the handler table bound to a node at registration
type Ops struct {
	Show  ShowFunc
	Apply ApplyFunc
}

// Capability derives the capability from the table
func (o Ops) Capability() Capability {
	if o.Apply != nil {
		return ReadWrite
	}
	return ReadOnly
}

func (o Ops) empty() bool {
	return o.Show == nil && o.Apply == nil
}

// Caller identifies who issues a request
type Caller struct {
	UID uint32
	GID uint32
}

// Root is the superuser caller
var Root = Caller{}

// Nobody is the unprivileged overflow identity
var Nobody = Caller{UID: 65534, GID: 65534}

// Registrar is the registration service of the host environment
type Registrar interface {
	RegisterNode(path string, mode Mode, ops Ops) (*Node, error)
	UnregisterSubtree(root string)
}

// Node is a registered access point or container
type Node struct {
	ID   id.NodeID
	Path string
	Name string
	Mode Mode
	UID  uint32
	GID  uint32

	ops Ops
}

// IsDir reports whether the node is a container
func (n *Node) IsDir() bool { return n.Mode.IsDir() }

// Capability returns the node's capability
func (n *Node) Capability() Capability { return n.ops.Capability() }

// allowed checks the mode bits for the caller's class
func (n *Node) allowed(c Caller, bit Mode) bool {
	if c.UID == 0 {
		return true
	}
	perm := n.Mode.Perm()
	switch {
	case c.UID == n.UID:
		return perm&(bit<<6) != 0
	case c.GID == n.GID:
		return perm&(bit<<3) != 0
	default:
		return perm&bit != 0
	}
}

// NodeInfo describes a node for listings
type NodeInfo struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	Mode       string `json:"mode"`
	Capability string `json:"capability,omitempty"`
	Dir        bool   `json:"dir"`
}

// Info returns the listing view of the node
func (n *Node) Info() NodeInfo {
	info := NodeInfo{
		ID:   n.ID.String(),
		Path: n.Path,
		Mode: n.Mode.String(),
		Dir:  n.IsDir(),
	}
	if !n.IsDir() {
		info.Capability = n.Capability().String()
	}
	return info
}
