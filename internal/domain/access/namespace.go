package access

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/procintf/internal/shared/fault"
	"github.com/GriffinCanCode/procintf/internal/shared/id"
)

// Namespace is an in-process host for access points. It is safe for
// concurrent use; handler calls run outside the namespace lock.
type Namespace struct {
	mu     sync.RWMutex
	nodes  map[string]*Node
	uid    uint32
	gid    uint32
	logger *zap.Logger
}

// NamespaceOption configures a Namespace
type NamespaceOption func(*Namespace)

// WithOwner sets the owner of every node registered afterwards
func WithOwner(uid, gid uint32) NamespaceOption {
	return func(ns *Namespace) {
		ns.uid = uid
		ns.gid = gid
	}
}

// WithLogger attaches a logger
func WithLogger(logger *zap.Logger) NamespaceOption {
	return func(ns *Namespace) {
		ns.logger = logger
	}
}

// NewNamespace creates an empty namespace owned by root
func NewNamespace(opts ...NamespaceOption) *Namespace {
	ns := &Namespace{
		nodes:  make(map[string]*Node),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ns)
	}
	return ns
}

func cleanPath(p string) (string, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return "", errors.New("empty path")
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", errors.New("invalid path segment in " + p)
		}
	}
	return p, nil
}

// RegisterNode creates a node at p. The parent of p must be a registered
// container; top-level nodes have no parent.
func (ns *Namespace) RegisterNode(p string, mode Mode, ops Ops) (*Node, error) {
	const op = "register_node"

	clean, err := cleanPath(p)
	if err != nil {
		return nil, fault.New(fault.KindValidation, op, err)
	}
	if mode.IsDir() != ops.empty() {
		return nil, fault.Newf(fault.KindValidation, op, "%s: containers take no handlers, endpoints need one", clean)
	}
	if !mode.IsDir() && ops.Show == nil {
		return nil, fault.Newf(fault.KindValidation, op, "%s: endpoint without show handler", clean)
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	if _, exists := ns.nodes[clean]; exists {
		return nil, fault.Newf(fault.KindResource, op, "%s already registered", clean)
	}
	if dir := path.Dir(clean); dir != "." {
		parent, ok := ns.nodes[dir]
		if !ok || !parent.IsDir() {
			return nil, fault.Newf(fault.KindResource, op, "%s: no parent container %s", clean, dir)
		}
	}

	node := &Node{
		ID:   id.NewNodeID(),
		Path: clean,
		Name: path.Base(clean),
		Mode: mode,
		UID:  ns.uid,
		GID:  ns.gid,
		ops:  ops,
	}
	ns.nodes[clean] = node

	ns.logger.Debug("Node registered",
		zap.String("path", clean),
		zap.String("mode", mode.String()),
		zap.String("id", node.ID.String()),
	)
	return node, nil
}

// UnregisterSubtree removes root and everything below it in one step.
// Missing nodes are ignored.
func (ns *Namespace) UnregisterSubtree(root string) {
	clean, err := cleanPath(root)
	if err != nil {
		return
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	removed := 0
	prefix := clean + "/"
	for p := range ns.nodes {
		if p == clean || strings.HasPrefix(p, prefix) {
			delete(ns.nodes, p)
			removed++
		}
	}

	ns.logger.Debug("Subtree unregistered",
		zap.String("root", clean),
		zap.Int("removed", removed),
	)
}

// Lookup returns the node at p
func (ns *Namespace) Lookup(p string) (*Node, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, fault.New(fault.KindNotFound, "lookup", err)
	}

	ns.mu.RLock()
	node, ok := ns.nodes[clean]
	ns.mu.RUnlock()
	if !ok {
		return nil, fault.Newf(fault.KindNotFound, "lookup", "%s", clean)
	}
	return node, nil
}

// List returns every node sorted by path
func (ns *Namespace) List() []NodeInfo {
	ns.mu.RLock()
	out := make([]NodeInfo, 0, len(ns.nodes))
	for _, node := range ns.nodes {
		out = append(out, node.Info())
	}
	ns.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Len returns the number of registered nodes
func (ns *Namespace) Len() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.nodes)
}

// Read dispatches a show request
func (ns *Namespace) Read(ctx context.Context, p string, caller Caller) (string, error) {
	node, err := ns.Lookup(p)
	if err != nil {
		return "", err
	}
	if node.IsDir() {
		return "", fault.Newf(fault.KindValidation, "read", "%s is a container", node.Path)
	}
	if !node.allowed(caller, permRead) {
		return "", fault.Newf(fault.KindPermission, "read", "%s (mode %s)", node.Path, node.Mode)
	}
	return node.ops.Show(ctx)
}

// Write dispatches an apply request
func (ns *Namespace) Write(ctx context.Context, p string, caller Caller, data []byte) (int, error) {
	node, err := ns.Lookup(p)
	if err != nil {
		return 0, err
	}
	if node.IsDir() {
		return 0, fault.Newf(fault.KindValidation, "write", "%s is a container", node.Path)
	}
	if node.Capability() != ReadWrite {
		return 0, fault.Newf(fault.KindPermission, "write", "%s is %s", node.Path, node.Capability())
	}
	if !node.allowed(caller, permWrite) {
		return 0, fault.Newf(fault.KindPermission, "write", "%s (mode %s)", node.Path, node.Mode)
	}
	return node.ops.Apply(ctx, data)
}
