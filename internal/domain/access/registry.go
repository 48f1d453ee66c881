package access

import (
	"fmt"
	"sync"

	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

// ContainerMode is the mode of the parent container
const ContainerMode = ModeDir | 0555

// Registry manages one container and the endpoints below it
type Registry struct {
	registrar Registrar
	root      string

	mu       sync.Mutex
	parent   *Node
	children []*Node
}

// NewRegistry creates a registry for the container named root
func NewRegistry(registrar Registrar, root string) *Registry {
	return &Registry{
		registrar: registrar,
		root:      root,
	}
}

// Root returns the container name
func (r *Registry) Root() string { return r.root }

// CreateParent registers the container
func (r *Registry) CreateParent() (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.parent != nil {
		return nil, fault.Newf(fault.KindResource, "create_parent", "%s already created", r.root)
	}
	node, err := r.registrar.RegisterNode(r.root, ContainerMode, Ops{})
	if err != nil {
		return nil, asResource("create_parent", err)
	}
	r.parent = node
	return node, nil
}

// Create registers an endpoint under the container and binds ops to it
func (r *Registry) Create(name string, mode Mode, ops Ops) (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.parent == nil {
		return nil, fault.Newf(fault.KindResource, "create", "%s: container %s missing", name, r.root)
	}
	node, err := r.registrar.RegisterNode(r.root+"/"+name, mode.Perm(), ops)
	if err != nil {
		return nil, asResource("create", err)
	}
	r.children = append(r.children, node)
	return node, nil
}

// Remove unregisters a single endpoint. Unknown names are ignored.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, node := range r.children {
		if node.Name == name {
			r.registrar.UnregisterSubtree(node.Path)
			r.children = append(r.children[:i], r.children[i+1:]...)
			return
		}
	}
}

// DestroyAll removes the container and every endpoint in one call. It is
// safe on a partially built or already destroyed set.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.registrar.UnregisterSubtree(r.root)
	r.parent = nil
	r.children = nil
}

// Children returns the registered endpoints in creation order
func (r *Registry) Children() []*Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Node, len(r.children))
	copy(out, r.children)
	return out
}

func asResource(op string, err error) error {
	if fault.KindOf(err) == fault.KindResource {
		return err
	}
	return fault.New(fault.KindResource, op, fmt.Errorf("registration failed: %w", err))
}
