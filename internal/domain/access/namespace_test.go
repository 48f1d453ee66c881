package access

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/procintf/internal/shared/fault"
	"github.com/GriffinCanCode/procintf/internal/shared/id"
)

type countingOps struct {
	shows   atomic.Int32
	applies atomic.Int32
}

func (c *countingOps) readOnly() Ops {
	return Ops{Show: func(ctx context.Context) (string, error) {
		c.shows.Add(1)
		return "value\n", nil
	}}
}

func (c *countingOps) readWrite() Ops {
	ops := c.readOnly()
	ops.Apply = func(ctx context.Context, data []byte) (int, error) {
		c.applies.Add(1)
		return len(data), nil
	}
	return ops
}

func setupNamespace(t *testing.T, ops *countingOps) *Namespace {
	t.Helper()
	ns := NewNamespace(WithOwner(0, 0))
	_, err := ns.RegisterNode("dir", ContainerMode, Ops{})
	require.NoError(t, err)
	_, err = ns.RegisterNode("dir/rw", 0644, ops.readWrite())
	require.NoError(t, err)
	_, err = ns.RegisterNode("dir/ro", 0444, ops.readOnly())
	require.NoError(t, err)
	_, err = ns.RegisterNode("dir/private", 0440, ops.readOnly())
	require.NoError(t, err)
	return ns
}

func TestRegisterNode(t *testing.T) {
	ns := NewNamespace()

	parent, err := ns.RegisterNode("/top/", ContainerMode, Ops{})
	require.NoError(t, err)
	assert.Equal(t, "top", parent.Path)
	assert.True(t, parent.IsDir())
	assert.True(t, id.IsValid(parent.ID.String()))

	child, err := ns.RegisterNode("top/leaf", 0644, Ops{Show: func(context.Context) (string, error) { return "", nil }})
	require.NoError(t, err)
	assert.Equal(t, "leaf", child.Name)
	assert.Equal(t, ReadOnly, child.Capability())
	assert.Equal(t, 2, ns.Len())
}

func TestRegisterNodeRejects(t *testing.T) {
	show := Ops{Show: func(context.Context) (string, error) { return "", nil }}

	tests := []struct {
		name string
		path string
		mode Mode
		ops  Ops
		kind fault.Kind
	}{
		{"empty path", "", 0644, show, fault.KindValidation},
		{"dot segment", "a/../b", 0644, show, fault.KindValidation},
		{"endpoint without handler", "x", 0644, Ops{}, fault.KindValidation},
		{"container with handler", "x", ContainerMode, show, fault.KindValidation},
		{"apply without show", "x", 0644, Ops{Apply: func(context.Context, []byte) (int, error) { return 0, nil }}, fault.KindValidation},
		{"missing parent", "nowhere/x", 0644, show, fault.KindResource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := NewNamespace()
			_, err := ns.RegisterNode(tt.path, tt.mode, tt.ops)
			require.Error(t, err)
			assert.Equal(t, tt.kind, fault.KindOf(err))
			assert.Zero(t, ns.Len())
		})
	}
}

func TestRegisterNodeDuplicate(t *testing.T) {
	ns := NewNamespace()
	_, err := ns.RegisterNode("dir", ContainerMode, Ops{})
	require.NoError(t, err)

	_, err = ns.RegisterNode("dir", ContainerMode, Ops{})
	assert.ErrorIs(t, err, fault.ErrResource)
}

func TestUnregisterSubtree(t *testing.T) {
	ops := &countingOps{}
	ns := setupNamespace(t, ops)
	_, err := ns.RegisterNode("dirx", ContainerMode, Ops{})
	require.NoError(t, err)

	ns.UnregisterSubtree("dir")
	assert.Equal(t, 1, ns.Len(), "sibling with shared prefix must survive")

	_, err = ns.Lookup("dir/rw")
	assert.ErrorIs(t, err, fault.ErrNotFound)

	// Idempotent.
	ns.UnregisterSubtree("dir")
	ns.UnregisterSubtree("")
	assert.Equal(t, 1, ns.Len())
}

func TestReadPermissions(t *testing.T) {
	ops := &countingOps{}
	ns := setupNamespace(t, ops)
	ctx := context.Background()

	tests := []struct {
		name    string
		path    string
		caller  Caller
		wantErr error
	}{
		{"root reads private", "dir/private", Root, nil},
		{"group reads private", "dir/private", Caller{UID: 1000, GID: 0}, nil},
		{"other denied private", "dir/private", Caller{UID: 1000, GID: 1000}, fault.ErrPermission},
		{"other reads world readable", "dir/ro", Caller{UID: 1000, GID: 1000}, nil},
		{"container", "dir", Root, fault.ErrInvalid},
		{"missing", "dir/none", Root, fault.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ns.Read(ctx, tt.path, tt.caller)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "value\n", out)
		})
	}
}

func TestWritePermissions(t *testing.T) {
	ops := &countingOps{}
	ns := setupNamespace(t, ops)
	ctx := context.Background()

	_, err := ns.Write(ctx, "dir/rw", Caller{UID: 1000, GID: 1000}, []byte("1\n"))
	assert.ErrorIs(t, err, fault.ErrPermission)

	_, err = ns.Write(ctx, "dir/ro", Root, []byte("1\n"))
	assert.ErrorIs(t, err, fault.ErrPermission, "root never bypasses capability")

	assert.Zero(t, ops.applies.Load(), "denied callers must not reach the handler")

	n, err := ns.Write(ctx, "dir/rw", Root, []byte("1\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int32(1), ops.applies.Load())
}

func TestList(t *testing.T) {
	ops := &countingOps{}
	ns := setupNamespace(t, ops)

	list := ns.List()
	require.Len(t, list, 4)
	assert.Equal(t, "dir", list[0].Path)
	assert.Equal(t, "d0555", list[0].Mode)
	assert.True(t, list[0].Dir)
	assert.Equal(t, "dir/private", list[1].Path)
	assert.Equal(t, "0440", list[1].Mode)
	assert.Equal(t, "READ_ONLY", list[1].Capability)
	assert.Equal(t, "dir/rw", list[3].Path)
	assert.Equal(t, "READ_WRITE", list[3].Capability)
}
