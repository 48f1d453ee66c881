package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/procintf/internal/domain/access"
	"github.com/GriffinCanCode/procintf/internal/domain/endpoint"
	"github.com/GriffinCanCode/procintf/internal/domain/state"
	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

// Config describes the interface to build
type Config struct {
	Name       string
	PageOffset uint64
}

// Allocator creates the shared context store
type Allocator func(opts ...state.Option) (*state.Store, error)

func defaultAllocator(opts ...state.Option) (*state.Store, error) {
	return state.New(opts...), nil
}

// Manager owns the registry and the store between Start and Stop
type Manager struct {
	cfg       Config
	registrar access.Registrar
	alloc     Allocator
	storeOpts []state.Option
	logger    *zap.Logger
	observe   func(State)
	onLevel   func(int)

	mu       sync.Mutex
	state    State
	registry *access.Registry
	store    *state.Store
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger attaches a logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithAllocator replaces the store allocator
func WithAllocator(alloc Allocator) Option {
	return func(m *Manager) {
		m.alloc = alloc
	}
}

// WithStoreOptions passes options to the allocator
func WithStoreOptions(opts ...state.Option) Option {
	return func(m *Manager) {
		m.storeOpts = append(m.storeOpts, opts...)
	}
}

// WithStateObserver is called on every transition
func WithStateObserver(fn func(State)) Option {
	return func(m *Manager) {
		m.observe = fn
	}
}

// WithLevelHook forwards debug level changes from the endpoints
func WithLevelHook(fn func(level int)) Option {
	return func(m *Manager) {
		m.onLevel = fn
	}
}

// NewManager creates a manager that registers through registrar
func NewManager(registrar access.Registrar, cfg Config, opts ...Option) *Manager {
	if cfg.Name == "" {
		cfg.Name = endpoint.DefaultName
	}
	m := &Manager{
		cfg:       cfg,
		registrar: registrar,
		alloc:     defaultAllocator,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) set(s State) {
	m.state = s
	if m.observe != nil {
		m.observe(s)
	}
}

// Start builds the container, the store and the four endpoints. On
// failure everything built so far is undone before Start returns.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateStart && m.state != StateStopped {
		return fault.Newf(fault.KindResource, "start", "already in state %s", m.state)
	}
	m.set(StateStart)

	var undo []func()
	fail := func(step State, err error) error {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		m.set(StateStart)
		m.logger.Error("Initialization failed, rolled back",
			zap.String("name", m.cfg.Name),
			zap.String("failed_step", step.String()),
			zap.Int("undone", len(undo)),
			zap.Error(err),
		)
		return fmt.Errorf("initialize %s at %s: %w", m.cfg.Name, step, err)
	}

	registry := access.NewRegistry(m.registrar, m.cfg.Name)
	if _, err := registry.CreateParent(); err != nil {
		return fail(StateParentCreated, err)
	}
	undo = append(undo, registry.DestroyAll)
	m.set(StateParentCreated)

	store, err := m.alloc(m.storeOpts...)
	if err != nil {
		return fail(StateCtxAllocated, fault.New(fault.KindResource, "alloc_context", err))
	}
	undo = append(undo, store.Close)
	m.set(StateCtxAllocated)

	handlers := endpoint.New(store,
		endpoint.WithName(m.cfg.Name),
		endpoint.WithPageOffset(m.cfg.PageOffset),
		endpoint.WithLogger(m.logger),
		endpoint.WithLevelHook(m.onLevel),
	)
	for i, e := range handlers.Table() {
		step := StateEP1Created + State(i)
		if _, err := registry.Create(e.Name, e.Mode, e.Ops); err != nil {
			return fail(step, err)
		}
		name := e.Name
		undo = append(undo, func() { registry.Remove(name) })
		m.set(step)
	}

	m.registry = registry
	m.store = store
	m.set(StateReady)

	m.logger.Info("Interface initialized",
		zap.String("name", m.cfg.Name),
		zap.Int("endpoints", len(registry.Children())),
	)
	return nil
}

// Stop tears the interface down. It is a no-op unless the manager is READY.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return
	}

	// Background cannot be cancelled and the store is open, so this succeeds.
	_ = m.store.Do(context.Background(), func(g *state.Guard) error {
		g.SetPower(false)
		return nil
	})
	m.registry.DestroyAll()
	m.store.Close()

	m.registry = nil
	m.store = nil
	m.set(StateStopped)

	m.logger.Info("Interface removed", zap.String("name", m.cfg.Name))
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Name returns the container name
func (m *Manager) Name() string {
	return m.cfg.Name
}
