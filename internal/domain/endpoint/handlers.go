package endpoint

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/procintf/internal/domain/access"
	"github.com/GriffinCanCode/procintf/internal/domain/state"
	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

// Endpoint names
const (
	PrimaryConfig  = "primary-config"
	ShowPageOffset = "show-page-offset"
	ShowContext    = "show-context"
	DebugLevel     = "debug-level"
)

// DefaultName is the product name reported by show-context
const DefaultName = "procintf"

// Entry binds a name and mode to a handler table
type Entry struct {
	Name string
	Mode access.Mode
	Ops  access.Ops
}

// Handlers serves the four endpoints from one store
type Handlers struct {
	store      *state.Store
	name       string
	pageOffset uint64
	logger     *zap.Logger
	onLevel    func(level int)
}

// Option configures Handlers
type Option func(*Handlers)

// WithName sets the product name shown by show-context
func WithName(name string) Option {
	return func(h *Handlers) {
		h.name = name
	}
}

// WithPageOffset overrides the platform page offset. Zero keeps the default.
func WithPageOffset(v uint64) Option {
	return func(h *Handlers) {
		if v != 0 {
			h.pageOffset = v
		}
	}
}

// WithLogger attaches a logger
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handlers) {
		h.logger = logger
	}
}

// WithLevelHook is called with the new debug level on every change. It
// runs with the store lock held and must not block.
func WithLevelHook(fn func(level int)) Option {
	return func(h *Handlers) {
		h.onLevel = fn
	}
}

// New creates the handlers for store
func New(store *state.Store, opts ...Option) *Handlers {
	h := &Handlers{
		store:      store,
		name:       DefaultName,
		pageOffset: platformPageOffset,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Table returns the endpoints in creation order
func (h *Handlers) Table() []Entry {
	return []Entry{
		{Name: PrimaryConfig, Mode: 0644, Ops: access.Ops{Show: h.ShowConfig, Apply: h.ApplyConfig}},
		{Name: ShowPageOffset, Mode: 0444, Ops: access.Ops{Show: h.ShowPageOffset}},
		{Name: ShowContext, Mode: 0440, Ops: access.Ops{Show: h.ShowContext}},
		{Name: DebugLevel, Mode: 0644, Ops: access.Ops{Show: h.ShowDebugLevel, Apply: h.ApplyDebugLevel}},
	}
}

// ShowConfig renders config1 in decimal and hex
func (h *Handlers) ShowConfig(ctx context.Context) (string, error) {
	var out string
	err := h.store.Do(ctx, func(g *state.Guard) error {
		v := g.Config1()
		out = fmt.Sprintf("config1:%d,0x%x\n", v, v)
		g.AddTX(len(out))
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// ApplyConfig sets config1, and with it the debug level
func (h *Handlers) ApplyConfig(ctx context.Context, data []byte) (int, error) {
	text, err := bounded(PrimaryConfig, data, PrimaryConfigMaxBytes)
	if err != nil {
		h.reject(ctx, PrimaryConfig, err)
		return 0, err
	}

	var v uint32
	err = h.store.Do(ctx, func(g *state.Guard) error {
		parsed, perr := parseUnsigned(text)
		if perr != nil {
			g.IncErrors()
			return fault.Newf(fault.KindValidation, PrimaryConfig, "parse %q: %w", text, perr)
		}
		v = parsed
		g.SetLevel(v)
		g.AddRX(len(data))
		h.levelChanged(g.Level())
		return nil
	})
	if err != nil {
		h.logger.Debug("Write rejected", zap.String("endpoint", PrimaryConfig), zap.Error(err))
		return 0, err
	}

	h.logger.Debug("Config updated", zap.Uint32("config1", v))
	return len(data), nil
}

// ShowPageOffset renders the platform page offset. The value never
// changes, so no lock is taken.
func (h *Handlers) ShowPageOffset(ctx context.Context) (string, error) {
	return fmt.Sprintf("PAGE_OFFSET:0x%x\n", h.pageOffset), nil
}

// ShowContext renders one consistent snapshot of the shared context
func (h *Handlers) ShowContext(ctx context.Context) (string, error) {
	var out string
	err := h.store.Do(ctx, func(g *state.Guard) error {
		s := g.Snapshot()
		out = fmt.Sprintf("prodname:%s\n"+
			"tx:%d,rx:%d,err:%d,myword:%d,auxword:%d,power:%d\n"+
			"config1:0x%x,config2:0x%x,config3:0x%x\n"+
			"oursecret:%s\n",
			h.name,
			s.TX, s.RX, s.Errors, s.MyWord, s.AuxWord, boolInt(s.Power),
			s.Config1, s.Config2, s.Config3,
			s.Secret)
		g.AddTX(len(out))
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// ShowDebugLevel renders the debug level
func (h *Handlers) ShowDebugLevel(ctx context.Context) (string, error) {
	var out string
	err := h.store.Do(ctx, func(g *state.Guard) error {
		out = fmt.Sprintf("debug_level:%d\n", g.Level())
		g.AddTX(len(out))
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// ApplyDebugLevel sets the debug level, and with it config1. Values
// outside the allowed range fail and put the level back to its default.
func (h *Handlers) ApplyDebugLevel(ctx context.Context, data []byte) (int, error) {
	text, err := bounded(DebugLevel, data, DebugLevelMaxBytes)
	if err != nil {
		h.reject(ctx, DebugLevel, err)
		return 0, err
	}

	var d int32
	err = h.store.Do(ctx, func(g *state.Guard) error {
		parsed, perr := parseSigned(text)
		overflow := errors.Is(perr, strconv.ErrRange)
		if perr != nil && !overflow {
			g.IncErrors()
			return fault.Newf(fault.KindValidation, DebugLevel, "parse %q: %w", text, perr)
		}
		d = parsed
		if overflow || d < state.DebugLevelMin || d > state.DebugLevelMax {
			g.ResetLevel()
			g.IncErrors()
			h.levelChanged(g.Level())
			return fault.Newf(fault.KindRange, DebugLevel, "%s not in [%d,%d], reset to %d",
				text, state.DebugLevelMin, state.DebugLevelMax, state.DebugLevelDefault)
		}
		g.SetLevel(uint32(d))
		g.AddRX(len(data))
		h.levelChanged(g.Level())
		return nil
	})
	if err != nil {
		if fault.KindOf(err) == fault.KindRange {
			h.logger.Warn("Invalid debug level, reset to default",
				zap.String("requested", text),
				zap.Int("min", state.DebugLevelMin),
				zap.Int("max", state.DebugLevelMax),
			)
		} else {
			h.logger.Debug("Write rejected", zap.String("endpoint", DebugLevel), zap.Error(err))
		}
		return 0, err
	}

	h.logger.Debug("Debug level updated", zap.Int32("debug_level", d))
	return len(data), nil
}

func (h *Handlers) levelChanged(level int) {
	if h.onLevel != nil {
		h.onLevel(level)
	}
}

// reject counts a write that failed validation before reaching the lock
func (h *Handlers) reject(ctx context.Context, endpoint string, cause error) {
	h.logger.Debug("Write rejected", zap.String("endpoint", endpoint), zap.Error(cause))
	_ = h.store.Do(ctx, func(g *state.Guard) error {
		g.IncErrors()
		return nil
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
