package state

// Guard grants access to the shared state while the lock is held
type Guard struct {
	s *Store
}

func (g *Guard) store() *Store {
	if g.s == nil {
		panic("state: use of released guard")
	}
	return g.s
}

// Release unlocks the store. Releasing twice panics.
func (g *Guard) Release() {
	s := g.store()
	g.s = nil
	s.sem.Release(1)
}

// Config1 returns the primary configuration value
func (g *Guard) Config1() uint32 {
	return g.store().data.config1
}

// Level returns the debug level
func (g *Guard) Level() int {
	return g.store().level
}

// SetLevel writes v to both the primary configuration value and the debug
// level. It is the only write path for either, which keeps them mirrored.
func (g *Guard) SetLevel(v uint32) {
	s := g.store()
	s.data.config1 = v
	s.level = int(v)
}

// ResetLevel puts the debug level back to its default without touching
// the primary configuration value.
func (g *Guard) ResetLevel() {
	g.store().level = DebugLevelDefault
}

// SetPower sets the power flag
func (g *Guard) SetPower(on bool) {
	g.store().data.power = on
}

// AddTX accounts n bytes handed out to readers
func (g *Guard) AddTX(n int) {
	g.store().data.tx += uint64(n)
}

// AddRX accounts n bytes accepted from writers
func (g *Guard) AddRX(n int) {
	g.store().data.rx += uint64(n)
}

// IncErrors counts a failed operation
func (g *Guard) IncErrors() {
	g.store().data.errs++
}

// Snapshot copies every field at once
func (g *Guard) Snapshot() Snapshot {
	s := g.store()
	d := s.data
	return Snapshot{
		TX:         d.tx,
		RX:         d.rx,
		Errors:     d.errs,
		MyWord:     d.words[0],
		AuxWord:    d.words[1],
		Power:      d.power,
		Config1:    d.config1,
		Config2:    d.config2,
		Config3:    d.config3,
		Secret:     d.secretString(),
		DebugLevel: s.level,
	}
}
