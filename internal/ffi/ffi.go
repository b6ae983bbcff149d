// Package ffi holds the cgo-free half of the C library: a session owning the
// configured stack, the flattened result form, and the allocation ledger that
// makes release calls safe to repeat.
package ffi

import (
	"alcyxob/liftplan/internal/app"
	"alcyxob/liftplan/internal/bridge"
	"alcyxob/liftplan/internal/config"
	"alcyxob/liftplan/internal/storage"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/spf13/viper"
)

// Result is an envelope split into the pieces of the C result struct. Data is
// the JSON of Envelope.Data, Error the JSON of the failure.
type Result struct {
	Success bool
	Data    []byte
	Error   []byte
}

// Flatten converts env for the C boundary.
func Flatten(env bridge.Envelope) Result {
	if env.Success {
		return Result{Success: true, Data: env.Data}
	}
	f := env.Error
	if f == nil {
		f = &bridge.Failure{Kind: bridge.KindInternal, Message: "envelope without error"}
	}
	data, err := json.Marshal(f)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"kind":%q,"message":"unencodable failure"}`, bridge.KindInternal))
	}
	return Result{Success: false, Error: data}
}

// Session owns the bridge used by the exported functions. Before Init only
// pure operations work; storage and directory calls fail with io_failure.
type Session struct {
	mu     sync.RWMutex
	app    *app.App
	bridge *bridge.Bridge
}

func NewSession() *Session {
	return &Session{bridge: bridge.New(nil, nil)}
}

// Bridge returns the current bridge.
func (s *Session) Bridge() *bridge.Bridge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bridge
}

// Init loads config.yaml from configDir and rebuilds the stack. The data of
// the result lists the storage schemes that are available.
func (s *Session) Init(ctx context.Context, configDir string) bridge.Envelope {
	cfg, err := config.Load(viper.New(), configDir)
	if err != nil {
		return bridge.Result(nil, fmt.Errorf("load config: %w", err))
	}
	a, err := app.Build(ctx, cfg)
	if err != nil {
		return bridge.Result(nil, err)
	}

	s.mu.Lock()
	old := s.app
	s.app, s.bridge = a, a.Bridge
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}

	schemes := []string{storage.SchemeFile}
	for _, scheme := range []string{storage.SchemeS3, storage.SchemeMongo, storage.SchemeSQLite} {
		if a.Storage.Has(scheme) {
			schemes = append(schemes, scheme)
		}
	}
	log.Printf("INFO: liftplan library initialized (storage: %v)", schemes)
	return bridge.Result(schemes, nil)
}

// Close releases backend connections and falls back to the pure bridge.
func (s *Session) Close() {
	s.mu.Lock()
	old := s.app
	s.app, s.bridge = nil, bridge.New(nil, nil)
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

// Ledger tracks buffers handed to the caller. Only tracked addresses are
// freed, and each one once.
type Ledger struct {
	mu   sync.Mutex
	live map[uintptr]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{live: make(map[uintptr]struct{})}
}

// Track records a new allocation. Zero is ignored.
func (l *Ledger) Track(p uintptr) {
	if p == 0 {
		return
	}
	l.mu.Lock()
	l.live[p] = struct{}{}
	l.mu.Unlock()
}

// Release forgets p and reports whether it was live. Callers free the memory
// only on true.
func (l *Ledger) Release(p uintptr) bool {
	if p == 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.live[p]; !ok {
		return false
	}
	delete(l.live, p)
	return true
}

// Live returns the number of outstanding allocations.
func (l *Ledger) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}
