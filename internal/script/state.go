package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// State wraps a gopher-lua interpreter restricted to safe libraries.
//
// gopher-lua's LState is not goroutine-safe, so every operation takes
// the mutex. One State backs exactly one loaded action.
type State struct {
	L *lua.LState

	mu     sync.Mutex
	closed bool
}

// NewState creates a sandboxed interpreter. Only the base, table,
// string, and math libraries are opened; io, os, debug, and package
// stay out so scripts cannot reach the host directly.
func NewState() *State {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	return &State{L: L}
}

// LoadChunk compiles and executes path, returning the single value the
// chunk produced. A chunk that returns nothing yields lua.LNil.
func (s *State) LoadChunk(path string) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	var value lua.LValue = lua.LNil
	err := s.doWithRecovery(func() error {
		fn, err := s.L.LoadFile(path)
		if err != nil {
			return err
		}
		s.L.Push(fn)
		if err := s.L.PCall(0, 1, nil); err != nil {
			return err
		}
		value = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return value, err
}

// CallProtected invokes fn under the state mutex with panic recovery.
// The callback receives the raw LState; it must not retain it.
func (s *State) CallProtected(fn func(L *lua.LState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	return s.doWithRecovery(func() error { return fn(s.L) })
}

// doWithRecovery executes fn, converting interpreter panics to errors.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the interpreter. Further operations return
// ErrStateClosed. Close is idempotent.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
