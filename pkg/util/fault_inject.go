package util

import (
	"sync"
	"sync/atomic"
)

// FaultScope groups injected faults so tests of one component can switch
// them on without touching others.
type FaultScope int

const (
	FaultScopeScan FaultScope = iota
	faultScopeCount
)

type FaultAction struct {
	Args   []string
	Action func(args []string) error
}

func (fa *FaultAction) Run() error {
	return fa.Action(fa.Args)
}

type faultSet struct {
	enabled atomic.Bool
	actions sync.Map
}

var faults [faultScopeCount]faultSet

func validScope(scope FaultScope) bool {
	return scope >= 0 && scope < faultScopeCount
}

func EnableFaults(scope FaultScope) {
	if validScope(scope) {
		faults[scope].enabled.Store(true)
	}
}

// DisableFaults switches the scope off and drops its registered faults.
func DisableFaults(scope FaultScope) {
	if !validScope(scope) {
		return
	}
	faults[scope].enabled.Store(false)
	faults[scope].actions.Clear()
}

// InjectFault registers action under name. It is ignored while the scope is
// disabled.
func InjectFault(scope FaultScope, name string, args []string, action func(args []string) error) {
	if !validScope(scope) || !faults[scope].enabled.Load() {
		return
	}
	faults[scope].actions.Store(name, &FaultAction{Args: args, Action: action})
}

func CheckFault(scope FaultScope, name string) *FaultAction {
	if !validScope(scope) || !faults[scope].enabled.Load() {
		return nil
	}
	val, ok := faults[scope].actions.Load(name)
	if !ok {
		return nil
	}
	return val.(*FaultAction)
}
