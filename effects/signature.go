package effects

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Signature names an effect operation together with its payload type P
// and its resume type R. Signatures are immutable once declared and are
// the keys handler frames are registered under.
type Signature[P, R any] struct {
	name string
}

// Name returns the declared name of the effect operation.
func (s Signature[P, R]) Name() string { return s.name }

// key is the context key a handler for this signature is stored under.
// The dedicated key type keeps signature lookups from colliding with
// unrelated context values.
func (s Signature[P, R]) key() handlerKey { return handlerKey(s.name) }

type handlerKey string

// SignatureInfo describes one registered effect operation.
type SignatureInfo struct {
	Name    string
	Payload reflect.Type
	Result  reflect.Type
}

var registry = struct {
	mu     sync.Mutex
	byName map[string]SignatureInfo
}{byName: make(map[string]SignatureInfo)}

// NewSignature declares an effect operation. Declaring two operations
// with the same name is a bug in the program, so it panics.
func NewSignature[P, R any](name string) Signature[P, R] {
	info := SignatureInfo{
		Name:    name,
		Payload: reflect.TypeFor[P](),
		Result:  reflect.TypeFor[R](),
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if prev, ok := registry.byName[name]; ok {
		panic(fmt.Sprintf(
			"effects: signature %q already declared with payload %v and result %v",
			name, prev.Payload, prev.Result,
		))
	}
	registry.byName[name] = info

	return Signature[P, R]{name: name}
}

// RegisteredSignatures returns every declared effect operation, sorted
// by name.
func RegisteredSignatures() []SignatureInfo {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	infos := make([]SignatureInfo, 0, len(registry.byName))
	for _, info := range registry.byName {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
