package state

import "fmt"

// Payload is the sealed set of state operations. Only the types below
// implement it, so the handler's dispatch is exhaustive.
type Payload interface {
	PartitionKey() string
	payload()
}

// Load retrieves the value under Key.
type Load[K comparable] struct {
	Key K
}

func (p Load[K]) PartitionKey() string { return fmt.Sprintf("%v", p.Key) }
func (p Load[K]) payload()             {}

// Store unconditionally sets Key to New.
type Store[K, V comparable] struct {
	Key K
	New V
}

func (p Store[K, V]) PartitionKey() string { return fmt.Sprintf("%v", p.Key) }
func (p Store[K, V]) payload()             {}

// CompareAndSwap replaces Old with New under Key when Old still holds.
type CompareAndSwap[K, V comparable] struct {
	Key K
	Old V
	New V
}

func (p CompareAndSwap[K, V]) PartitionKey() string { return fmt.Sprintf("%v", p.Key) }
func (p CompareAndSwap[K, V]) payload()             {}

// CompareAndDelete removes Key when it still holds Old.
type CompareAndDelete[K, V comparable] struct {
	Key K
	Old V
}

func (p CompareAndDelete[K, V]) PartitionKey() string { return fmt.Sprintf("%v", p.Key) }
func (p CompareAndDelete[K, V]) payload()             {}

// Source asks the handler for its observation sink.
type Source struct{}

func (Source) PartitionKey() string { return "" }
func (Source) payload()             {}
