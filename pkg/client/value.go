package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// ErrUnsupportedValue is returned by From when a Go value has no parameter
// representation (funcs, channels, complex numbers, maps with non-string keys).
var ErrUnsupportedValue = errors.New("unsupported parameter value")

// Value is a call parameter: either a Leaf or a *Node.
type Value interface {
	isValue()
}

// Leaf is a scalar parameter value, already in its wire string form.
type Leaf string

func (Leaf) isValue() {}

// Entry is a single key/value pair of a Node.
type Entry struct {
	Key   string
	Value Value
}

// Node is an insertion-ordered map of string keys to Values.
// The zero value is an empty node ready to use.
type Node struct {
	entries []Entry
	index   map[string]int
}

func (*Node) isValue() {}

// NewNode returns a node holding the given entries in order.
func NewNode(entries ...Entry) *Node {
	n := &Node{}
	for _, e := range entries {
		n.Set(e.Key, e.Value)
	}
	return n
}

// Set stores v under key. An existing key keeps its position.
func (n *Node) Set(key string, v Value) *Node {
	if v == nil {
		v = &Node{}
	}
	if i, ok := n.index[key]; ok {
		n.entries[i].Value = v
		return n
	}
	if n.index == nil {
		n.index = make(map[string]int)
	}
	n.index[key] = len(n.entries)
	n.entries = append(n.entries, Entry{Key: key, Value: v})
	return n
}

// SetString is shorthand for Set(key, Leaf(s)).
func (n *Node) SetString(key, s string) *Node {
	return n.Set(key, Leaf(s))
}

// Get returns the value stored under key.
func (n *Node) Get(key string) (Value, bool) {
	if n == nil {
		return nil, false
	}
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.entries[i].Value, true
}

// Len returns the number of entries.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.entries)
}

// Keys returns the keys in insertion order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	keys := make([]string, len(n.entries))
	for i, e := range n.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (n *Node) Entries() []Entry {
	if n == nil {
		return nil
	}
	return append([]Entry(nil), n.entries...)
}

// From converts an arbitrary Go value into a Value.
//
// Scalars become Leaves using the same textual form a browser would send
// (true, 42, 1.5). Maps with string keys become Nodes with their keys sorted;
// slices and arrays become Nodes keyed "0", "1", ... nil becomes an empty
// Node and therefore contributes nothing to a serialized body.
func From(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return &Node{}, nil
	case Value:
		return t, nil
	case string:
		return Leaf(t), nil
	case bool:
		return Leaf(strconv.FormatBool(t)), nil
	case int:
		return Leaf(strconv.Itoa(t)), nil
	case int64:
		return Leaf(strconv.FormatInt(t, 10)), nil
	case float64:
		return Leaf(formatFloat(t, 64)), nil
	case json.Number:
		return Leaf(t.String()), nil
	case map[string]any:
		return fromStringMap(t)
	case []any:
		n := &Node{}
		for i, item := range t {
			child, err := From(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Set(strconv.Itoa(i), child)
		}
		return n, nil
	case fmt.Stringer:
		return Leaf(t.String()), nil
	}
	return fromReflect(reflect.ValueOf(v))
}

// MustFrom is like From but panics on error. Useful for literals in tests.
func MustFrom(v any) Value {
	val, err := From(v)
	if err != nil {
		panic(err)
	}
	return val
}

func fromStringMap(m map[string]any) (*Node, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := &Node{}
	for _, k := range keys {
		child, err := From(m[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		n.Set(k, child)
	}
	return n, nil
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return &Node{}, nil
		}
		return From(rv.Elem().Interface())
	case reflect.String:
		return Leaf(rv.String()), nil
	case reflect.Bool:
		return Leaf(strconv.FormatBool(rv.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Leaf(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Leaf(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32:
		return Leaf(formatFloat(rv.Float(), 32)), nil
	case reflect.Float64:
		return Leaf(formatFloat(rv.Float(), 64)), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return &Node{}, nil
		}
		n := &Node{}
		for i := 0; i < rv.Len(); i++ {
			child, err := From(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Set(strconv.Itoa(i), child)
		}
		return n, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrUnsupportedValue, rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return fromStringMap(m)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedValue, rv.Kind())
}

func formatFloat(f float64, bits int) string {
	return strconv.FormatFloat(f, 'f', -1, bits)
}
