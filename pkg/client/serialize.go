package client

import "strings"

// Serialize flattens v into a form-encoded query string.
//
// Leaves are emitted as key=value; nested nodes extend the key with
// bracketed child keys (auth[account]=A, params[filter][name]=x). Keys and
// values are encoded with URL-component rules. Pairs are joined with "&" in
// node insertion order; empty nodes emit nothing.
//
// prefix is the key under which v lives. A top-level node is serialized with
// an empty prefix; a bare Leaf with no prefix yields just its encoded value.
func Serialize(v Value, prefix string) string {
	if leaf, ok := v.(Leaf); ok && prefix == "" {
		return EncodeComponent(string(leaf))
	}
	var pairs []string
	pairs = appendPairs(pairs, v, prefix)
	return strings.Join(pairs, "&")
}

// appendPairs always emits key=value for leaves, even under an empty key.
func appendPairs(pairs []string, v Value, prefix string) []string {
	switch t := v.(type) {
	case Leaf:
		return append(pairs, EncodeComponent(prefix)+"="+EncodeComponent(string(t)))
	case *Node:
		if t == nil {
			return pairs
		}
		for _, e := range t.entries {
			key := e.Key
			if prefix != "" {
				key = prefix + "[" + e.Key + "]"
			}
			pairs = appendPairs(pairs, e.Value, key)
		}
	}
	return pairs
}

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s the way browsers encode a URI component:
// every byte except A-Z a-z 0-9 and -_.!~*'() is escaped, spaces become %20.
func EncodeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
