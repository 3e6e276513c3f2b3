package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/upxsys/upx-go/pkg/client"
)

// parseParams builds call parameters from an optional JSON object followed by
// key=value arguments. Keys may use bracket paths: "filter[name]=x" sets
// params[filter][name], and an empty segment ("ids[]=1") appends the next
// numeric index. Later arguments replace earlier values at the same path.
func parseParams(jsonParams string, args []string) (*client.Node, error) {
	params := client.NewNode()
	if strings.TrimSpace(jsonParams) != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(jsonParams)))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("--json must be a JSON object: %w", err)
		}
		v, err := client.From(obj)
		if err != nil {
			return nil, fmt.Errorf("--json: %w", err)
		}
		params = v.(*client.Node)
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q: expected key=value", arg)
		}
		path, err := splitKey(key)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", arg, err)
		}
		if err := setPath(params, path, value); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", arg, err)
		}
	}
	return params, nil
}

// splitKey splits "a[b][c]" into [a b c].
func splitKey(key string) ([]string, error) {
	root, rest, hasBrackets := strings.Cut(key, "[")
	if root == "" {
		return nil, fmt.Errorf("empty key")
	}
	path := []string{root}
	if !hasBrackets {
		return path, nil
	}

	rest = "[" + rest
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("unexpected %q after ]", rest)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated [")
		}
		seg := rest[1:end]
		if strings.Contains(seg, "[") {
			return nil, fmt.Errorf("nested [ in %q", seg)
		}
		path = append(path, seg)
		rest = rest[end+1:]
	}
	return path, nil
}

func setPath(n *client.Node, path []string, value string) error {
	key := path[0]
	if key == "" {
		key = strconv.Itoa(n.Len())
	}
	if len(path) == 1 {
		n.SetString(key, value)
		return nil
	}

	child := client.NewNode()
	if existing, ok := n.Get(key); ok {
		node, isNode := existing.(*client.Node)
		if !isNode {
			return fmt.Errorf("%s is already set to a value", key)
		}
		child = node
	} else {
		n.Set(key, child)
	}
	return setPath(child, path[1:], value)
}
