// Package querystring converts nested maps to and from bracketed URL query
// parameters, e.g. types[0]=a&filters[kind]=api.
package querystring

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ErrMalformedKey is returned by Decode for keys it cannot place in a tree.
var ErrMalformedKey = errors.New("querystring: malformed key")

// Encode flattens m into URL values. Nil values and empty containers are
// omitted.
func Encode(m map[string]any) url.Values {
	v := url.Values{}
	for k, val := range m {
		encodeValue(v, k, val)
	}
	return v
}

func encodeValue(v url.Values, key string, val any) {
	switch t := val.(type) {
	case nil:
	case map[string]any:
		for k, e := range t {
			encodeValue(v, key+"["+k+"]", e)
		}
	case map[string]string:
		for k, e := range t {
			v.Add(key+"["+k+"]", e)
		}
	case []any:
		for i, e := range t {
			encodeValue(v, key+"["+strconv.Itoa(i)+"]", e)
		}
	case []string:
		for i, e := range t {
			v.Add(key+"["+strconv.Itoa(i)+"]", e)
		}
	case string:
		v.Add(key, t)
	default:
		v.Add(key, fmt.Sprint(t))
	}
}

// Decode rebuilds the nested map from URL values. Containers whose keys are
// all non-negative integers become []any ordered by index. Leaf values stay
// strings; a key repeated without brackets becomes a []any.
func Decode(values url.Values) (map[string]any, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := map[string]any{}
	for _, key := range keys {
		path, err := splitKey(key)
		if err != nil {
			return nil, err
		}
		vals := values[key]
		var leaf any
		if len(vals) == 1 {
			leaf = vals[0]
		} else {
			arr := make([]any, len(vals))
			for i, s := range vals {
				arr[i] = s
			}
			leaf = arr
		}
		if err := insert(root, path, leaf); err != nil {
			return nil, err
		}
	}

	for k, e := range root {
		root[k] = compact(e)
	}
	return root, nil
}

// splitKey turns "a[b][0]" into ["a", "b", "0"].
func splitKey(key string) ([]string, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return []string{key}, nil
	}
	if open == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}

	path := []string{key[:open]}
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path, nil
}

func insert(node map[string]any, path []string, leaf any) error {
	for i, seg := range path[:len(path)-1] {
		if seg == "" {
			seg = strconv.Itoa(len(node))
		}
		child, ok := node[seg]
		if !ok {
			m := map[string]any{}
			node[seg] = m
			node = m
			continue
		}
		m, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %q is both a value and a container",
				ErrMalformedKey, strings.Join(path[:i+1], "."))
		}
		node = m
	}

	last := path[len(path)-1]
	if last == "" {
		if arr, ok := leaf.([]any); ok {
			for _, e := range arr {
				node[strconv.Itoa(len(node))] = e
			}
			return nil
		}
		last = strconv.Itoa(len(node))
	}
	if _, exists := node[last]; exists {
		return fmt.Errorf("%w: %q is both a value and a container",
			ErrMalformedKey, strings.Join(path, "."))
	}
	node[last] = leaf
	return nil
}

func compact(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, e := range m {
		m[k] = compact(e)
	}

	if len(m) == 0 {
		return m
	}
	idx := make([]int, 0, len(m))
	byIdx := make(map[int]any, len(m))
	for k, e := range m {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 || strconv.Itoa(n) != k {
			return m
		}
		idx = append(idx, n)
		byIdx[n] = e
	}
	sort.Ints(idx)
	arr := make([]any, len(idx))
	for i, n := range idx {
		arr[i] = byIdx[n]
	}
	return arr
}
