package matchreport

import (
	"bytes"
	"encoding/json"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

var nullLiteral = []byte("null")

// asList resolves the singleton-vs-array ambiguity of XML-derived JSON.
// Absent, null and blank-string nodes yield an empty list, a lone object
// yields a one-element list and an array is returned element by element.
// Other scalars carry no child elements and are dropped.
func asList(raw []byte) ([][]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return nil, crerr.Wrap(err, "decode node list")
		}
		out := make([][]byte, 0, len(items))
		for _, item := range items {
			out = append(out, item)
		}
		return out, nil
	case '{':
		return [][]byte{trimmed}, nil
	default:
		return nil, nil
	}
}

// List decodes a repeated node that may arrive as a single object or an array.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	items, err := asList(data)
	if err != nil {
		return err
	}

	out := make(List[T], 0, len(items))
	for _, item := range items {
		var v T
		if err := sonic.Unmarshal(item, &v); err != nil {
			return crerr.Wrap(err, "decode list element")
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

// decodeContainer reads a wrapper element such as {"VG": [...]}. When the
// wrapper key is missing the container itself is treated as the node set.
func decodeContainer[T any](raw []byte, child string) ([]T, error) {
	inner := bytes.TrimSpace(raw)
	if len(inner) > 0 && inner[0] == '{' {
		var fields map[string]json.RawMessage
		if err := sonic.Unmarshal(inner, &fields); err != nil {
			return nil, crerr.Wrapf(err, "decode %s container", child)
		}
		if nested, ok := fields[child]; ok {
			inner = nested
		}
	}

	var out List[T]
	if err := out.UnmarshalJSON(inner); err != nil {
		return nil, crerr.Wrapf(err, "decode %s nodes", child)
	}
	return out, nil
}
