package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

// Dialect selects the text syntax a document is parsed with.
type Dialect int

const (
	DialectJSON Dialect = iota
	DialectJSON5
)

func (d Dialect) String() string {
	switch d {
	case DialectJSON5:
		return "json5"
	default:
		return "json"
	}
}

// DialectForPath picks the dialect from a file suffix. Unknown suffixes are
// treated as regular JSON.
func DialectForPath(path string) Dialect {
	if filepath.Ext(path) == ".json5" {
		return DialectJSON5
	}
	return DialectJSON
}

// Decode parses data into a Value. JSON documents keep their member order;
// JSON5 documents decode through the json5 package, which does not expose
// member order, so their objects carry keys in sorted order instead.
func Decode(data []byte, dialect Dialect) (Value, error) {
	if dialect == DialectJSON5 {
		var raw any
		if err := json5.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return fromDecoded(raw), nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("trailing data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		// bool, string, json.Number or nil.
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]Value, error) {
	arr := make([]Value, 0)
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, err
	}
	return arr, nil
}

// fromDecoded converts the output of an order-blind decoder into the tree
// representation. Object keys come out sorted so results stay deterministic.
func fromDecoded(raw any) Value {
	switch x := raw.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, fromDecoded(x[k]))
		}
		return obj
	case []any:
		arr := make([]Value, len(x))
		for i, item := range x {
			arr[i] = fromDecoded(item)
		}
		return arr
	default:
		return x
	}
}
