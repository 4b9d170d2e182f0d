package sdk

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// Default pagination used when ListOptions leaves a field at zero.
const (
	DefaultPage         = 1
	DefaultItemsPerPage = 20
)

// Object is an open-ended JSON object that keeps the server's key order.
// Nested objects decode as Object, arrays as []any and numbers as json.Number.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject builds an Object from alternating key/value pairs.
func NewObject(pairs ...any) Object {
	var o Object
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		o.Set(key, pairs[i+1])
	}
	return o
}

// Len returns the number of members.
func (o Object) Len() int { return len(o.keys) }

// Keys returns member names in order.
func (o Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Get returns the member named key.
func (o Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set adds or replaces a member. New keys are appended.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes a member.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Map converts the object, recursively, into plain Go maps.
func (o Object) Map() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = plainValue(o.values[k])
	}
	return out
}

func plainValue(v any) any {
	switch val := v.(type) {
	case Object:
		return val.Map()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}

func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Object) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid JSON object")
	}
	parsed := gjson.ParseBytes(data)
	if parsed.Type == gjson.Null {
		*o = Object{}
		return nil
	}
	if !parsed.IsObject() {
		return errors.New("expected JSON object")
	}
	decoded, _ := resultValue(parsed).(Object)
	*o = decoded
	return nil
}

func resultValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False, gjson.True:
		return r.Bool()
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		return r.String()
	}
	if r.IsArray() {
		items := make([]any, 0)
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, resultValue(value))
			return true
		})
		return items
	}
	obj := Object{}
	r.ForEach(func(key, value gjson.Result) bool {
		obj.Set(key.String(), resultValue(value))
		return true
	})
	return obj
}

// Pagination accompanies every list response.
type Pagination struct {
	TotalPages   int `json:"total_pages"`
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
}

// ListResponse is one page of a list endpoint, in server order.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// HasNextPage reports whether pages remain after this one.
func (l ListResponse[T]) HasNextPage() bool {
	return l.Pagination.CurrentPage < l.Pagination.TotalPages
}

// ListOptions selects a page. Zero fields fall back to page 1 and 20 items.
type ListOptions struct {
	Page         int
	ItemsPerPage int
}

// Validate rejects negative page numbers or sizes.
func (o ListOptions) Validate() error {
	if o.Page < 0 {
		return invalidField("page", "must be at least 1")
	}
	if o.ItemsPerPage < 0 {
		return invalidField("items_per_page", "must be at least 1")
	}
	return nil
}

func (o ListOptions) page() int {
	if o.Page == 0 {
		return DefaultPage
	}
	return o.Page
}

func (o ListOptions) itemsPerPage() int {
	if o.ItemsPerPage == 0 {
		return DefaultItemsPerPage
	}
	return o.ItemsPerPage
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(o.page()))
	q.Set("items_per_page", strconv.Itoa(o.itemsPerPage()))
	return q
}
