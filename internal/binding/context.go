// Package binding resolves {{source.path}} tokens in page content against the
// entities bound to one render: the product, category, customer or collection
// being shown.
//
// Resolution never fails. A token whose source is not bound is left as-is so
// authors can spot typos; a path that does not resolve becomes "".
package binding

import "encoding/json"

type Source string

const (
	SourceProduct    Source = "product"
	SourceCategory   Source = "category"
	SourceCustomer   Source = "customer"
	SourceCollection Source = "collection"
)

// Record is one bound entity as a JSON-like tree.
type Record map[string]any

// Context is the set of entities available to a single resolve pass.
// It must not be modified while a pass is running.
type Context map[Source]Record

// RecordOf converts any JSON-encodable value (usually a domain model) into a
// Record, using the value's JSON field names.
func RecordOf(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// With returns a copy of ctx with src bound to r. A nil r unbinds src.
func (ctx Context) With(src Source, r Record) Context {
	out := make(Context, len(ctx)+1)
	for k, v := range ctx {
		out[k] = v
	}
	if r == nil {
		delete(out, src)
	} else {
		out[src] = r
	}
	return out
}
