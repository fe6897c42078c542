package flexquery

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// recordWriter builds the JSON object of a record, keys are written in the
// order they are added. The first error is kept and returned by MarshalJSON.
type recordWriter struct {
	body bytes.Buffer
	err  error
}

// Embed adds the fields of v, which must marshal to a JSON object.
func (w *recordWriter) Embed(v any) *recordWriter {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("cannot marshal embedded %T: %w", v, err)
		return w
	}
	data = bytes.TrimSpace(data)
	if len(data) < 2 || data[0] != '{' || data[len(data)-1] != '}' {
		w.err = fmt.Errorf("cannot embed %T: not a JSON object", v)
		return w
	}
	if inner := bytes.TrimSpace(data[1 : len(data)-1]); len(inner) > 0 {
		w.sep()
		w.body.Write(inner)
	}
	return w
}

// Field adds the key with the JSON form of value.
func (w *recordWriter) Field(key string, value any) *recordWriter {
	if w.err != nil {
		return w
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot marshal %q: %w", key, err)
		return w
	}
	w.sep()
	w.body.Write(k)
	w.body.WriteByte(':')
	w.body.Write(v)
	return w
}

// FieldIf adds the key only when ok is true.
func (w *recordWriter) FieldIf(ok bool, key string, value any) *recordWriter {
	if !ok {
		return w
	}
	return w.Field(key, value)
}

func (w *recordWriter) sep() {
	if w.body.Len() > 0 {
		w.body.WriteByte(',')
	}
}

// MarshalJSON returns the object built so far.
func (w *recordWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.body.Len()+2)
	out = append(out, '{')
	out = append(out, w.body.Bytes()...)
	return append(out, '}'), nil
}
