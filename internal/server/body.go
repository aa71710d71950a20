package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"todod/internal/service"
)

// MaxBodyBytes caps how much of a request body is read.
const MaxBodyBytes = 1 << 20

// missingField is what an absent or null field reads as before validation.
// A body without "title" therefore creates a task titled "None", and one
// without "priority" fails validation.
const missingField = "None"

// readJSONBody returns the request body as a JSON object. Anything other than
// a well-formed object with a usable Content-Length reads as empty.
func readJSONBody(r *http.Request) map[string]any {
	empty := map[string]any{}

	// net/http has already parsed Content-Length: -1 when absent or chunked,
	// and malformed values never reach the handler.
	n := r.ContentLength
	if n <= 0 {
		return empty
	}
	if n > MaxBodyBytes {
		n = MaxBodyBytes
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, n))
	if err != nil || len(data) == 0 {
		return empty
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return empty
	}
	if _, err := dec.Token(); err != io.EOF {
		return empty
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return empty
	}
	return obj
}

// coerceField renders body[key] as text the way the task form expects.
// An absent field reads as missingField.
func coerceField(body map[string]any, key string) string {
	v, ok := body[key]
	if !ok {
		return missingField
	}
	return service.FieldText(v)
}
