package service

import "encoding/json"

// FieldText renders a decoded JSON value as task form text: strings
// verbatim, null as "None", booleans as True/False, numbers as written and
// arrays or objects as compact JSON. Numbers must come from a decoder with
// UseNumber set.
func FieldText(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "None"
	}
	return string(data)
}
