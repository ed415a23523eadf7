package api

import "encoding/json"

// The kitchen list arrives wrapped in up to three levels of {success, data}
// nesting depending on which backend service answered. Shapes are tried in
// order, most-nested first; the first that yields an array wins, and an
// unrecognized shape degrades to an empty list rather than an error.
var kitchenListShapes = []func(json.RawMessage) ([]json.RawMessage, bool){
	nestedShape(3),
	nestedShape(2),
	nestedShape(1),
	arrayShape,
}

func unwrapKitchenList(body []byte) []json.RawMessage {
	for _, shape := range kitchenListShapes {
		if list, ok := shape(body); ok {
			return list
		}
	}
	return nil
}

// nestedShape descends through exactly depth "data" envelopes and expects an
// array at the bottom.
func nestedShape(depth int) func(json.RawMessage) ([]json.RawMessage, bool) {
	return func(raw json.RawMessage) ([]json.RawMessage, bool) {
		node := raw
		for range depth {
			var env struct {
				Data json.RawMessage `json:"data"`
			}
			if json.Unmarshal(node, &env) != nil || len(env.Data) == 0 {
				return nil, false
			}
			node = env.Data
		}
		return arrayShape(node)
	}
}

func arrayShape(raw json.RawMessage) ([]json.RawMessage, bool) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}
