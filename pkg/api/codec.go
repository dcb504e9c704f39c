// Package api defines the ExpenseX RPC surface: message types, procedure
// names, handler constructors and clients for the Connect protocol.
//
// Messages are plain Go structs encoded as JSON, so every handler and client
// here is built with the JSON codec from this package instead of protobuf.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName replaces Connect's built-in protojson codec.
const codecName = "json"

type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON configures a handler or client to speak JSON-encoded plain structs.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
