package service

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec marshals plain Go messages as JSON. Connect's built-in "json"
// codec only accepts protobuf messages, so this one replaces it on both
// handlers and clients.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
