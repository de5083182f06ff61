// Package rpc holds the wire types shared by the daemon's HTTP and gRPC
// surfaces and the JSON codec the gRPC service is served with.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "rwa.v1.WalletService"

// CodecName is the gRPC content subtype for JSON-encoded messages.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals gRPC messages as JSON.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (Codec) Name() string { return CodecName }

// Method returns the full gRPC method path for name.
func Method(name string) string {
	return "/" + ServiceName + "/" + name
}
