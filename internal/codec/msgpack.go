package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/subway-runner/internal/registry"
)

func init() {
	registry.Register("msgpack", func() registry.Codec { return MsgPack{} })
}

// MsgPack encodes snapshots as MessagePack binary frames. Struct fields use
// their json tags so both formats share one set of field names.
type MsgPack struct{}

func (MsgPack) Name() string        { return "msgpack" }
func (MsgPack) ContentType() string { return "application/msgpack" }
func (MsgPack) Binary() bool        { return true }

func (MsgPack) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgPack) Decode(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
