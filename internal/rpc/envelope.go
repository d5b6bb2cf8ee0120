package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/kadchain/internal/identity"
	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type kind int

const (
	kindInvalid kind = iota
	kindRequest
	kindNotification
	kindResponse
)

// envelope is the single wire shape for requests, notifications and responses.
type envelope struct {
	RPCID  string     `json:"rpcId"`
	Method string     `json:"method,omitempty"`
	Params *params    `json:"params,omitempty"`
	Result *result    `json:"result,omitempty"`
	Error  *wireError `json:"error,omitempty"`
}

type params struct {
	Data    json.RawMessage  `json:"data,omitempty"`
	Contact identity.Contact `json:"contact"`
}

type result struct {
	Data    json.RawMessage  `json:"data,omitempty"`
	Contact identity.Contact `json:"contact"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e envelope) kind() kind {
	switch {
	case e.Method != "" && e.Params != nil && e.RPCID == "":
		return kindNotification
	case e.Method != "" && e.Params != nil:
		return kindRequest
	case e.Method == "" && e.RPCID != "" && (e.Result != nil || e.Error != nil):
		return kindResponse
	default:
		return kindInvalid
	}
}

// sender is the contact the envelope claims to come from.
func (e envelope) sender() (identity.Contact, bool) {
	switch {
	case e.Params != nil:
		return e.Params.Contact, true
	case e.Result != nil:
		return e.Result.Contact, true
	default:
		return identity.Contact{}, false
	}
}

// codec turns envelopes into datagrams, zstd framing the large ones.
type codec struct {
	compressThreshold int
	maxDatagramSize   int
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
}

func newCodec(cfg Config) (*codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedSize))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &codec{
		compressThreshold: cfg.CompressThreshold,
		maxDatagramSize:   cfg.MaxDatagramSize,
		encoder:           encoder,
		decoder:           decoder,
	}, nil
}

func (c *codec) encode(env envelope) ([]byte, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	if c.compressThreshold > 0 && len(raw) > c.compressThreshold {
		raw = c.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2))
	}
	if len(raw) > c.maxDatagramSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(raw), c.maxDatagramSize)
	}
	return raw, nil
}

func (c *codec) decode(payload []byte) (envelope, error) {
	if bytes.HasPrefix(payload, zstdMagic) {
		decoded, err := c.decoder.DecodeAll(payload, nil)
		if err != nil {
			return envelope{}, fmt.Errorf("zstd decode: %w", err)
		}
		payload = decoded
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.kind() == kindInvalid {
		return envelope{}, errors.New("envelope is neither request nor response")
	}
	return env, nil
}

func (c *codec) close() {
	c.decoder.Close()
	_ = c.encoder.Close()
}
