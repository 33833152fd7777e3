package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/oywz99/gsd"
	"github.com/tailscale/hujson"
)

// manifest describes a batch of frames to append to a GSD file. It is
// written as JWCC (JSON with comments and trailing commas) so operators can
// annotate a hand-written batch-write script.
type manifest struct {
	Mode   string          `json:"mode"`
	Frames []manifestFrame `json:"frames"`
}

type manifestFrame struct {
	Chunks []manifestChunk `json:"chunks"`
}

type manifestChunk struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	N          uint64 `json:"N"`
	M          uint32 `json:"M"`
	DataBase64 string `json:"data_base64"`
}

var manifestTypes = map[string]gsd.ElementType{
	"u8":  gsd.TypeUint8,
	"u16": gsd.TypeUint16,
	"u32": gsd.TypeUint32,
	"u64": gsd.TypeUint64,
	"i8":  gsd.TypeInt8,
	"i16": gsd.TypeInt16,
	"i32": gsd.TypeInt32,
	"i64": gsd.TypeInt64,
	"f32": gsd.TypeFloat32,
	"f64": gsd.TypeFloat64,
}

func parseManifest(data []byte) (manifest, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return manifest{}, fmt.Errorf("invalid JWCC: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(standardized, &m); err != nil {
		return manifest{}, fmt.Errorf("invalid manifest JSON: %w", err)
	}

	if m.Mode == "" {
		m.Mode = "append"
	}

	return m, nil
}

func (c manifestChunk) decode() (gsd.ElementType, []byte, error) {
	typ, ok := manifestTypes[c.Type]
	if !ok {
		return 0, nil, fmt.Errorf("chunk %q: unknown type %q", c.Name, c.Type)
	}

	data, err := base64.StdEncoding.DecodeString(c.DataBase64)
	if err != nil {
		return 0, nil, fmt.Errorf("chunk %q: invalid base64 data: %w", c.Name, err)
	}

	return typ, data, nil
}
