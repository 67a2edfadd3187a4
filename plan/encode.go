package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is a plan serialization format.
type Format string

// Supported formats.
const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, MsgPack}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case JSON, YAML, MsgPack:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("plan: unknown format %q", name)
}

// Encode writes p to w in format f.
func Encode(w io.Writer, p *Plan, f Format) error {
	var err error
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(p)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(p); err == nil {
			err = enc.Close()
		}
	case MsgPack:
		err = msgpack.NewEncoder(w).Encode(p)
	default:
		return fmt.Errorf("plan: unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("plan: encode %s: %w", f, err)
	}
	return nil
}

// Decode reads a plan in format f from r.
func Decode(r io.Reader, f Format) (*Plan, error) {
	var (
		p   Plan
		err error
	)
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(&p)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&p)
	case MsgPack:
		err = msgpack.NewDecoder(r).Decode(&p)
	default:
		return nil, fmt.Errorf("plan: unknown format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("plan: decode %s: %w", f, err)
	}
	return &p, nil
}
