package signature

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Definition is the on-disk form of a signature.
// Markers are hex strings unless Encoding is "text".
type Definition struct {
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description" toml:"description"`
	Start       string `yaml:"start" toml:"start"`
	End         string `yaml:"end" toml:"end"`
	Encoding    string `yaml:"encoding" toml:"encoding"`
}

type definitionFile struct {
	Signatures []Definition `yaml:"signatures" toml:"signatures"`
}

// LoadFile reads signature definitions from a YAML or TOML file.
// The format is chosen from the file extension.
func LoadFile(path string) ([]Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature file %q: %w", path, err)
	}

	var f definitionFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".toml":
		err = toml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unsupported signature file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse signature file %q: %w", path, err)
	}

	sigs := make([]Signature, 0, len(f.Signatures))
	for _, def := range f.Signatures {
		sig, err := def.Signature()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

func (d Definition) Signature() (Signature, error) {
	start, err := d.decode(d.Start)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %s start marker: %v", ErrInvalidSignature, d.Name, err)
	}

	end, err := d.decode(d.End)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %s end marker: %v", ErrInvalidSignature, d.Name, err)
	}

	sig, err := New(d.Name, start, end)
	if err != nil {
		return Signature{}, err
	}
	return sig.WithDescription(d.Description), nil
}

func (d Definition) decode(s string) ([]byte, error) {
	switch strings.ToLower(d.Encoding) {
	case "", "hex":
		s = strings.Join(strings.Fields(s), "")
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		return hex.DecodeString(s)
	case "text":
		return []byte(s), nil
	}
	return nil, fmt.Errorf("unknown encoding %q", d.Encoding)
}
