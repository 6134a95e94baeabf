package rbac

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Source loads role definitions from durable storage.
type Source interface {
	Name() string
	LoadRoles(ctx context.Context) ([]Role, error)
}

// StaticSource serves a fixed role list.
type StaticSource struct {
	Label string
	Items []Role
}

// Name implements Source.
func (s StaticSource) Name() string {
	if s.Label == "" {
		return SourceDefaults
	}
	return s.Label
}

// LoadRoles implements Source.
func (s StaticSource) LoadRoles(ctx context.Context) ([]Role, error) {
	out := make([]Role, len(s.Items))
	copy(out, s.Items)
	return out, nil
}

// DefaultSource serves DefaultRoles.
func DefaultSource() StaticSource {
	return StaticSource{Label: SourceDefaults, Items: DefaultRoles()}
}

// FileSource reads role definitions from a YAML document of the form
//
//	roles:
//	  - slug: nurse
//	    level: 50
//	    permissions: [patients.view]
type FileSource struct {
	Path string
}

type roleDocument struct {
	Roles []Role `yaml:"roles"`
}

// Name implements Source.
func (s FileSource) Name() string {
	return "file:" + s.Path
}

// LoadRoles implements Source.
func (s FileSource) LoadRoles(ctx context.Context) ([]Role, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("rbac: open roles file: %w", err)
	}
	defer f.Close()
	return DecodeRoles(f)
}

// DecodeRoles parses a YAML role document.
func DecodeRoles(r io.Reader) ([]Role, error) {
	var doc roleDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("rbac: decode roles: %w", err)
	}
	return doc.Roles, nil
}

// EncodeRoles writes roles as a YAML role document.
func EncodeRoles(w io.Writer, roles []Role) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(roleDocument{Roles: roles}); err != nil {
		return fmt.Errorf("rbac: encode roles: %w", err)
	}
	return enc.Close()
}
