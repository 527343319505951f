package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed upload_policy.yaml
var defaultUploadPolicy []byte

// UploadPolicy lists what the file service accepts.
type UploadPolicy struct {
	MaxSize      ByteSize `yaml:"max_size"`
	Extensions   []string `yaml:"extensions"`
	ContentTypes []string `yaml:"content_types"`
}

// ByteSize is a size in bytes that unmarshals from "10MB", "512KB" or a
// plain integer.
type ByteSize int64

func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	n, err := ParseByteSize(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*b = n
	return nil
}

// ParseByteSize parses a decimal count with an optional B, KB, MB or GB
// suffix (binary multiples).
func ParseByteSize(s string) (ByteSize, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	multiplier := int64(1)
	for _, unit := range []struct {
		suffix string
		factor int64
	}{
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(s, unit.suffix) {
			multiplier = unit.factor
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return ByteSize(n * multiplier), nil
}

// LoadUploadPolicy reads the policy from path, or the embedded default when
// path is empty.
func LoadUploadPolicy(path string) (*UploadPolicy, error) {
	data := defaultUploadPolicy
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read upload policy: %w", err)
		}
		data = b
	}
	return ParseUploadPolicy(data)
}

// ParseUploadPolicy decodes and normalizes a YAML upload policy.
func ParseUploadPolicy(data []byte) (*UploadPolicy, error) {
	var policy UploadPolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("parse upload policy: %w", err)
	}

	for i, ext := range policy.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		policy.Extensions[i] = ext
	}
	for i, ct := range policy.ContentTypes {
		policy.ContentTypes[i] = strings.ToLower(strings.TrimSpace(ct))
	}

	if policy.MaxSize <= 0 {
		return nil, fmt.Errorf("upload policy: max_size is required")
	}
	if len(policy.Extensions) == 0 || len(policy.ContentTypes) == 0 {
		return nil, fmt.Errorf("upload policy: extensions and content_types must not be empty")
	}

	return &policy, nil
}

// AllowsExtension reports whether ext (with leading dot) is accepted.
func (p *UploadPolicy) AllowsExtension(ext string) bool {
	return contains(p.Extensions, strings.ToLower(ext))
}

// AllowsContentType reports whether the media type is accepted. Parameters
// such as charset are ignored.
func (p *UploadPolicy) AllowsContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return contains(p.ContentTypes, strings.ToLower(strings.TrimSpace(mediaType)))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
