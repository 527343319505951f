package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUploadPolicy_Default(t *testing.T) {
	policy, err := LoadUploadPolicy("")
	if err != nil {
		t.Fatalf("LoadUploadPolicy() error = %v", err)
	}

	if policy.MaxSize != 10<<20 {
		t.Errorf("MaxSize = %d, want %d", policy.MaxSize, 10<<20)
	}

	tests := []struct {
		ext  string
		want bool
	}{
		{".png", true},
		{".PNG", true},
		{".docx", true},
		{".exe", false},
		{".svg", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := policy.AllowsExtension(tt.ext); got != tt.want {
			t.Errorf("AllowsExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}

	if !policy.AllowsContentType("text/plain; charset=utf-8") {
		t.Error("content type parameters should be ignored")
	}
	if policy.AllowsContentType("application/x-msdownload") {
		t.Error("executable content type should not be allowed")
	}
}

func TestLoadUploadPolicy_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := "max_size: 512KB\nextensions: [png, .JPG]\ncontent_types: [IMAGE/PNG]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	policy, err := LoadUploadPolicy(path)
	if err != nil {
		t.Fatalf("LoadUploadPolicy() error = %v", err)
	}
	if policy.MaxSize != 512<<10 {
		t.Errorf("MaxSize = %d, want %d", policy.MaxSize, 512<<10)
	}
	if !policy.AllowsExtension(".png") || !policy.AllowsExtension(".jpg") {
		t.Errorf("extensions not normalized: %v", policy.Extensions)
	}
	if !policy.AllowsContentType("image/png") {
		t.Errorf("content types not normalized: %v", policy.ContentTypes)
	}
}

func TestParseUploadPolicy_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing size", "extensions: [.png]\ncontent_types: [image/png]\n"},
		{"bad size", "max_size: lots\nextensions: [.png]\ncontent_types: [image/png]\n"},
		{"no extensions", "max_size: 1MB\ncontent_types: [image/png]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseUploadPolicy([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		in      string
		want    ByteSize
		wantErr bool
	}{
		{"10MB", 10 << 20, false},
		{"1 gb", 1 << 30, false},
		{"2048", 2048, false},
		{"100B", 100, false},
		{"-1MB", 0, true},
		{"MB", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseByteSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseByteSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseByteSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
