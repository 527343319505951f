package sanitizer

import "testing"

func TestTextSanitizer_Clean(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Build a landing page", "Build a landing page"},
		{"trims whitespace", "  padded  ", "padded"},
		{"keeps ampersands readable", "Tom & Jerry", "Tom & Jerry"},
		{"strips tags", "<b>bold</b> move", "bold move"},
		{"drops script bodies", "hi<script>alert(1)</script>", "hi"},
		{"drops event handlers", `<img src=x onerror="alert(1)">ok`, "ok"},
		{"only markup", "<p></p>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_CleanPtr(t *testing.T) {
	s := NewTextSanitizer()

	if got := s.CleanPtr(nil); got != nil {
		t.Errorf("CleanPtr(nil) = %q, want nil", *got)
	}

	in := " <i>remote</i> "
	got := s.CleanPtr(&in)
	if got == nil || *got != "remote" {
		t.Errorf("CleanPtr(%q) = %v, want \"remote\"", in, got)
	}
}
