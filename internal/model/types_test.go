package model

import "testing"

func TestMetadataScan(t *testing.T) {
	var m Metadata
	if err := m.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if m != (Metadata{}) {
		t.Errorf("Scan(nil) = %+v; want zero", m)
	}

	if err := m.Scan([]byte(`{"width":1920,"height":1152,"mime_type":"image/webp"}`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if m.Width != 1920 || m.Height != 1152 || m.MimeType != "image/webp" {
		t.Errorf("Scan = %+v", m)
	}

	if err := m.Scan(42); err == nil {
		t.Error("expected error for int source")
	}
	if err := m.Scan([]byte(`{`)); err == nil {
		t.Error("expected error for broken JSON")
	}
}

func TestImageStatusIsTerminal(t *testing.T) {
	cases := map[ImageStatus]bool{
		ImageStatusPending:    false,
		ImageStatusProcessing: false,
		ImageStatusCompleted:  true,
		ImageStatusFailed:     true,
	}
	for s, want := range cases {
		if got := s.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v; want %v", s, got, want)
		}
	}
}
