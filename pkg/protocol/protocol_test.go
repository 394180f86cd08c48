package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDefaultHeader(t *testing.T) {
	data, err := json.Marshal(DefaultHeader())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"version":1,"click_events":true}`
	if string(data) != want {
		t.Errorf("header = %s, want %s", data, want)
	}
}

func TestNewBlockDefaults(t *testing.T) {
	b := NewBlock("cpu")

	if b.Name != "cpu" {
		t.Errorf("Name = %q, want %q", b.Name, "cpu")
	}
	if b.Border != DefaultBorder {
		t.Errorf("Border = %q, want %q", b.Border, DefaultBorder)
	}
	if b.BorderBottom != DefaultBorderBottom {
		t.Errorf("BorderBottom = %d, want %d", b.BorderBottom, DefaultBorderBottom)
	}
	if b.MinWidth != DefaultMinWidth {
		t.Errorf("MinWidth = %d, want %d", b.MinWidth, DefaultMinWidth)
	}
	if b.Align != DefaultAlign {
		t.Errorf("Align = %q, want %q", b.Align, DefaultAlign)
	}
	if b.Instance != "" {
		t.Errorf("Instance = %q, want empty before registration", b.Instance)
	}
}

// Zero-valued borders are protocol data, not absent fields; they must
// survive serialization.
func TestBlockMarshalKeepsZeroBorders(t *testing.T) {
	data, err := json.Marshal(NewBlock("ram"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, field := range []string{`"border_top":0`, `"border_left":0`, `"border_right":0`, `"full_text":""`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("marshaled block missing %s: %s", field, data)
		}
	}
}

func TestParseClick(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantOK  bool
		wantErr bool
		want    ClickEvent
	}{
		{
			name:   "array open preamble",
			line:   "[",
			wantOK: false,
		},
		{
			name:   "empty line",
			line:   "",
			wantOK: false,
		},
		{
			name:   "leading comma",
			line:   `,{"name":"BVolume","instance":"140","button":1}`,
			wantOK: true,
			want:   ClickEvent{Name: "BVolume", Instance: "140", Button: 1},
		},
		{
			name:   "no comma",
			line:   `{"name":"clock","instance":"3","button":3}`,
			wantOK: true,
			want:   ClickEvent{Name: "clock", Instance: "3", Button: 3},
		},
		{
			name:   "with coordinates",
			line:   `, {"name":"ram","instance":"2","button":2,"x":1893,"y":10}`,
			wantOK: true,
			want:   ClickEvent{Name: "ram", Instance: "2", Button: 2, X: 1893, Y: 10},
		},
		{
			name:    "malformed json",
			line:    `,{"name":`,
			wantErr: true,
		},
		{
			name:    "not an object",
			line:    `,42`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok, err := ParseClick(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && ev != tt.want {
				t.Errorf("event = %+v, want %+v", ev, tt.want)
			}
		})
	}
}
