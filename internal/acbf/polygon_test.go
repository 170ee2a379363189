package acbf

import (
	"image"
	"testing"
)

func TestParsePoints(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integers", input: "0,0 10,0 10,10", want: "0,0 10,0 10,10"},
		{name: "decimals truncate", input: "1.7,2.2  30.9,4", want: "1,2 30,4"},
		{name: "extra whitespace", input: "\n 5,5\t6,6 ", want: "5,5 6,6"},
		{name: "empty", input: "", want: ""},
		{name: "missing comma", input: "5 5", wantErr: true},
		{name: "not a number", input: "a,1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePoints(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePoints(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePoints(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParsePoints(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestPolygon_Bounds(t *testing.T) {
	p := Polygon{{30, 5}, {80, 20}, {40, 90}, {10, 40}}
	if got := p.Bounds(); got != image.Rect(10, 5, 80, 90) {
		t.Errorf("Bounds() = %v", got)
	}
	if got := (Polygon{}).Bounds(); !got.Empty() {
		t.Errorf("empty Bounds() = %v", got)
	}
}

func TestPolygon_AreaAndValid(t *testing.T) {
	sq := Rect(image.Rect(0, 0, 10, 20))
	if sq.Area() != 200 {
		t.Errorf("Area() = %v, want 200", sq.Area())
	}
	if !sq.Valid() {
		t.Error("rectangle should be valid")
	}
	line := Polygon{{0, 0}, {5, 5}, {10, 10}}
	if line.Valid() {
		t.Error("collinear polygon should not be valid")
	}
	if (Polygon{{0, 0}, {1, 1}}).Valid() {
		t.Error("two-point polygon should not be valid")
	}
}

func TestPolygon_Contains(t *testing.T) {
	tri := Polygon{{0, 0}, {100, 0}, {0, 100}}
	tests := []struct {
		pt   image.Point
		want bool
	}{
		{image.Pt(10, 10), true},
		{image.Pt(60, 60), false},
		{image.Pt(-1, 5), false},
		{image.Pt(49, 49), true},
	}
	for _, tt := range tests {
		if got := tri.Contains(tt.pt); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.pt, got, tt.want)
		}
	}
}

func TestPolygon_Translate(t *testing.T) {
	p := Rect(image.Rect(0, 0, 2, 2))
	moved := p.Translate(image.Pt(-1, 3))
	if moved.String() != "-1,3 1,3 1,5 -1,5" {
		t.Errorf("Translate() = %s", moved)
	}
	if p.String() != "0,0 2,0 2,2 0,2" {
		t.Errorf("Translate() modified receiver: %s", p)
	}
}
