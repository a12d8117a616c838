package archive_test

import (
	"math"
	"testing"

	"github.com/bitboom/rmi/pkg/archive"
)

func TestPrimitiveBoundaries(t *testing.T) {
	a := archive.New()

	if err := archive.Pack(a,
		int(math.MinInt32), int(math.MaxInt32),
		float32(-math.MaxFloat32), float32(math.MaxFloat32),
		float64(-math.MaxFloat64), math.MaxFloat64,
		int64(math.MinInt64), int64(math.MaxInt64),
		true, false,
		rune('a'), rune('Z'),
	); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	var (
		i1, i2   int
		f1, f2   float32
		d1, d2   float64
		ll1, ll2 int64
		b1, b2   bool
		c1, c2   rune
	)

	if err := archive.Unpack(a, &i1, &i2, &f1, &f2, &d1, &d2, &ll1, &ll2, &b1, &b2, &c1, &c2); err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	cases := []struct {
		name     string
		got, want any
	}{
		{"int min", i1, math.MinInt32},
		{"int max", i2, math.MaxInt32},
		{"float32 lowest", f1, float32(-math.MaxFloat32)},
		{"float32 max", f2, float32(math.MaxFloat32)},
		{"float64 lowest", d1, -math.MaxFloat64},
		{"float64 max", d2, math.MaxFloat64},
		{"int64 min", ll1, int64(math.MinInt64)},
		{"int64 max", ll2, int64(math.MaxInt64)},
		{"bool true", b1, true},
		{"bool false", b2, false},
		{"rune a", c1, rune('a')},
		{"rune Z", c2, rune('Z')},
	}

	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}

	if a.Remaining() != 0 {
		t.Errorf("expected archive fully consumed, %d bytes remain", a.Remaining())
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := []string{"", "a", "RMI-TEST", "request argument"}

	for _, s := range cases {
		a := archive.New()
		archive.AppendString(a, s)

		got, err := archive.ExtractString(a)
		if err != nil {
			t.Fatalf("ExtractString(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("ExtractString: got %q, want %q", got, s)
		}
	}
}

func TestOrderStability(t *testing.T) {
	a := archive.New()
	if err := archive.Pack(a, 100, true, "request argument"); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	var x int
	var y bool
	var z string
	if err := archive.Unpack(a, &x, &y, &z); err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	if x != 100 || y != true || z != "request argument" {
		t.Errorf("order not preserved: got (%v, %v, %q)", x, y, z)
	}
}

func TestArchiveInArchiveComposition(t *testing.T) {
	a1 := archive.New()
	archive.AppendString(a1, "s1")

	a2 := archive.New()
	archive.AppendString(a2, "s2")

	a3 := archive.New()
	archive.AppendString(a3, "s3")

	// append A2 into A1
	archive.AppendArchive(a1, a2)

	// drain A1 into A3
	archive.AppendArchive(a3, a1)

	got1, err := archive.ExtractString(a3)
	if err != nil {
		t.Fatalf("extract 1: %v", err)
	}
	got2, err := archive.ExtractString(a3)
	if err != nil {
		t.Fatalf("extract 2: %v", err)
	}
	got3, err := archive.ExtractString(a3)
	if err != nil {
		t.Fatalf("extract 3: %v", err)
	}

	if got1 != "s3" || got2 != "s1" || got3 != "s2" {
		t.Errorf("got (%q, %q, %q), want (s3, s1, s2)", got1, got2, got3)
	}
}

func TestShortRead(t *testing.T) {
	a := archive.New()
	archive.AppendPrimitive(a, int8(1))

	var x int64
	if err := archive.Unpack(a, &x); err == nil {
		t.Fatal("expected short read error, got nil")
	}
}

type point struct {
	X, Y int32
}

func (p *point) PackArchive(a *archive.Archive) error {
	return archive.Pack(a, p.X, p.Y)
}

func (p *point) UnpackArchive(a *archive.Archive) error {
	return archive.Unpack(a, &p.X, &p.Y)
}

func TestArchivableRoundTrip(t *testing.T) {
	a := archive.New()
	in := &point{X: 3, Y: -4}
	if err := archive.Pack(a, in); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	out := &point{}
	if err := archive.Unpack(a, out); err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	if *out != *in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestOwnedPointerAllocatesWhenNil(t *testing.T) {
	a := archive.New()
	in := &point{X: 1, Y: 2}
	if err := archive.Pack(a, in); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	var out *point
	if err := archive.Unpack(a, &out); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if out == nil || *out != *in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}
