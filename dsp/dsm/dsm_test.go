package dsm

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-testbench/internal/testutil"
)

func mean(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}

	return sum / float64(len(x))
}

func requireBipolar(t *testing.T, y []float64) {
	t.Helper()

	if y[0] != 0 {
		t.Fatalf("y[0]=%v, want 0", y[0])
	}

	for n := 1; n < len(y); n++ {
		if y[n] != 1 && y[n] != -1 {
			t.Fatalf("y[%d]=%v, want +/-1", n, y[n])
		}
	}
}

func requireIntegral(t *testing.T, y []float64, bound float64) {
	t.Helper()

	if y[0] != 0 {
		t.Fatalf("y[0]=%v, want 0", y[0])
	}

	for n, v := range y {
		if v != math.Trunc(v) || math.Abs(v) > bound {
			t.Fatalf("y[%d]=%v, want integer with |y| <= %v", n, v, bound)
		}
	}
}

func TestFirstOrder(t *testing.T) {
	x := testutil.DC(0.3, 4096)
	u, y := FirstOrder(x, 1)

	requireBipolar(t, y)

	if u[0] != 0 {
		t.Fatalf("u[0]=%v", u[0])
	}

	// The integrator stays bounded, so the output density tracks the input.
	if got := mean(y[:len(y)-1]); math.Abs(got-0.3) > 1e-3 {
		t.Fatalf("mean(y)=%v, want 0.3", got)
	}

	for n, v := range u {
		if math.Abs(v) > 2 {
			t.Fatalf("u[%d]=%v out of bounds", n, v)
		}
	}
}

func TestFirstOrderGain(t *testing.T) {
	x := []float64{0, 0.5, 0.5, 0.5}

	u, y := FirstOrder(x, 0.5)
	testutil.RequireSliceNearlyEqual(t, u, []float64{0, 0.25, 0, 0.75}, 1e-15)
	testutil.RequireSliceNearlyEqual(t, y, []float64{0, 1, -1, 1}, 0)
}

func TestSecondOrder(t *testing.T) {
	x := testutil.DC(0.3, 8192)
	u, v, y := SecondOrder(x, 1)

	requireBipolar(t, y)

	if u[0] != 0 || v[0] != 0 {
		t.Fatalf("initial state u=%v v=%v", u[0], v[0])
	}

	if got := mean(y[:len(y)-1]); math.Abs(got-0.3) > 1e-2 {
		t.Fatalf("mean(y)=%v, want 0.3", got)
	}

	for n := 1; n < len(x); n++ {
		want := (u[n] - y[n-1]) + v[n-1]
		if v[n] != want {
			t.Fatalf("v[%d]=%v, want %v", n, v[n], want)
		}

		if y[n] != quantize(v[n]) {
			t.Fatalf("y[%d] does not follow v", n)
		}
	}
}

func TestMash11(t *testing.T) {
	x := testutil.DeterministicSine(60, 1920, 0.5, 2048)
	e, y := Mash11(x, 1)

	requireIntegral(t, y, 3)

	u1, y1 := FirstOrder(x, 1)
	_, y2 := FirstOrder(e, 1)

	for n := 1; n < len(x); n++ {
		if want := y1[n-1] - u1[n]; e[n] != want {
			t.Fatalf("e[%d]=%v, want %v", n, e[n], want)
		}

		if want := y1[n] - (y2[n] - y2[n-1]); y[n] != want {
			t.Fatalf("y[%d]=%v, want %v", n, y[n], want)
		}
	}

	dc := testutil.DC(0.3, 4096)
	_, ydc := Mash11(dc, 1)

	if got := mean(ydc); math.Abs(got-0.3) > 1e-2 {
		t.Fatalf("mean(y)=%v, want 0.3", got)
	}
}

func TestMash21(t *testing.T) {
	x := testutil.DeterministicSine(60, 1920, 0.5, 2048)
	e, y := Mash21(x, 1)

	requireIntegral(t, y, 5)

	u1, _, y1 := SecondOrder(x, 1)
	_, y2 := FirstOrder(e, 1)
	d := difference(y2)

	for n := 2; n < len(x); n++ {
		if want := y1[n-1] - u1[n]; e[n] != want {
			t.Fatalf("e[%d]=%v, want %v", n, e[n], want)
		}

		if want := y1[n] - (d[n] - d[n-1]); y[n] != want {
			t.Fatalf("y[%d]=%v, want %v", n, y[n], want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"direct 1", Config{Order: 1}, true},
		{"direct 2", Config{Order: 2, Topology: Direct}, true},
		{"mash 1-1", Config{Order: 1, Topology: MASH}, true},
		{"mash 2-1 scaled", Config{Order: 2, Topology: MASH, Gain: 0.5}, true},
		{"order 0", Config{}, false},
		{"order 3", Config{Order: 3}, false},
		{"topology", Config{Order: 1, Topology: Topology(4)}, false},
		{"gain", Config{Order: 1, Gain: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate: %v", err)
			}

			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate err=%v, want ErrInvalidConfig", err)
			}

			_, err = tt.cfg.Modulate([]float64{0, 1})
			if tt.ok != (err == nil) {
				t.Fatalf("Modulate err=%v", err)
			}
		})
	}
}

func TestModulateTaps(t *testing.T) {
	x := testutil.DC(0.25, 64)

	tests := []struct {
		cfg   Config
		names []string
	}{
		{Config{Order: 1}, []string{"v(u)", "v(y)"}},
		{Config{Order: 2}, []string{"v(u)", "v(v)", "v(y)"}},
		{Config{Order: 1, Topology: MASH}, []string{"e(1)", "v(y)"}},
		{Config{Order: 2, Topology: MASH}, []string{"e(1)", "v(y)"}},
	}

	for _, tt := range tests {
		t.Run(tt.cfg.String(), func(t *testing.T) {
			taps, err := tt.cfg.Modulate(x)
			if err != nil {
				t.Fatalf("Modulate: %v", err)
			}

			if len(taps) != len(tt.names) {
				t.Fatalf("taps=%d, want %d", len(taps), len(tt.names))
			}

			for i, tap := range taps {
				if tap.Name != tt.names[i] {
					t.Fatalf("tap %d name=%q, want %q", i, tap.Name, tt.names[i])
				}

				if len(tap.Samples) != len(x) {
					t.Fatalf("tap %q len=%d", tap.Name, len(tap.Samples))
				}
			}
		})
	}
}

func TestParseTopology(t *testing.T) {
	for _, topo := range []Topology{Direct, MASH} {
		got, err := ParseTopology(topo.String())
		if err != nil || got != topo {
			t.Fatalf("ParseTopology(%q)=%v, %v", topo, got, err)
		}
	}

	if _, err := ParseTopology("cascade"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err=%v", err)
	}

	if s := Topology(3).String(); s != "Topology(3)" {
		t.Fatalf("String=%q", s)
	}
}
