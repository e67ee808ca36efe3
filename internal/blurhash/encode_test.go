package blurhash

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"
)

// solidGrid creates a grid filled with one color
func solidGrid(width, height int, r, g, b uint8) *PixelGrid {
	grid := NewPixelGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid.Set(x, y, r, g, b)
		}
	}
	return grid
}

// gradientGrid creates a grid with red rising left to right, green rising
// top to bottom and constant blue
func gradientGrid(width, height int) *PixelGrid {
	grid := NewPixelGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid.Set(x, y, uint8(x*255/(width-1)), uint8(y*255/(height-1)), 128)
		}
	}
	return grid
}

func TestEncode_ReferenceVectors(t *testing.T) {
	tests := []struct {
		name string
		grid *PixelGrid
		comp Components
		want string
	}{
		{"gradient 4x3", gradientGrid(16, 12), Components{4, 3}, "L$Hx+i2?wxoyqSR-jte=g0fjfQfj"},
		{
			"gradient 9x9", gradientGrid(16, 12), Components{9, 9},
			"|$Hx+i2?wxoySMt6SMxZN]qSR-jte=a|jIa|jIa|g0fjfQfjfQfjfQfjfQt7Sgjtfka|j[a|j[a|eXf7fQf7fQf7fQf7fQtQSgjtfka|j[a|j[a|eXf7fQf7fQf7fQf7fQtQSgjtfka|j[a|j[a|eXf7fQf7fQf7fQf7fQ",
		},
		{"single pixel", solidGrid(1, 1, 10, 20, 30), Components{1, 1}, "001C={"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.grid, tt.comp)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_Length(t *testing.T) {
	grid := gradientGrid(12, 10)

	for x := 1; x <= MaxComponents; x++ {
		for y := 1; y <= MaxComponents; y++ {
			comp := Components{X: x, Y: y}
			hash, err := Encode(grid, comp)
			if err != nil {
				t.Fatalf("Encode(%dx%d) failed: %v", x, y, err)
			}
			if want := 4 + 2*x*y; len(hash) != want {
				t.Errorf("Encode(%dx%d): length %d, want %d", x, y, len(hash), want)
			}
			if len(hash) != comp.HashLen() {
				t.Errorf("HashLen(%dx%d): got %d, hash has %d", x, y, comp.HashLen(), len(hash))
			}
			for i, c := range hash {
				if !strings.ContainsRune(Alphabet, c) {
					t.Errorf("Encode(%dx%d): character %q at %d is not in the alphabet", x, y, c, i)
				}
			}
		}
	}
}

func TestEncode_LengthGrowsTwoPerComponent(t *testing.T) {
	grid := gradientGrid(8, 8)

	prev := -1
	for n := 1; n <= MaxComponents; n++ {
		hash, err := Encode(grid, Components{X: n, Y: 1})
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if prev >= 0 && len(hash)-prev != 2 {
			t.Errorf("X=%d: length grew by %d, want 2", n, len(hash)-prev)
		}
		prev = len(hash)
	}
}

func TestEncode_SinglePixelSingleComponent(t *testing.T) {
	hash, err := Encode(solidGrid(1, 1, 200, 100, 50), Components{1, 1})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(hash) != 6 {
		t.Fatalf("length: got %d (%q), want 6", len(hash), hash)
	}
	if hash[0] != '0' {
		t.Errorf("size flag: got %q, want '0'", hash[0])
	}
	if hash[1] != '0' {
		t.Errorf("max AC digit: got %q, want '0'", hash[1])
	}
	dc, err := DecodeBase83(hash[2:])
	if err != nil {
		t.Fatalf("DecodeBase83 failed: %v", err)
	}
	if want := 200<<16 | 100<<8 | 50; dc != want {
		t.Errorf("DC: got %06X, want %06X", dc, want)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	grid := gradientGrid(31, 17)

	first, err := Encode(grid, Components{5, 4})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Encode(grid, Components{5, 4})
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if again != first {
			t.Fatalf("run %d: got %q, want %q", i, again, first)
		}
	}
}

func TestEncode_SolidColor(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
	}{
		{"red", 255, 0, 0},
		{"gray", 128, 128, 128},
		{"teal", 0, 128, 128},
		{"black", 0, 0, 0},
		{"white", 255, 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Encode(solidGrid(20, 15, tt.r, tt.g, tt.b), Components{4, 3})
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			avg, err := AverageColor(hash)
			if err != nil {
				t.Fatalf("AverageColor failed: %v", err)
			}
			if avg.R != tt.r || avg.G != tt.g || avg.B != tt.b {
				t.Errorf("DC: got (%d,%d,%d), want (%d,%d,%d)", avg.R, avg.G, avg.B, tt.r, tt.g, tt.b)
			}

			// Zero channels carry no variation, and equal channels vary equally.
			for k := 1; k < 12; k++ {
				code, err := DecodeBase83(hash[4+2*k : 6+2*k])
				if err != nil {
					t.Fatalf("DecodeBase83 failed: %v", err)
				}
				qr, qg, qb := code/(19*19), (code/19)%19, code%19
				for _, c := range []struct {
					in uint8
					q  int
				}{{tt.r, qr}, {tt.g, qg}, {tt.b, qb}} {
					if c.in == 0 && c.q != 9 {
						t.Errorf("AC %d: zero channel quantized to %d, want 9", k, c.q)
					}
				}
				if tt.r == tt.g && tt.g == tt.b && (qr != qg || qg != qb) {
					t.Errorf("AC %d: gray quantized to (%d,%d,%d)", k, qr, qg, qb)
				}
			}
		})
	}
}

func TestEncode_BlackIsAllZeroAC(t *testing.T) {
	hash, err := Encode(solidGrid(6, 6, 0, 0, 0), Components{4, 3})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	zero := EncodeBase83(zeroAC, 2)
	for k := 1; k < 12; k++ {
		if got := hash[4+2*k : 6+2*k]; got != zero {
			t.Errorf("AC %d: got %q, want %q", k, got, zero)
		}
	}
}

func TestEncode_InvalidComponents(t *testing.T) {
	grid := solidGrid(2, 2, 0, 0, 0)
	tests := []Components{{0, 1}, {1, 0}, {10, 1}, {1, 10}, {-1, 4}}

	for _, comp := range tests {
		_, err := Encode(grid, comp)
		if !errors.Is(err, ErrInvalidComponents) {
			t.Errorf("Encode(%v): got %v, want ErrInvalidComponents", comp, err)
		}
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("Encode(%v): error %T is not *ConfigError", comp, err)
		}
	}
}

func TestEncode_InvalidComponentsCheckedFirst(t *testing.T) {
	// A malformed grid must not be inspected when the configuration is bad.
	_, err := Encode(&PixelGrid{Width: 3, Height: 3}, Components{0, 0})
	if !errors.Is(err, ErrInvalidComponents) {
		t.Errorf("got %v, want ErrInvalidComponents", err)
	}
}

func TestEncode_MalformedGrid(t *testing.T) {
	tests := []struct {
		name string
		grid *PixelGrid
	}{
		{"nil", nil},
		{"zero width", &PixelGrid{Width: 0, Height: 2}},
		{"short buffer", &PixelGrid{Width: 2, Height: 2, Pix: make([]uint8, 11)}},
		{"long buffer", &PixelGrid{Width: 2, Height: 2, Pix: make([]uint8, 16)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.grid, Components{4, 3})
			var invErr *InvariantError
			if !errors.As(err, &invErr) {
				t.Errorf("got %v, want *InvariantError", err)
			}
		})
	}
}

func TestComputeCoefficients_MatchesDirectSum(t *testing.T) {
	grid := gradientGrid(13, 9)
	comp := Components{5, 4}
	lin := linearize(grid)
	got := computeCoefficients(lin, grid.Width, grid.Height, comp)

	for j := 0; j < comp.Y; j++ {
		for i := 0; i < comp.X; i++ {
			norm := 2.0
			if i == 0 && j == 0 {
				norm = 1
			}
			var want [3]float64
			for y := 0; y < grid.Height; y++ {
				for x := 0; x < grid.Width; x++ {
					basis := norm * math.Cos(math.Pi*float64(i)*float64(x)/float64(grid.Width)) *
						math.Cos(math.Pi*float64(j)*float64(y)/float64(grid.Height))
					for c := 0; c < 3; c++ {
						want[c] += basis * lin[(y*grid.Width+x)*3+c]
					}
				}
			}
			for c := 0; c < 3; c++ {
				want[c] /= float64(grid.Width * grid.Height)
				if d := math.Abs(got[j*comp.X+i][c] - want[c]); d > 1e-12 {
					t.Errorf("coefficient (%d,%d)[%d]: got %v, want %v", i, j, c, got[j*comp.X+i][c], want[c])
				}
			}
		}
	}
}

func TestEncodeAC_Range(t *testing.T) {
	tests := [][3]float64{
		{0.5, -0.5, 0},
		{1, 1, 1},
		{-1, -1, -1},
		{10, -10, 0.001},
	}

	for _, ac := range tests {
		if got := encodeAC(ac, 1); got < 0 || got >= 19*19*19 {
			t.Errorf("encodeAC(%v): %d out of range", ac, got)
		}
	}
	if got := encodeAC([3]float64{}, 1); got != zeroAC {
		t.Errorf("encodeAC(zero): got %d, want %d", got, zeroAC)
	}
}

func TestEncodeImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 12))
	grid := gradientGrid(16, 12)
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			r, g, b := grid.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{r, g, b, 255})
		}
	}

	got, err := EncodeImage(img, Components{4, 3})
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	if want := "L$Hx+i2?wxoyqSR-jte=g0fjfQfj"; got != want {
		t.Errorf("EncodeImage: got %q, want %q", got, want)
	}
}

func TestGridFromImage_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 14, 23))
	img.Set(10, 20, color.RGBA{1, 2, 3, 255})
	img.Set(13, 22, color.RGBA{4, 5, 6, 255})

	grid := GridFromImage(img)
	if grid.Width != 4 || grid.Height != 3 {
		t.Fatalf("size: got %dx%d, want 4x3", grid.Width, grid.Height)
	}
	if r, g, b := grid.At(0, 0); r != 1 || g != 2 || b != 3 {
		t.Errorf("At(0,0): got (%d,%d,%d)", r, g, b)
	}
	if r, g, b := grid.At(3, 2); r != 4 || g != 5 || b != 6 {
		t.Errorf("At(3,2): got (%d,%d,%d)", r, g, b)
	}
}

func TestGridFromImage_NRGBASubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.SetNRGBA(5, 6, color.NRGBA{9, 8, 7, 128})
	sub := img.SubImage(image.Rect(4, 4, 8, 8)).(*image.NRGBA)

	grid := GridFromImage(sub)
	if r, g, b := grid.At(1, 2); r != 9 || g != 8 || b != 7 {
		t.Errorf("At(1,2): got (%d,%d,%d), want (9,8,7)", r, g, b)
	}
}

func BenchmarkEncode(b *testing.B) {
	grid := gradientGrid(256, 256)
	comp := Components{4, 3}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(grid, comp); err != nil {
			b.Fatal(err)
		}
	}
}
