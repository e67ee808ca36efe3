package blurhash

import (
	"fmt"
	"image"
	"math"
)

// MaxComponents is the largest component count allowed on either axis.
const MaxComponents = 9

// Components is the size of the cosine basis sampled from an image. Higher
// values keep more detail and produce longer hashes.
type Components struct {
	X int
	Y int
}

// Validate reports a *ConfigError when either axis is outside [1, 9].
func (c Components) Validate() error {
	if c.X < 1 || c.X > MaxComponents || c.Y < 1 || c.Y > MaxComponents {
		return &ConfigError{X: c.X, Y: c.Y}
	}
	return nil
}

// HashLen returns the length of every hash encoded with c.
func (c Components) HashLen() int {
	return 4 + 2*c.X*c.Y
}

func (c Components) sizeFlag() int {
	return (c.X - 1) + (c.Y-1)*9
}

// Encode computes the blur hash of grid.
//
// A *ConfigError is returned for out-of-range components and an
// *InvariantError for a malformed grid; both are detected before any pixel
// is processed.
func Encode(grid *PixelGrid, comp Components) (string, error) {
	if err := comp.Validate(); err != nil {
		return "", err
	}
	if err := grid.check("encode"); err != nil {
		return "", err
	}

	coeffs := computeCoefficients(linearize(grid), grid.Width, grid.Height, comp)
	if len(coeffs) != comp.X*comp.Y {
		return "", &InvariantError{Op: "encode", Detail: fmt.Sprintf("got %d coefficients, want %d", len(coeffs), comp.X*comp.Y)}
	}

	hash := quantize(coeffs).appendTo(make([]byte, 0, comp.HashLen()), comp)
	if len(hash) != comp.HashLen() {
		return "", &InvariantError{Op: "encode", Detail: fmt.Sprintf("hash has %d characters, want %d", len(hash), comp.HashLen())}
	}
	return string(hash), nil
}

// EncodeImage is Encode for any image.Image.
func EncodeImage(img image.Image, comp Components) (string, error) {
	if err := comp.Validate(); err != nil {
		return "", err
	}
	return Encode(GridFromImage(img), comp)
}

// linearize converts every channel of grid to linear light.
func linearize(grid *PixelGrid) []float64 {
	lin := make([]float64, len(grid.Pix))
	for i, v := range grid.Pix {
		lin[i] = linearTable[v]
	}
	return lin
}

// cosineTable returns n rows of size samples each, where row k holds
// cos(pi*k*s/size) for s in [0, size).
func cosineTable(n, size int) [][]float64 {
	table := make([][]float64, n)
	for k := range table {
		row := make([]float64, size)
		for s := range row {
			row[s] = math.Cos(math.Pi * float64(k) * float64(s) / float64(size))
		}
		table[k] = row
	}
	return table
}

// computeCoefficients projects lin onto the cosine basis. The result is
// indexed [j*comp.X+i] for basis pair (i, j).
//
// The basis is separable, so each row is first reduced against the X table
// and the per-row sums are then reduced against the Y table. This costs
// O(W*H*X + H*X*Y) instead of O(W*H*X*Y).
func computeCoefficients(lin []float64, width, height int, comp Components) [][3]float64 {
	cosX := cosineTable(comp.X, width)
	cosY := cosineTable(comp.Y, height)

	// rows[y*comp.X+i] is the row-y sum against cosX[i].
	rows := make([][3]float64, height*comp.X)
	for y := 0; y < height; y++ {
		line := lin[y*width*3 : (y+1)*width*3]
		for i := 0; i < comp.X; i++ {
			basis := cosX[i]
			var r, g, b float64
			for x, c := range basis {
				r += c * line[x*3]
				g += c * line[x*3+1]
				b += c * line[x*3+2]
			}
			rows[y*comp.X+i] = [3]float64{r, g, b}
		}
	}

	scale := 1 / float64(width*height)
	coeffs := make([][3]float64, comp.X*comp.Y)
	for j := 0; j < comp.Y; j++ {
		for i := 0; i < comp.X; i++ {
			var r, g, b float64
			for y, c := range cosY[j] {
				s := rows[y*comp.X+i]
				r += c * s[0]
				g += c * s[1]
				b += c * s[2]
			}
			norm := 2 * scale
			if i == 0 && j == 0 {
				norm = scale
			}
			coeffs[j*comp.X+i] = [3]float64{r * norm, g * norm, b * norm}
		}
	}
	return coeffs
}

// payload is the quantized form of a coefficient matrix.
type payload struct {
	maxAC int
	dc    int
	ac    []int
}

// quantize converts coefficients (DC first) into their integer codes.
func quantize(coeffs [][3]float64) payload {
	p := payload{dc: encodeDC(coeffs[0])}
	ac := coeffs[1:]
	if len(ac) == 0 {
		return p
	}

	actualMax := 1.0 / 255
	for _, c := range ac {
		for _, v := range c {
			actualMax = math.Max(actualMax, math.Abs(v))
		}
	}
	p.maxAC = int(math.Max(0, math.Min(82, math.Floor(actualMax*166-0.5))))
	maxValue := float64(p.maxAC+1) / 166

	p.ac = make([]int, len(ac))
	for k, c := range ac {
		p.ac[k] = encodeAC(c, maxValue)
	}
	return p
}

func (p payload) appendTo(dst []byte, comp Components) []byte {
	dst = appendBase83(dst, comp.sizeFlag(), 1)
	dst = appendBase83(dst, p.maxAC, 1)
	dst = appendBase83(dst, p.dc, 4)
	for _, v := range p.ac {
		dst = appendBase83(dst, v, 2)
	}
	return dst
}

func encodeDC(c [3]float64) int {
	r := int(LinearToSRGB(c[0]))
	g := int(LinearToSRGB(c[1]))
	b := int(LinearToSRGB(c[2]))
	return r<<16 | g<<8 | b
}

// zeroAC is the code of an AC cell with no variation in any channel.
const zeroAC = 9*19*19 + 9*19 + 9

func encodeAC(c [3]float64, maxValue float64) int {
	quant := func(v float64) int {
		return int(math.Max(0, math.Min(18, math.Floor(signPow(v/maxValue, 0.5)*9+9.5))))
	}
	return quant(c[0])*19*19 + quant(c[1])*19 + quant(c[2])
}
