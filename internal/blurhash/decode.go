package blurhash

import (
	"fmt"
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// minHashLen is the length of a hash with a single (DC-only) component.
const minHashLen = 6

// MaxDecodeSize is the largest width or height Decode renders.
const MaxDecodeSize = 4096

// ParseComponents reads the component counts from the size flag of hash and
// checks that hash has exactly the matching length and only base83
// characters. Every other hash reader starts here, so a hash it accepts
// decodes completely.
func ParseComponents(hash string) (Components, error) {
	if len(hash) < minHashLen {
		return Components{}, &HashError{Hash: hash, Err: fmt.Errorf("%w: %d characters, need at least %d", ErrInvalidLength, len(hash), minHashLen)}
	}
	if err := checkAlphabet(hash); err != nil {
		return Components{}, &HashError{Hash: hash, Err: err}
	}
	flag, err := DecodeBase83N(hash[:1], 1)
	if err != nil {
		return Components{}, &HashError{Hash: hash, Err: err}
	}
	comp := Components{X: flag%9 + 1, Y: flag/9 + 1}
	if err := comp.Validate(); err != nil {
		return Components{}, &HashError{Hash: hash, Err: err}
	}
	if len(hash) != comp.HashLen() {
		return Components{}, &HashError{Hash: hash, Err: fmt.Errorf("%w: %d characters, want %d for %dx%d components", ErrInvalidLength, len(hash), comp.HashLen(), comp.X, comp.Y)}
	}
	return comp, nil
}

// decoded holds a hash expanded back into linear-light coefficients.
type decoded struct {
	comp   Components
	colors [][3]float64
}

func decodeHash(hash string, punch float64) (*decoded, error) {
	comp, err := ParseComponents(hash)
	if err != nil {
		return nil, err
	}

	quantMax, err := DecodeBase83N(hash[1:2], 1)
	if err != nil {
		return nil, &HashError{Hash: hash, Err: err}
	}
	maxValue := float64(quantMax+1) / 166 * punch

	dc, err := DecodeBase83N(hash[2:6], 4)
	if err != nil {
		return nil, &HashError{Hash: hash, Err: err}
	}

	d := &decoded{comp: comp, colors: make([][3]float64, comp.X*comp.Y)}
	d.colors[0] = [3]float64{
		SRGBToLinear(uint8(dc >> 16)),
		SRGBToLinear(uint8(dc >> 8)),
		SRGBToLinear(uint8(dc)),
	}
	for k := 1; k < len(d.colors); k++ {
		at := 4 + k*2
		v, err := DecodeBase83N(hash[at:at+2], 2)
		if err != nil {
			return nil, &HashError{Hash: hash, Err: err}
		}
		d.colors[k] = [3]float64{
			signPow(float64(v/(19*19)-9)/9, 2) * maxValue,
			signPow(float64((v/19)%19-9)/9, 2) * maxValue,
			signPow(float64(v%19-9)/9, 2) * maxValue,
		}
	}
	return d, nil
}

// Decode renders hash as a width × height opaque image.
//
// punch scales the AC terms to increase or decrease contrast; 1 reproduces
// the encoded contrast. width and height must be in [1, MaxDecodeSize].
// Invalid input is reported as a *HashError and no image is returned.
func Decode(hash string, width, height int, punch float64) (*image.NRGBA, error) {
	if width < 1 || height < 1 || width > MaxDecodeSize || height > MaxDecodeSize {
		return nil, fmt.Errorf("decode %dx%d: %w", width, height, ErrInvalidSize)
	}
	if !(punch > 0) || math.IsInf(punch, 0) {
		return nil, &HashError{Hash: hash, Err: ErrInvalidPunch}
	}
	d, err := decodeHash(hash, punch)
	if err != nil {
		return nil, err
	}

	cosX := cosineTable(d.comp.X, width)
	cosY := cosineTable(d.comp.Y, height)

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b float64
			for j := 0; j < d.comp.Y; j++ {
				cy := cosY[j][y]
				for i := 0; i < d.comp.X; i++ {
					basis := cosX[i][x] * cy
					c := d.colors[j*d.comp.X+i]
					r += c[0] * basis
					g += c[1] * basis
					b += c[2] * basis
				}
			}
			off := img.PixOffset(x, y)
			img.Pix[off] = LinearToSRGB(r)
			img.Pix[off+1] = LinearToSRGB(g)
			img.Pix[off+2] = LinearToSRGB(b)
			img.Pix[off+3] = 0xff
		}
	}
	return img, nil
}

// AverageColor returns the DC color stored in hash.
func AverageColor(hash string) (color.NRGBA, error) {
	if _, err := ParseComponents(hash); err != nil {
		return color.NRGBA{}, err
	}
	dc, err := DecodeBase83N(hash[2:6], 4)
	if err != nil {
		return color.NRGBA{}, &HashError{Hash: hash, Err: err}
	}
	return color.NRGBA{R: uint8(dc >> 16), G: uint8(dc >> 8), B: uint8(dc), A: 0xff}, nil
}

// AverageHex returns the DC color of hash formatted as "#rrggbb".
func AverageHex(hash string) (string, error) {
	c, err := AverageColor(hash)
	if err != nil {
		return "", err
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Hex(), nil
}
