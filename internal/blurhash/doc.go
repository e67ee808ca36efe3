// Package blurhash implements the BlurHash placeholder codec.
//
// A blur hash is a short string summarising the low-frequency content of an
// image: its average color plus a handful of cosine components describing how
// color varies across it. The string can be decoded back into a blurred
// preview of any size.
//
// # Encoding Pipeline
//
// Encode runs four stages over a PixelGrid:
//  1. Each sRGB byte is mapped to linear light (SRGBToLinear).
//  2. The linear image is projected onto a Components.X × Components.Y
//     cosine basis. The per-axis cosine tables are built once per image.
//  3. The DC term is quantized as a 24-bit sRGB color, each AC term as a
//     base-19 cube of signed square-rooted channel values relative to the
//     largest AC magnitude.
//  4. All quantized values are written as base83 digits.
//
// # Hash Layout
//
//	offset  width  field
//	0       1      size flag: (X-1) + (Y-1)*9
//	1       1      quantized maximum AC magnitude (0 when X*Y == 1)
//	2       4      DC color, R<<16 | G<<8 | B
//	6       2      one entry per AC cell, row-major, (0,0) excluded
//
// A hash therefore has exactly 4 + 2*X*Y characters.
//
// # Interoperability
//
// The base83 alphabet, the size flag layout and the floor-based rounding at
// every quantization step match the reference BlurHash implementations, so
// hashes produced here decode correctly anywhere else and vice versa.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use. A PixelGrid must not be
// mutated while it is being encoded.
package blurhash
