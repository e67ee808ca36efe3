// Package imaging supplies the file-facing collaborators of the blur hash
// pipeline: decoding image files into pixel grids, expanding command-line
// inputs into image paths, writing hash sidecar files and rendering decoded
// placeholders back to disk.
//
// # Supported Formats
//
// Decoding goes through disintegration/imaging, which applies EXIF
// orientation. PNG, JPEG and GIF come from the standard library; WebP, BMP
// and TIFF are registered from golang.org/x/image. Previews are written as
// PNG or JPEG via bild's imgio.
//
// # Sidecar Files
//
// The hash for photo.jpg is stored in photo.jpg.bh, containing the bare hash
// with no trailing newline. FindImages skips images whose sidecar exists
// unless FindOptions.Force is set.
//
// # Error Handling
//
// Every read or parse failure for a single file is a *DecodeError carrying
// the path and the underlying cause. Only a failure to walk a directory is
// returned from FindImages itself.
//
// # Thread Safety
//
// ImageCache and Loader are safe for concurrent use. The batch package calls
// Loader.LoadGrid from many workers at once.
package imaging
