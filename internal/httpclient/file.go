package httpclient

import "bytes"

// newByteReader adapts an in-memory file body for resty's SetFileReader,
// used by PostFormWithFile for X-Image-Path uploads.
func newByteReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
