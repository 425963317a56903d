package core

// Part represents a polymorphic segment of a capability request. Concrete
// part types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment (prompt or instruction text).
type TextPart struct {
	Text string // Plain UTF-8 text
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// ImagePart is an inline image segment passed to vision / generation
// capabilities. Data holds the raw (not base64) bytes; adapters encode as
// their provider requires.
type ImagePart struct {
	Data     []byte // Raw image bytes
	MimeType string // e.g. "image/jpeg"; adapters default to JPEG when empty
}

// isPart implements the Part interface for ImagePart.
func (ImagePart) isPart() {}

// TextOf concatenates the text of all TextParts in order. Convenience for
// adapters and tests that only care about the textual portion of a request.
func TextOf(parts []Part) string {
	var out string
	for _, p := range parts {
		if tp, ok := p.(TextPart); ok {
			out += tp.Text
		}
	}
	return out
}

// ImagesOf returns the image segments of a request in order.
func ImagesOf(parts []Part) []ImagePart {
	var imgs []ImagePart
	for _, p := range parts {
		if ip, ok := p.(ImagePart); ok {
			imgs = append(imgs, ip)
		}
	}
	return imgs
}
