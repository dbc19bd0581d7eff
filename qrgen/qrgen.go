// Package qrgen turns text content into square QR code PNG images.
// Encoding and module scaling are delegated to github.com/skip2/go-qrcode;
// this package adds request validation, size limits and the error taxonomy
// the HTTP and CLI layers rely on.
package qrgen

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the pixel edge used when a request omits the size.
const DefaultSize = 250

// MIMEPNG is the content type of every image this package produces.
const MIMEPNG = "image/png"

// Limits bounds a single generation so arbitrary callers cannot force
// unbounded allocations.
type Limits struct {
	// MaxSize is the largest accepted pixel edge. Zero means no bound.
	MaxSize int
	// MaxContent is the largest accepted content length in bytes.
	// Zero means no bound.
	MaxContent int
}

// Request describes one QR image to generate.
type Request struct {
	// Content is the text to encode, typically a URL. Required.
	Content string `json:"content"`
	// Size is the pixel edge of the square output. Zero means DefaultSize.
	Size int `json:"size,omitempty"`
	// Level optionally overrides the service error-correction level:
	// "low", "medium", "high" or "highest".
	Level string `json:"level,omitempty"`
}

// EncodedImage is the result of a generation. It is owned by the caller;
// the service keeps no reference to it after returning.
type EncodedImage struct {
	PNG  []byte
	MIME string
	Size int
}

// Service generates QR code images. It is stateless and safe for
// concurrent use.
type Service struct {
	level       qrcode.RecoveryLevel
	defaultSize int
	limits      Limits
}

// New returns a Service with the given default error-correction level
// ("" means medium), the pixel edge used when requests omit a size
// (0 means DefaultSize), and limits.
func New(level string, defaultSize int, limits Limits) (*Service, error) {
	lv, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if defaultSize <= 0 {
		defaultSize = DefaultSize
	}
	return &Service{level: lv, defaultSize: defaultSize, limits: limits}, nil
}

// Generate validates req and returns the content rendered as a square PNG
// of req.Size x req.Size pixels. Each module of the symbol is drawn as a
// uniform block. The output is deterministic for identical inputs.
//
// Errors wrap ErrInvalidArgument when req violates a precondition and
// ErrEncodingFailure when the content does not fit a QR symbol at the
// chosen error-correction level.
func (s *Service) Generate(req Request) (*EncodedImage, error) {
	size, level, err := s.validate(&req)
	if err != nil {
		return nil, err
	}

	code, err := s.newCode(req.Content, level, size)
	if err != nil {
		return nil, err
	}

	png, err := code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	return &EncodedImage{PNG: png, MIME: MIMEPNG, Size: size}, nil
}

// newCode builds the symbol and rejects sizes the renderer cannot honour:
// below one pixel per module the encoder would silently enlarge the image,
// breaking the promise that the output is size x size.
func (s *Service) newCode(content string, level qrcode.RecoveryLevel, size int) (*qrcode.QRCode, error) {
	code, err := qrcode.New(content, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	if min := symbolMinPixels(code); size < min {
		return nil, fmt.Errorf("%w: size %d is below the %d pixel minimum for this content",
			ErrInvalidArgument, size, min)
	}
	return code, nil
}

// symbolMinPixels is the smallest edge that renders the symbol at one pixel
// per module: 4*version+17 modules plus the 4-module quiet zone on each side.
func symbolMinPixels(code *qrcode.QRCode) int {
	return 4*code.VersionNumber + 17 + 8
}

// validate normalises req in place and returns the effective size and
// error-correction level.
func (s *Service) validate(req *Request) (int, qrcode.RecoveryLevel, error) {
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return 0, 0, fmt.Errorf("%w: content must not be empty", ErrInvalidArgument)
	}
	if s.limits.MaxContent > 0 && len(req.Content) > s.limits.MaxContent {
		return 0, 0, fmt.Errorf("%w: content is %d bytes, limit is %d",
			ErrInvalidArgument, len(req.Content), s.limits.MaxContent)
	}

	size := req.Size
	if size == 0 {
		size = s.defaultSize
	}
	if size < 0 {
		return 0, 0, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidArgument, req.Size)
	}
	if s.limits.MaxSize > 0 && size > s.limits.MaxSize {
		return 0, 0, fmt.Errorf("%w: size %d exceeds maximum %d",
			ErrInvalidArgument, size, s.limits.MaxSize)
	}

	level := s.level
	if req.Level != "" {
		lv, err := ParseLevel(req.Level)
		if err != nil {
			return 0, 0, err
		}
		level = lv
	}

	return size, level, nil
}

// ParseLevel maps a level name to the encoder's recovery level. The empty
// string means medium, the common default for screen-scanned codes.
func ParseLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(name) {
	case "", "medium":
		return qrcode.Medium, nil
	case "low":
		return qrcode.Low, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("%w: unknown error-correction level %q", ErrInvalidArgument, name)
	}
}
