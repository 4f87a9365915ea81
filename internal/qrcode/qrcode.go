package qrcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"fitness-backend/internal/apperrors"
)

const imageSize = 430

// Payload is the content carried inside a QR image: "{scene}#{id}".
type Payload struct {
	Scene string
	ID    int
}

func (p Payload) String() string {
	return fmt.Sprintf("%s#%d", p.Scene, p.ID)
}

// ParsePayload decodes a scanned QR content string.
func ParsePayload(s string) (Payload, error) {
	scene, idStr, ok := strings.Cut(s, "#")
	if !ok || scene == "" {
		return Payload{}, apperrors.Invalid("malformed QR content %q", s)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return Payload{}, apperrors.Invalid("malformed QR id in %q", s)
	}
	return Payload{Scene: scene, ID: id}, nil
}

// DataURI renders the payload as a base64 PNG data URI, ready to drop into
// an <img src>.
func DataURI(p Payload) (string, error) {
	code, err := qr.Encode(p.String(), qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("qr encode: %w", err)
	}
	code, err = barcode.Scale(code, imageSize, imageSize)
	if err != nil {
		return "", fmt.Errorf("qr scale: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return "", fmt.Errorf("qr png: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
