package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultPageSize is used when the client does not ask for a limit.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows a single page can request.
	MaxPageSize = 100
)

// Params carries the raw pagination inputs from a request.
type Params struct {
	Limit  int
	Cursor string
}

// PageSize clamps the requested limit into the allowed range.
func (p Params) PageSize() int {
	if p.Limit <= 0 {
		return DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		return MaxPageSize
	}
	return p.Limit
}

// Cursor marks the last row of the previous page. Pages walk newest to
// oldest, so the next page holds rows strictly before this position.
type Cursor struct {
	Before   time.Time
	BeforeID uuid.UUID
}

// Encode packs a row position into an opaque cursor string.
func Encode(before time.Time, id uuid.UUID) string {
	payload := strconv.FormatInt(before.UTC().UnixNano(), 10) + "." + id.String()
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// Decode unpacks a cursor produced by Encode. An empty string means the
// first page and decodes to nil.
func Decode(raw string) (*Cursor, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	nanos, idPart, found := strings.Cut(string(decoded), ".")
	if !found {
		return nil, fmt.Errorf("malformed cursor")
	}
	ts, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor id: %w", err)
	}
	return &Cursor{Before: time.Unix(0, ts).UTC(), BeforeID: id}, nil
}
