package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/emiliopalmerini/exportview/internal/domain"
)

const (
	UsersFile         = "users.json"
	ConversationsFile = "conversations.json"
	ProjectsFile      = "projects.json"
)

// DefaultMaxEntryBytes bounds how much of a single entry is decompressed.
const DefaultMaxEntryBytes int64 = 512 << 20

var (
	ErrMissingRequired = errors.New("archive must contain users.json and conversations.json")
	ErrNotArray        = errors.New("users.json and conversations.json must be arrays")
	ErrEntryTooLarge   = errors.New("archive entry exceeds size limit")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader turns an archive into raw record collections.
type Loader struct {
	MaxEntryBytes int64
}

// NewLoader creates a loader. A non-positive limit selects DefaultMaxEntryBytes.
func NewLoader(maxEntryBytes int64) *Loader {
	return &Loader{MaxEntryBytes: maxEntryBytes}
}

// Load reads the export files from a. It either returns all three
// collections (projects possibly empty) or an error; there is no partial
// result.
func (l *Loader) Load(ctx context.Context, a Archive) (*domain.Export, error) {
	entries, err := a.Entries()
	if err != nil {
		return nil, fmt.Errorf("failed to list archive entries: %w", err)
	}

	found := make(map[string][]byte, 3)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("archive load aborted: %w", err)
		}
		if e.IsDir() {
			continue
		}

		base := entryBase(e.Name())
		switch base {
		case UsersFile, ConversationsFile, ProjectsFile:
		default:
			continue
		}

		data, err := l.read(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		found[base] = data
	}

	usersData, hasUsers := found[UsersFile]
	convData, hasConvs := found[ConversationsFile]
	if !hasUsers || !hasConvs {
		return nil, ErrMissingRequired
	}

	userItems, err := splitArray(usersData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", UsersFile, err)
	}
	convItems, err := splitArray(convData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ConversationsFile, err)
	}

	// projects.json is supplementary: anything other than a valid array
	// degrades to an empty collection.
	var projects []domain.Project
	if projData, ok := found[ProjectsFile]; ok {
		if items, err := splitArray(projData); err == nil {
			projects = decodeRecords[domain.Project](items)
		}
	}
	if projects == nil {
		projects = []domain.Project{}
	}

	return &domain.Export{
		Users:         decodeRecords[domain.User](userItems),
		Conversations: decodeRecords[domain.Conversation](convItems),
		Projects:      projects,
	}, nil
}

func (l *Loader) maxEntryBytes() int64 {
	if l == nil || l.MaxEntryBytes <= 0 {
		return DefaultMaxEntryBytes
	}
	return l.MaxEntryBytes
}

func (l *Loader) read(ctx context.Context, e Entry) ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	limit := l.maxEntryBytes()
	data, err := io.ReadAll(io.LimitReader(ctxReader{ctx: ctx, r: rc}, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrEntryTooLarge, limit)
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}

// entryBase returns the case-folded final path segment of an entry name.
// Zip files written on Windows may use backslashes.
func entryBase(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.ToLower(path.Base(name))
}

// splitArray parses data and returns the elements of its top-level array.
func splitArray(data []byte) ([]json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return items, nil
}

// decodeRecords decodes each element independently. Fields whose JSON type
// does not match are left at their zero value instead of failing the load.
func decodeRecords[T any](items []json.RawMessage) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		var rec T
		_ = json.Unmarshal(item, &rec)
		out = append(out, rec)
	}
	return out
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
