// Package document persists the configuration document as a JSON or TOML
// file.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"moderation-assistant/internal/core/domain"
	"moderation-assistant/internal/metrics"

	"github.com/m-mizutani/goerr/v2"
)

type codec interface {
	decode(data []byte) (*fileDocument, error)
	encode(doc *fileDocument) ([]byte, error)
}

// Store reads the document from disk on every Load and rewrites it whole on
// every Save. It holds no lock: concurrent saves race and the last one wins.
type Store struct {
	path  string
	codec codec
}

// NewStore picks the file format from the extension of path.
func NewStore(path string) (*Store, error) {
	var c codec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		c = jsonCodec{}
	case ".toml":
		c = tomlCodec{}
	default:
		return nil, fmt.Errorf("unsupported configuration document format: %q", path)
	}

	return &Store{path: path, codec: c}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(ctx context.Context) (*domain.Document, error) {
	doc, err := s.load(ctx)
	metrics.ConfigOperations.WithLabelValues("load", metrics.Status(err)).Inc()
	if err != nil {
		return nil, err
	}

	metrics.WhitelistSize.Set(float64(len(doc.Whitelist)))
	return doc, nil
}

func (s *Store) load(ctx context.Context) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, goerr.Wrap(domain.ErrConfigUnreadable, "read configuration document",
			goerr.V("path", s.path), goerr.V("cause", err.Error()))
	}

	fd, err := s.codec.decode(data)
	if err != nil {
		return nil, goerr.Wrap(domain.ErrConfigUnreadable, "decode configuration document",
			goerr.V("path", s.path), goerr.V("cause", err.Error()))
	}

	doc, err := fd.toDomain()
	if err != nil {
		return nil, goerr.Wrap(domain.ErrConfigUnreadable, "parse configuration document",
			goerr.V("path", s.path), goerr.V("cause", err.Error()))
	}

	return doc, nil
}

func (s *Store) Save(ctx context.Context, doc *domain.Document) error {
	err := s.save(ctx, doc)
	metrics.ConfigOperations.WithLabelValues("save", metrics.Status(err)).Inc()
	return err
}

func (s *Store) save(ctx context.Context, doc *domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fd := fromDomain(doc)
	fd.Unknown = s.unknownMembers()

	data, err := s.codec.encode(fd)
	if err != nil {
		return goerr.Wrap(domain.ErrConfigWrite, "encode configuration document",
			goerr.V("path", s.path), goerr.V("cause", err.Error()))
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return goerr.Wrap(domain.ErrConfigWrite, "write configuration document",
			goerr.V("path", s.path), goerr.V("cause", err.Error()))
	}

	return nil
}

// unknownMembers reads the current file for members the bot does not model.
// A missing or undecodable file has none.
func (s *Store) unknownMembers() any {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	fd, err := s.codec.decode(data)
	if err != nil {
		return nil
	}
	return fd.Unknown
}
