package services

import (
	"context"
	"strings"
	"time"

	"moderation-assistant/internal/core/domain"
	"moderation-assistant/internal/core/ports"

	"github.com/disgoorg/snowflake/v2"
	"github.com/m-mizutani/goerr/v2"
)

// IsAuthorized reports whether callerID is on the document's whitelist.
func IsAuthorized(callerID snowflake.ID, doc *domain.Document) bool {
	return doc.IsWhitelisted(callerID)
}

// ParseID parses a user supplied identifier.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.Parse(strings.TrimSpace(raw))
	if err != nil {
		return 0, goerr.Wrap(domain.ErrInvalidID, "parse id", goerr.V("raw", raw))
	}
	return id, nil
}

// WhitelistService reads and mutates the whitelist held in the
// configuration document.
//
// Every call loads the document from the store, so edits made to the file
// while the bot runs apply to the next command. Add and Remove are
// load-modify-save without locking: two concurrent mutations can race and
// the last Save wins.
type WhitelistService struct {
	store ports.DocumentStore
	audit auditor
}

func NewWhitelistService(store ports.DocumentStore, audit ports.AuditLog) *WhitelistService {
	if audit == nil {
		audit = NopAuditLog{}
	}
	return &WhitelistService{
		store: store,
		audit: auditor{log: audit, now: time.Now},
	}
}

// Authorize loads the current document and checks callerID against it.
// The document is returned on denial too, so the caller can style the
// denial card from it.
func (s *WhitelistService) Authorize(ctx context.Context, callerID string) (*domain.Document, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	id, err := snowflake.Parse(callerID)
	if err != nil || !IsAuthorized(id, doc) {
		return doc, goerr.Wrap(domain.ErrUnauthorized, "authorize caller", goerr.V("caller_id", callerID))
	}

	return doc, nil
}

func (s *WhitelistService) List(ctx context.Context) ([]snowflake.ID, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Whitelist, nil
}

// Add appends the id in raw to the whitelist and saves the document.
func (s *WhitelistService) Add(ctx context.Context, act domain.Action, raw string) (snowflake.ID, error) {
	return s.mutate(ctx, act, "add_whitelisted", raw, (*domain.Document).AddToWhitelist)
}

// Remove drops the id in raw from the whitelist and saves the document.
func (s *WhitelistService) Remove(ctx context.Context, act domain.Action, raw string) (snowflake.ID, error) {
	return s.mutate(ctx, act, "remove_whitelisted", raw, (*domain.Document).RemoveFromWhitelist)
}

func (s *WhitelistService) mutate(
	ctx context.Context,
	act domain.Action,
	action, raw string,
	apply func(*domain.Document, snowflake.ID) error,
) (snowflake.ID, error) {
	id, err := ParseID(raw)
	if err != nil {
		return 0, err
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return id, err
	}

	if err := apply(doc, id); err != nil {
		return id, goerr.Wrap(err, action, goerr.V("id", id.String()))
	}

	err = s.store.Save(ctx, doc)
	s.audit.record(ctx, act, action, id.String(), "", err)
	if err != nil {
		return id, err
	}

	return id, nil
}
