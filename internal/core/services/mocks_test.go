package services

import (
	"context"
	"slices"
	"time"

	"moderation-assistant/internal/core/domain"
)

// memoryStore hands out copies so callers cannot mutate the stored
// document without saving it.
type memoryStore struct {
	doc     domain.Document
	loadErr error
	saveErr error
	loads   int
	saves   int
}

func (m *memoryStore) Load(ctx context.Context) (*domain.Document, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	doc := m.doc
	doc.Whitelist = slices.Clone(m.doc.Whitelist)
	return &doc, nil
}

func (m *memoryStore) Save(ctx context.Context, doc *domain.Document) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = *doc
	m.doc.Whitelist = slices.Clone(doc.Whitelist)
	return nil
}

type timeoutCall struct {
	guildID string
	userID  string
	until   *time.Time
}

type mockModerator struct {
	setChannelPermissionFunc func(ctx context.Context, channelID, roleID string, access domain.ChannelAccess) error
	cloneChannelFunc         func(ctx context.Context, channelID string) (*domain.Channel, *domain.Channel, error)
	deleteChannelFunc        func(ctx context.Context, channelID string) error
	repositionChannelFunc    func(ctx context.Context, channelID string, position int) error
	timeoutMemberFunc        func(ctx context.Context, guildID, userID string, until *time.Time) error
	removeMemberFunc         func(ctx context.Context, guildID, userID, reason string) error
	fetchBanFunc             func(ctx context.Context, guildID, userID string) (*domain.Ban, error)
	liftBanFunc              func(ctx context.Context, guildID, userID string) error

	calls        []string
	timeoutCalls []timeoutCall
}

func (m *mockModerator) SetChannelPermission(ctx context.Context, channelID, roleID string, access domain.ChannelAccess) error {
	m.calls = append(m.calls, "SetChannelPermission")
	if m.setChannelPermissionFunc != nil {
		return m.setChannelPermissionFunc(ctx, channelID, roleID, access)
	}
	return nil
}

func (m *mockModerator) CloneChannel(ctx context.Context, channelID string) (*domain.Channel, *domain.Channel, error) {
	m.calls = append(m.calls, "CloneChannel")
	if m.cloneChannelFunc != nil {
		return m.cloneChannelFunc(ctx, channelID)
	}
	return &domain.Channel{ID: channelID}, &domain.Channel{ID: channelID + "-clone"}, nil
}

func (m *mockModerator) DeleteChannel(ctx context.Context, channelID string) error {
	m.calls = append(m.calls, "DeleteChannel")
	if m.deleteChannelFunc != nil {
		return m.deleteChannelFunc(ctx, channelID)
	}
	return nil
}

func (m *mockModerator) RepositionChannel(ctx context.Context, channelID string, position int) error {
	m.calls = append(m.calls, "RepositionChannel")
	if m.repositionChannelFunc != nil {
		return m.repositionChannelFunc(ctx, channelID, position)
	}
	return nil
}

func (m *mockModerator) TimeoutMember(ctx context.Context, guildID, userID string, until *time.Time) error {
	m.calls = append(m.calls, "TimeoutMember")
	m.timeoutCalls = append(m.timeoutCalls, timeoutCall{guildID: guildID, userID: userID, until: until})
	if m.timeoutMemberFunc != nil {
		return m.timeoutMemberFunc(ctx, guildID, userID, until)
	}
	return nil
}

func (m *mockModerator) RemoveMember(ctx context.Context, guildID, userID, reason string) error {
	m.calls = append(m.calls, "RemoveMember")
	if m.removeMemberFunc != nil {
		return m.removeMemberFunc(ctx, guildID, userID, reason)
	}
	return nil
}

func (m *mockModerator) FetchBan(ctx context.Context, guildID, userID string) (*domain.Ban, error) {
	m.calls = append(m.calls, "FetchBan")
	if m.fetchBanFunc != nil {
		return m.fetchBanFunc(ctx, guildID, userID)
	}
	return nil, nil
}

func (m *mockModerator) LiftBan(ctx context.Context, guildID, userID string) error {
	m.calls = append(m.calls, "LiftBan")
	if m.liftBanFunc != nil {
		return m.liftBanFunc(ctx, guildID, userID)
	}
	return nil
}

type mockAudit struct {
	entries   []domain.AuditEntry
	recordErr error
}

func (m *mockAudit) Record(ctx context.Context, entry domain.AuditEntry) error {
	m.entries = append(m.entries, entry)
	return m.recordErr
}

func (m *mockAudit) Close() {}
