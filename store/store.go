// Package store persists conversations behind two interchangeable backends:
// a flat-file JSON store and a relational store. The backend is chosen once
// at construction, from the presence of a connection string.
package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/councilhq/council/configuration"
)

// ErrNotFound is returned when the target conversation does not exist.
// Callers test for it with errors.Is.
var ErrNotFound = errors.New("conversation not found")

// ErrAlreadyExists is returned by Create when the id is already taken.
// Both backends enforce this consistently.
var ErrAlreadyExists = errors.New("conversation already exists")

// ErrInvalidID is returned by Create when the id is empty or contains path
// elements. The file backend joins the id into a file path, so an id like
// "../escaped" would otherwise write outside the data directory.
var ErrInvalidID = errors.New("invalid conversation id")

// IsNotFound reports whether err carries the not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err carries the duplicate-id condition.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidID reports whether err carries the invalid-id condition.
func IsInvalidID(err error) bool {
	return errors.Is(err, ErrInvalidID)
}

// Backend is the storage strategy behind a Store. Implementations are
// FileStore and SQLStore.
type Backend interface {
	// Create persists a new conversation, failing with ErrAlreadyExists
	// if the id is taken.
	Create(ctx context.Context, conversation *Conversation) error
	// Get reads the full record, or ErrNotFound.
	Get(ctx context.Context, id string) (*Conversation, error)
	// Save overwrites title and messages for the conversation's id.
	// A save against an id that was never created is a silent no-op on
	// the relational backend; the file backend writes the file regardless.
	Save(ctx context.Context, conversation *Conversation) error
	// List returns summaries of all conversations, most recent first.
	List(ctx context.Context) ([]*Summary, error)
	// Close releases backend resources.
	Close() error
}

// Store dispatches conversation operations to the backend selected at
// construction, and carries the read-modify-write helpers shared by both.
type Store struct {
	backend Backend
}

// New selects a backend from the configuration: a connection string selects
// the relational backend, otherwise conversations live as JSON files under
// the configured data directory.
func New(config *configuration.Config) (*Store, error) {
	if config.DatabaseURL != "" {
		backend, err := NewSQLStore(config.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "opening sql store")
		}
		return &Store{backend: backend}, nil
	}
	backend, err := NewFileStore(config.DataDir)
	if err != nil {
		return nil, errors.Wrap(err, "opening file store")
	}
	return &Store{backend: backend}, nil
}

// NewWithBackend wraps an explicit backend. Used by callers that construct
// their own backend, and by tests.
func NewWithBackend(backend Backend) *Store {
	return &Store{backend: backend}
}

// Create instantiates a conversation with the given id and persists it.
func (s *Store) Create(ctx context.Context, id string) (*Conversation, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	conversation := NewConversation(id)
	if err := s.backend.Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// validateID rejects ids that are empty or that could escape the file
// backend's data directory when joined into a path.
func validateID(id string) error {
	if id == "" {
		return errors.Wrap(ErrInvalidID, "id must not be empty")
	}
	if strings.Contains(id, "/") || strings.Contains(id, `\`) || strings.Contains(id, "..") {
		return errors.Wrapf(ErrInvalidID, "id '%s' must not contain path elements", id)
	}
	return nil
}

// Get reads the full conversation record, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Conversation, error) {
	return s.backend.Get(ctx, id)
}

// Save overwrites the stored title and messages for the conversation's id.
// This is a full-record replace: changes made by a concurrent writer between
// a Get and this Save are lost.
func (s *Store) Save(ctx context.Context, conversation *Conversation) error {
	return s.backend.Save(ctx, conversation)
}

// List returns summaries of all conversations ordered by creation time,
// most recent first.
func (s *Store) List(ctx context.Context) ([]*Summary, error) {
	return s.backend.List(ctx)
}

// Close releases the active backend's resources.
func (s *Store) Close() error {
	return s.backend.Close()
}

// AddUserMessage appends a user turn to the conversation. Returns ErrNotFound
// if the conversation does not exist; appending to a nonexistent conversation
// is a programming error, not a race to tolerate.
func (s *Store) AddUserMessage(ctx context.Context, id, content string) error {
	conversation, err := s.backend.Get(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "getting conversation '%s'", id)
	}
	conversation.AppendUser(content)
	return s.backend.Save(ctx, conversation)
}

// AddAssistantMessage appends an assistant turn carrying the three stage
// payloads. Same ErrNotFound contract as AddUserMessage.
func (s *Store) AddAssistantMessage(ctx context.Context, id string, stage1, stage2 []json.RawMessage, stage3 json.RawMessage) error {
	conversation, err := s.backend.Get(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "getting conversation '%s'", id)
	}
	conversation.AppendAssistant(stage1, stage2, stage3)
	return s.backend.Save(ctx, conversation)
}

// UpdateTitle renames the conversation. Same ErrNotFound contract as
// AddUserMessage.
func (s *Store) UpdateTitle(ctx context.Context, id, title string) error {
	conversation, err := s.backend.Get(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "getting conversation '%s'", id)
	}
	conversation.Title = title
	return s.backend.Save(ctx, conversation)
}
