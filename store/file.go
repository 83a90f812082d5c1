package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/councilhq/council/internal/file"
)

// FileStore keeps one JSON document per conversation at <dir>/<id>.json.
type FileStore struct {
	dir string
}

// NewFileStore opens a file-backed store rooted at dir, creating the
// directory if absent.
func NewFileStore(dir string) (*FileStore, error) {
	if err := file.CreateDirectoryIfNotExist(dir); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	return &FileStore{dir: dir}, nil
}

// Create writes the conversation's file, failing with ErrAlreadyExists if a
// file for the id is already present. O_EXCL makes the existence check and
// the create a single atomic step.
func (s *FileStore) Create(ctx context.Context, conversation *Conversation) error {
	file, err := os.OpenFile(s.path(conversation.ID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return errors.Wrapf(ErrAlreadyExists, "conversation '%s'", conversation.ID)
		}
		return errors.Wrap(err, "creating conversation file")
	}
	defer file.Close()

	conversation.normalize()
	bytes, err := json.MarshalIndent(conversation, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling conversation to JSON")
	}
	if _, err := file.Write(bytes); err != nil {
		return errors.Wrap(err, "writing conversation file")
	}
	return nil
}

// Get reads and parses the conversation's file. The whole record is parsed;
// there are no partial reads.
func (s *FileStore) Get(ctx context.Context, id string) (*Conversation, error) {
	bytes, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "conversation '%s'", id)
		}
		return nil, errors.Wrap(err, "reading conversation file")
	}
	conversation := &Conversation{}
	if err := json.Unmarshal(bytes, conversation); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into conversation")
	}
	conversation.normalize()
	return conversation, nil
}

// Save overwrites the conversation's file, creating it if absent.
func (s *FileStore) Save(ctx context.Context, conversation *Conversation) error {
	conversation.normalize()
	bytes, err := json.MarshalIndent(conversation, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling conversation to JSON")
	}
	if err := os.WriteFile(s.path(conversation.ID), bytes, 0644); err != nil {
		return errors.Wrap(err, "writing conversation file")
	}
	return nil
}

// List parses every conversation file to compute summaries. This is a full
// scan: O(n) opens with no index. Conversations sharing a creation timestamp
// keep directory-listing order.
func (s *FileStore) List(ctx context.Context) ([]*Summary, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing data directory")
	}
	summaries := []*Summary{}
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		conversation, err := s.Get(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, errors.Wrapf(err, "reading '%s'", name)
		}
		summaries = append(summaries, &Summary{
			ID:           conversation.ID,
			CreatedAt:    conversation.CreatedAt,
			Title:        conversation.Title,
			MessageCount: len(conversation.Messages),
		})
	}
	// Fixed-width RFC 3339 timestamps order lexicographically.
	sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].CreatedAt > summaries[j].CreatedAt })
	return summaries, nil
}

// Close is a no-op: file handles are scoped per call.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
