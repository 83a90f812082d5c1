package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// sqlDialect captures the few points where Postgres and SQLite diverge for
// this schema.
type sqlDialect struct {
	driver       string
	messagesType string // column type carrying the messages array
	arrayLength  string // SQL function counting entries of that column
}

var (
	postgresDialect = sqlDialect{
		driver:       "pgx",
		messagesType: "JSONB NOT NULL DEFAULT '[]'::jsonb",
		arrayLength:  "jsonb_array_length",
	}
	sqliteDialect = sqlDialect{
		driver:       "sqlite",
		messagesType: "TEXT NOT NULL DEFAULT '[]'",
		arrayLength:  "json_array_length",
	}
)

// SQLStore keeps conversations in a single relational table. Postgres URLs
// use the pgx driver; any other connection string is treated as a SQLite
// database path.
type SQLStore struct {
	db      *sql.DB
	dialect sqlDialect
}

// NewSQLStore opens the database and ensures the conversations table exists.
// The create-if-absent is idempotent and runs once per process, before the
// first read or write.
func NewSQLStore(connectionString string) (*SQLStore, error) {
	dialect := dialectFor(connectionString)
	db, err := sql.Open(dialect.driver, connectionString)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			title TEXT NOT NULL,
			messages %s
		)
	`, dialect.messagesType))
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating conversations table")
	}

	return &SQLStore{db: db, dialect: dialect}, nil
}

func dialectFor(connectionString string) sqlDialect {
	if strings.HasPrefix(connectionString, "postgres://") || strings.HasPrefix(connectionString, "postgresql://") {
		return postgresDialect
	}
	return sqliteDialect
}

// Create inserts the conversation, failing with ErrAlreadyExists when the
// primary key is taken.
func (s *SQLStore) Create(ctx context.Context, conversation *Conversation) error {
	messages, err := marshalMessages(conversation)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, created_at, title, messages)
		VALUES ($1, $2, $3, $4)
	`, conversation.ID, conversation.CreatedAt, conversation.Title, messages)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(ErrAlreadyExists, "conversation '%s'", conversation.ID)
		}
		return errors.Wrap(err, "inserting conversation")
	}
	return nil
}

// Get reads the full row for the id, with messages deserialized from their
// stored structured form.
func (s *SQLStore) Get(ctx context.Context, id string) (*Conversation, error) {
	conversation := &Conversation{}
	var messagesJSON []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, title, messages
		FROM conversations
		WHERE id = $1
	`, id).Scan(&conversation.ID, &conversation.CreatedAt, &conversation.Title, &messagesJSON)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "conversation '%s'", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying conversation")
	}
	if err := json.Unmarshal(messagesJSON, &conversation.Messages); err != nil {
		return nil, errors.Wrap(err, "unmarshaling messages")
	}
	conversation.normalize()
	return conversation, nil
}

// Save overwrites title and messages for the matching row. An id that
// matches no row is a silent no-op.
func (s *SQLStore) Save(ctx context.Context, conversation *Conversation) error {
	messages, err := marshalMessages(conversation)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE conversations
		SET title = $2, messages = $3
		WHERE id = $1
	`, conversation.ID, conversation.Title, messages)
	if err != nil {
		return errors.Wrap(err, "updating conversation")
	}
	return nil
}

// List computes summaries in SQL, with the message count taken from the
// stored array rather than a separate column. Ordering compares the stored
// timestamp strings, which is sound because their layout is fixed-width.
func (s *SQLStore) List(ctx context.Context) ([]*Summary, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, created_at, title, %s(messages)
		FROM conversations
		ORDER BY created_at DESC
	`, s.dialect.arrayLength))
	if err != nil {
		return nil, errors.Wrap(err, "querying conversations")
	}
	defer rows.Close()

	summaries := []*Summary{}
	for rows.Next() {
		summary := &Summary{}
		if err := rows.Scan(&summary.ID, &summary.CreatedAt, &summary.Title, &summary.MessageCount); err != nil {
			return nil, errors.Wrap(err, "scanning conversation row")
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating conversation rows")
	}
	return summaries, nil
}

// Close closes the database connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// marshalMessages encodes the message array for the messages column. It
// returns a string: the pgx driver would send []byte as bytea, which the
// JSONB column rejects.
func marshalMessages(conversation *Conversation) (string, error) {
	conversation.normalize()
	messages, err := json.Marshal(conversation.Messages)
	if err != nil {
		return "", errors.Wrap(err, "marshaling messages")
	}
	return string(messages), nil
}

// isUniqueViolation recognizes a primary-key collision from either driver:
// SQLSTATE 23505 from Postgres, the constraint message from SQLite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
