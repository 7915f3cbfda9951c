// Package sqldb is the SQL implementation of the draft store, backed
// by SQLite through sqlx.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/attache-ai/attache/internal/domain"
	"github.com/attache-ai/attache/internal/storage"
)

// Store is a SQLite implementation of storage.DraftStore.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ storage.DraftStore = (*Store)(nil)

// New opens (or creates) the database at path and initializes the
// schema.
func New(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// WithClock overrides the store's clock. Tests use this to pin
// updated_at values.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			thread_id TEXT NOT NULL,
			message_id TEXT NOT NULL,
			draft_type TEXT NOT NULL,
			status TEXT NOT NULL,
			to_emails TEXT,
			cc_emails TEXT,
			bcc_emails TEXT,
			subject TEXT,
			body TEXT,
			attachments TEXT,
			originating_thread_ref TEXT NOT NULL DEFAULT '',
			reply_to_message_ref TEXT NOT NULL DEFAULT '',
			summary TEXT,
			start_time TEXT,
			end_time TEXT,
			attendees TEXT,
			location TEXT,
			description TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_thread_status ON drafts(thread_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_updated ON drafts(updated_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// draftRow is the flat database shape of a draft. Recipient, attendee
// and attachment lists are stored as JSON text columns.
type draftRow struct {
	ID                   string         `db:"id"`
	ThreadID             string         `db:"thread_id"`
	MessageID            string         `db:"message_id"`
	DraftType            string         `db:"draft_type"`
	Status               string         `db:"status"`
	ToEmails             sql.NullString `db:"to_emails"`
	CcEmails             sql.NullString `db:"cc_emails"`
	BccEmails            sql.NullString `db:"bcc_emails"`
	Subject              sql.NullString `db:"subject"`
	Body                 sql.NullString `db:"body"`
	Attachments          sql.NullString `db:"attachments"`
	OriginatingThreadRef string         `db:"originating_thread_ref"`
	ReplyToMessageRef    string         `db:"reply_to_message_ref"`
	Summary              sql.NullString `db:"summary"`
	StartTime            sql.NullString `db:"start_time"`
	EndTime              sql.NullString `db:"end_time"`
	Attendees            sql.NullString `db:"attendees"`
	Location             sql.NullString `db:"location"`
	Description          sql.NullString `db:"description"`
	CreatedAt            int64          `db:"created_at"`
	UpdatedAt            int64          `db:"updated_at"`
}

func toRow(d *domain.Draft) (*draftRow, error) {
	row := &draftRow{
		ID:                   d.ID,
		ThreadID:             d.ThreadID,
		MessageID:            d.MessageID,
		DraftType:            string(d.DraftType),
		Status:               string(d.Status),
		Subject:              toNullString(d.Subject),
		Body:                 toNullString(d.Body),
		OriginatingThreadRef: d.OriginatingThreadRef,
		ReplyToMessageRef:    d.ReplyToMessageRef,
		Summary:              toNullString(d.Summary),
		StartTime:            toNullString(d.StartTime),
		EndTime:              toNullString(d.EndTime),
		Location:             toNullString(d.Location),
		Description:          toNullString(d.Description),
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}

	var err error
	if row.ToEmails, err = marshalList(d.ToEmails); err != nil {
		return nil, err
	}
	if row.CcEmails, err = marshalList(d.CcEmails); err != nil {
		return nil, err
	}
	if row.BccEmails, err = marshalList(d.BccEmails); err != nil {
		return nil, err
	}
	if row.Attachments, err = marshalList(d.Attachments); err != nil {
		return nil, err
	}
	if row.Attendees, err = marshalList(d.Attendees); err != nil {
		return nil, err
	}
	return row, nil
}

func fromRow(row *draftRow) (*domain.Draft, error) {
	d := &domain.Draft{
		ID:                   row.ID,
		ThreadID:             row.ThreadID,
		MessageID:            row.MessageID,
		DraftType:            domain.DraftType(row.DraftType),
		Status:               domain.DraftStatus(row.Status),
		Subject:              fromNullString(row.Subject),
		Body:                 fromNullString(row.Body),
		OriginatingThreadRef: row.OriginatingThreadRef,
		ReplyToMessageRef:    row.ReplyToMessageRef,
		Summary:              fromNullString(row.Summary),
		StartTime:            fromNullString(row.StartTime),
		EndTime:              fromNullString(row.EndTime),
		Location:             fromNullString(row.Location),
		Description:          fromNullString(row.Description),
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}

	if err := unmarshalList(row.ToEmails, &d.ToEmails); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.CcEmails, &d.CcEmails); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.BccEmails, &d.BccEmails); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.Attachments, &d.Attachments); err != nil {
		return nil, err
	}
	if err := unmarshalList(row.Attendees, &d.Attendees); err != nil {
		return nil, err
	}
	return d, nil
}

func marshalList[T any](list []T) (sql.NullString, error) {
	if list == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal list: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalList[T any](ns sql.NullString, out *[]T) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(ns.String), out); err != nil {
		return fmt.Errorf("failed to unmarshal list: %w", err)
	}
	return nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

const draftColumns = `id, thread_id, message_id, draft_type, status,
	to_emails, cc_emails, bcc_emails, subject, body, attachments,
	originating_thread_ref, reply_to_message_ref,
	summary, start_time, end_time, attendees, location, description,
	created_at, updated_at`

const draftPlaceholders = `:id, :thread_id, :message_id, :draft_type, :status,
	:to_emails, :cc_emails, :bcc_emails, :subject, :body, :attachments,
	:originating_thread_ref, :reply_to_message_ref,
	:summary, :start_time, :end_time, :attendees, :location, :description,
	:created_at, :updated_at`

func (s *Store) Get(ctx context.Context, draftID string) (*domain.Draft, error) {
	var row draftRow
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE id = ?`
	if err := s.db.GetContext(ctx, &row, query, draftID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return fromRow(&row)
}

func (s *Store) GetActiveByThread(ctx context.Context, threadID string) ([]*domain.Draft, error) {
	var rows []draftRow
	query := `SELECT ` + draftColumns + ` FROM drafts
		WHERE thread_id = ? AND status = ?
		ORDER BY updated_at DESC, id ASC`
	if err := s.db.SelectContext(ctx, &rows, query, threadID, string(domain.DraftStatusActive)); err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	out := make([]*domain.Draft, 0, len(rows))
	for i := range rows {
		d, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) Upsert(ctx context.Context, draft *domain.Draft) error {
	row, err := toRow(draft)
	if err != nil {
		return err
	}

	query := `INSERT INTO drafts (` + draftColumns + `) VALUES (` + draftPlaceholders + `)
		ON CONFLICT(id) DO UPDATE SET
			thread_id = excluded.thread_id,
			message_id = excluded.message_id,
			draft_type = excluded.draft_type,
			status = excluded.status,
			to_emails = excluded.to_emails,
			cc_emails = excluded.cc_emails,
			bcc_emails = excluded.bcc_emails,
			subject = excluded.subject,
			body = excluded.body,
			attachments = excluded.attachments,
			originating_thread_ref = excluded.originating_thread_ref,
			reply_to_message_ref = excluded.reply_to_message_ref,
			summary = excluded.summary,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			attendees = excluded.attendees,
			location = excluded.location,
			description = excluded.description,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}
	return nil
}

// ApplyPatch runs read-modify-write inside a single transaction so the
// field changes and the composio_error -> active reset commit together.
func (s *Store) ApplyPatch(ctx context.Context, draftID string, patch domain.FieldPatch) (*domain.Draft, error) {
	var updated *domain.Draft

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		d, err := s.getInTx(ctx, tx, draftID)
		if err != nil {
			return err
		}
		if d.Status == domain.DraftStatusClosed {
			return &domain.NotActiveError{DraftID: draftID, Status: d.Status}
		}
		if patch.IsEmpty() {
			updated = d
			return nil
		}

		patch.Apply(d)
		if d.Status == domain.DraftStatusComposioError {
			d.Status = domain.DraftStatusActive
		}
		d.Touch(s.now())

		if err := s.writeInTx(ctx, tx, d); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) SetStatus(ctx context.Context, draftID string, status domain.DraftStatus) (*domain.Draft, error) {
	var updated *domain.Draft

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		d, err := s.getInTx(ctx, tx, draftID)
		if err != nil {
			return err
		}
		if d.Status == domain.DraftStatusClosed {
			return &domain.NotActiveError{DraftID: draftID, Status: d.Status}
		}

		d.Status = status
		d.Touch(s.now())

		if err := s.writeInTx(ctx, tx, d); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) getInTx(ctx context.Context, tx *sqlx.Tx, draftID string) (*domain.Draft, error) {
	var row draftRow
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE id = ?`
	if err := tx.GetContext(ctx, &row, query, draftID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return fromRow(&row)
}

func (s *Store) writeInTx(ctx context.Context, tx *sqlx.Tx, d *domain.Draft) error {
	row, err := toRow(d)
	if err != nil {
		return err
	}

	query := `UPDATE drafts SET
			status = :status,
			to_emails = :to_emails,
			cc_emails = :cc_emails,
			bcc_emails = :bcc_emails,
			subject = :subject,
			body = :body,
			attachments = :attachments,
			summary = :summary,
			start_time = :start_time,
			end_time = :end_time,
			attendees = :attendees,
			location = :location,
			description = :description,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	return nil
}
