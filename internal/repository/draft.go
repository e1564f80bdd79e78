package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BroadcastDraft — черновик сообщения рассылки. У каждого автора
// не больше одного черновика; успешная отправка его удаляет.
type BroadcastDraft struct {
	// Идентификатор черновика
	ID uuid.UUID
	// Идентификатор автора (пользователь панели)
	AuthorID string
	// Текст сообщения
	Text string
	// Отделы-получатели (пустой список — все)
	Departments []string
	// Время последнего сохранения
	UpdatedAt time.Time
}

// BroadcastDraftRepository — интерфейс для таблицы broadcast_drafts.
type BroadcastDraftRepository interface {
	// Get возвращает черновик автора. Если черновика нет — ErrNotFound.
	Get(ctx context.Context, authorID string) (*BroadcastDraft, error)
	// Save создаёт или обновляет черновик автора (upsert).
	Save(ctx context.Context, authorID, text string, departments []string) error
	// Delete удаляет черновик автора. Отсутствие черновика — не ошибка:
	// вызывается после каждой успешной отправки.
	Delete(ctx context.Context, authorID string) error
}

// broadcastDraftRepo — реализация BroadcastDraftRepository.
type broadcastDraftRepo struct {
	db DBTX
}

// NewBroadcastDraftRepository создаёт репозиторий черновиков рассылки.
func NewBroadcastDraftRepository(db DBTX) BroadcastDraftRepository {
	return &broadcastDraftRepo{db: db}
}

// Get возвращает черновик автора.
func (r *broadcastDraftRepo) Get(ctx context.Context, authorID string) (*BroadcastDraft, error) {
	query := `
		SELECT id, author_id, text, departments, updated_at
		FROM broadcast_drafts
		WHERE author_id = $1`

	d := &BroadcastDraft{}
	err := r.db.QueryRow(ctx, query, authorID).Scan(
		&d.ID, &d.AuthorID, &d.Text, &d.Departments, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения черновика автора %s: %w", authorID, err)
	}
	return d, nil
}

// Save создаёт или обновляет черновик (INSERT ... ON CONFLICT DO UPDATE).
func (r *broadcastDraftRepo) Save(ctx context.Context, authorID, text string, departments []string) error {
	if departments == nil {
		departments = []string{}
	}

	query := `
		INSERT INTO broadcast_drafts (id, author_id, text, departments)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (author_id) DO UPDATE
		SET text = EXCLUDED.text,
			departments = EXCLUDED.departments,
			updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, uuid.New(), authorID, text, departments)
	if err != nil {
		return fmt.Errorf("ошибка сохранения черновика автора %s: %w", authorID, err)
	}
	return nil
}

// Delete удаляет черновик автора.
func (r *broadcastDraftRepo) Delete(ctx context.Context, authorID string) error {
	query := `DELETE FROM broadcast_drafts WHERE author_id = $1`
	if _, err := r.db.Exec(ctx, query, authorID); err != nil {
		return fmt.Errorf("ошибка удаления черновика автора %s: %w", authorID, err)
	}
	return nil
}
