package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	notificationdb "github.com/nao1215/tickethub/internal/notification/db"
)

// ErrNotificationNotFound は対象の通知が存在しないことを示すエラー。
var ErrNotificationNotFound = errors.New("通知が見つかりません")

// Store は通知の永続化を担当する。
type Store struct {
	// queries はsqlcが生成したクエリ実行オブジェクト。
	queries *notificationdb.Queries
}

// NewStore は新しいStoreを生成する。
func NewStore(queries *notificationdb.Queries) *Store {
	return &Store{queries: queries}
}

// Create は新しい通知を作成する。
// dedupKey が空でない場合、同じキーを持つ通知が既に存在すれば
// 作成をスキップしてfalseを返す（重複抑止）。
func (s *Store) Create(ctx context.Context, recipientID, message, dedupKey string) (bool, error) {
	rows, err := s.queries.CreateNotification(ctx, notificationdb.CreateNotificationParams{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Message:     message,
		DedupKey: sql.NullString{
			String: dedupKey,
			Valid:  dedupKey != "",
		},
	})
	if err != nil {
		return false, fmt.Errorf("通知の作成に失敗: %w", err)
	}
	return rows > 0, nil
}

// GetByID は指定IDの通知を取得する。
// 通知が存在しない場合はErrNotificationNotFoundを返す。
func (s *Store) GetByID(ctx context.Context, id string) (notificationdb.Notification, error) {
	n, err := s.queries.GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notificationdb.Notification{}, ErrNotificationNotFound
		}
		return notificationdb.Notification{}, fmt.Errorf("通知の取得に失敗: %w", err)
	}
	return n, nil
}

// ListByRecipient は指定受信者の全通知を新しい順で返す。
// 通知が1件もない場合は空スライスを返す。
func (s *Store) ListByRecipient(ctx context.Context, recipientID string) ([]notificationdb.Notification, error) {
	notifications, err := s.queries.ListNotificationsByRecipientID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("通知一覧の取得に失敗: %w", err)
	}
	return notifications, nil
}

// ListUnreadByRecipient は指定受信者の未読通知を新しい順で返す。
// 未読通知が1件もない場合はErrNotificationNotFoundを返す。
func (s *Store) ListUnreadByRecipient(ctx context.Context, recipientID string) ([]notificationdb.Notification, error) {
	notifications, err := s.queries.ListUnreadNotificationsByRecipientID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("未読通知一覧の取得に失敗: %w", err)
	}
	if len(notifications) == 0 {
		return nil, ErrNotificationNotFound
	}
	return notifications, nil
}

// MarkRead は指定IDの通知の既読状態を更新する。
// 通知が存在しない場合はErrNotificationNotFoundを返す。
func (s *Store) MarkRead(ctx context.Context, id string, isRead bool) error {
	var flag int64
	if isRead {
		flag = 1
	}

	rows, err := s.queries.UpdateNotificationReadFlag(ctx, notificationdb.UpdateNotificationReadFlagParams{
		IsRead: flag,
		ID:     id,
	})
	if err != nil {
		return fmt.Errorf("通知の既読状態の更新に失敗: %w", err)
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteByID は指定IDの通知を削除する。
// 通知が存在しない場合はErrNotificationNotFoundを返す。
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	rows, err := s.queries.DeleteNotificationByID(ctx, id)
	if err != nil {
		return fmt.Errorf("通知の削除に失敗: %w", err)
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteAllByRecipient は指定受信者の全通知を削除する。
// 通知が1件もない場合でもエラーにはならない。
func (s *Store) DeleteAllByRecipient(ctx context.Context, recipientID string) error {
	if err := s.queries.DeleteNotificationsByRecipientID(ctx, recipientID); err != nil {
		return fmt.Errorf("全通知の削除に失敗: %w", err)
	}
	return nil
}
