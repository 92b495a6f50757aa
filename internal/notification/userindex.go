package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	notificationdb "github.com/nao1215/tickethub/internal/notification/db"
)

// ErrUserIndexEntryNotFound は対象のユーザーインデックスエントリが
// 存在しないことを示すエラー。
var ErrUserIndexEntryNotFound = errors.New("ユーザーインデックスエントリが見つかりません")

// UserIndex は通知エンジンが保持するユーザーの非正規化インデックス。
// ユーザーサービスのイベントから構築され、通知の宛先が実在する
// ユーザーかどうかの判定に使用する。
type UserIndex struct {
	// queries はsqlcが生成したクエリ実行オブジェクト。
	queries *notificationdb.Queries
}

// NewUserIndex は新しいUserIndexを生成する。
func NewUserIndex(queries *notificationdb.Queries) *UserIndex {
	return &UserIndex{queries: queries}
}

// Put は新しいエントリを登録する。
func (u *UserIndex) Put(ctx context.Context, userID, email string) error {
	if err := u.queries.CreateUserIndexEntry(ctx, notificationdb.CreateUserIndexEntryParams{
		UserID: userID,
		Email:  email,
	}); err != nil {
		return fmt.Errorf("ユーザーインデックスエントリの登録に失敗: %w", err)
	}
	return nil
}

// UpdateEmail は指定ユーザーのメールアドレスを更新する。
// エントリが存在しない場合はErrUserIndexEntryNotFoundを返す。
func (u *UserIndex) UpdateEmail(ctx context.Context, userID, email string) error {
	rows, err := u.queries.UpdateUserIndexEntryEmail(ctx, notificationdb.UpdateUserIndexEntryEmailParams{
		Email:  email,
		UserID: userID,
	})
	if err != nil {
		return fmt.Errorf("ユーザーインデックスエントリの更新に失敗: %w", err)
	}
	if rows == 0 {
		return ErrUserIndexEntryNotFound
	}
	return nil
}

// Delete は指定ユーザーのエントリを削除する。
// エントリが存在しない場合でもエラーにはならない。
func (u *UserIndex) Delete(ctx context.Context, userID string) error {
	if err := u.queries.DeleteUserIndexEntry(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーインデックスエントリの削除に失敗: %w", err)
	}
	return nil
}

// Contains は指定ユーザーのエントリが存在するかを返す。
func (u *UserIndex) Contains(ctx context.Context, userID string) (bool, error) {
	if _, err := u.queries.GetUserIndexEntry(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("ユーザーインデックスエントリの取得に失敗: %w", err)
	}
	return true, nil
}

// UserIDByEmail はメールアドレスからユーザーIDを逆引きする。
// エントリが存在しない場合はErrUserIndexEntryNotFoundを返す。
func (u *UserIndex) UserIDByEmail(ctx context.Context, email string) (string, error) {
	entry, err := u.queries.GetUserIndexEntryByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserIndexEntryNotFound
		}
		return "", fmt.Errorf("ユーザーインデックスエントリの逆引きに失敗: %w", err)
	}
	return entry.UserID, nil
}
