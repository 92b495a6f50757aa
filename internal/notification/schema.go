package notification

import (
	"database/sql"
	"fmt"
)

// スキーマ定義。db/notification/schema.sql と同期すること。
const schema = `
CREATE TABLE IF NOT EXISTS notifications (
    -- 通知の一意識別子（UUID）
    id TEXT PRIMARY KEY,
    -- 通知先のユーザーID
    recipient_id TEXT NOT NULL,
    -- 通知メッセージ
    message TEXT NOT NULL,
    -- 通知の既読状態
    is_read INTEGER NOT NULL DEFAULT 0,
    -- 重複抑止キー。スキャナが同一日・同一チケット・同一受信者の
    -- 通知を重複生成しないために使用する。イベント起点の通知ではNULL。
    dedup_key TEXT,
    -- 通知の作成日時
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

-- 受信者IDでの検索を高速化するインデックス。
CREATE INDEX IF NOT EXISTS idx_notifications_recipient_id
    ON notifications(recipient_id);

-- 未読通知の検索を高速化するインデックス。
CREATE INDEX IF NOT EXISTS idx_notifications_unread
    ON notifications(recipient_id, is_read) WHERE is_read = 0;

-- 重複抑止キーの一意性を保証するインデックス。
CREATE UNIQUE INDEX IF NOT EXISTS idx_notifications_dedup_key
    ON notifications(dedup_key) WHERE dedup_key IS NOT NULL;

CREATE TABLE IF NOT EXISTS user_index_entries (
    -- ユーザーの一意識別子
    user_id TEXT PRIMARY KEY,
    -- ユーザーの現在のメールアドレス
    email TEXT NOT NULL,
    -- エントリの最終更新日時
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

-- メールアドレスからの逆引きを高速化するインデックス。
CREATE INDEX IF NOT EXISTS idx_user_index_entries_email
    ON user_index_entries(email);
`

// initSchema はSQLiteデータベースにスキーマを適用する。
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("スキーマの適用に失敗: %w", err)
	}
	return nil
}
