package refdata

import (
	"database/sql"
	"fmt"
)

// スキーマ定義。db/refdata/schema.sql と同期すること。
const schema = `
CREATE TABLE IF NOT EXISTS projects (
    -- プロジェクトの一意識別子（UUID）
    id TEXT PRIMARY KEY,
    -- プロジェクト名
    name TEXT NOT NULL,
    -- プロジェクトの説明
    description TEXT,
    -- プロジェクトの作成日時
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS phases (
    -- フェーズの一意識別子（UUID）
    id TEXT PRIMARY KEY,
    -- 所属するプロジェクトのID
    project_id TEXT NOT NULL,
    -- フェーズ名。"DONE" は完了フェーズを意味する。
    name TEXT NOT NULL,
    -- フェーズの作成日時
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS tickets (
    -- チケットの一意識別子（UUID）
    id TEXT PRIMARY KEY,
    -- 所属するプロジェクトのID
    project_id TEXT NOT NULL,
    -- 現在のフェーズのID（未設定の場合はNULL）
    phase_id TEXT,
    -- チケットのタイトル
    title TEXT NOT NULL,
    -- チケットの説明
    description TEXT,
    -- チケットの期限（未設定の場合はNULL）
    due_time DATETIME,
    -- チケットのステータス: OPEN / IN_PROGRESS / DONE / CLOSED
    status TEXT NOT NULL DEFAULT 'OPEN',
    -- チケットの作成日時
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

-- 期限スキャンを高速化するインデックス。
CREATE INDEX IF NOT EXISTS idx_tickets_due_time ON tickets(due_time);
CREATE INDEX IF NOT EXISTS idx_tickets_project_id ON tickets(project_id);

CREATE TABLE IF NOT EXISTS ticket_assignees (
    -- 対象チケットのID
    ticket_id TEXT NOT NULL,
    -- 担当者のユーザーID
    user_id TEXT NOT NULL,
    PRIMARY KEY (ticket_id, user_id)
);

CREATE TABLE IF NOT EXISTS memberships (
    -- メンバーシップの一意識別子（UUID）
    id TEXT PRIMARY KEY,
    -- 所属するプロジェクトのID
    project_id TEXT NOT NULL,
    -- メンバーのユーザーID
    user_id TEXT NOT NULL,
    -- メンバーのロール: ADMIN / MEMBER
    role TEXT NOT NULL,
    -- 招待の状態: OPEN / ACCEPTED
    state TEXT NOT NULL,
    -- メンバーシップの作成日時
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_memberships_project_id ON memberships(project_id);
`

// InitSchema はSQLiteデータベースに参照データのスキーマを適用する。
// 通知エンジンを単体で起動する場合（開発・テスト環境）に使用する。
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("参照データスキーマの適用に失敗: %w", err)
	}
	return nil
}
