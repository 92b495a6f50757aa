package notification

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	notificationdb "github.com/nao1215/tickethub/internal/notification/db"
	"github.com/nao1215/tickethub/internal/refdata"
)

// newTestDB はテスト用のインメモリSQLiteデータベースを構築する。
// 通知スキーマと参照データスキーマの両方を適用する。
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := initSchema(sqlDB); err != nil {
		t.Fatalf("スキーマ初期化に失敗: %v", err)
	}
	if err := refdata.InitSchema(sqlDB); err != nil {
		t.Fatalf("参照データスキーマ初期化に失敗: %v", err)
	}
	return sqlDB
}

// newTestStore はテスト用のStoreとUserIndexを構築する。
func newTestStore(t *testing.T, sqlDB *sql.DB) (*Store, *UserIndex) {
	t.Helper()
	queries := notificationdb.New(sqlDB)
	return NewStore(queries), NewUserIndex(queries)
}

// insertProject はテスト用のプロジェクトをDBに直接挿入するヘルパー関数。
func insertProject(t *testing.T, sqlDB *sql.DB, id, name string) {
	t.Helper()
	if _, err := sqlDB.Exec(
		"INSERT INTO projects (id, name) VALUES (?, ?)", id, name,
	); err != nil {
		t.Fatalf("テスト用プロジェクトの作成に失敗: %v", err)
	}
}

// insertPhase はテスト用のフェーズをDBに直接挿入するヘルパー関数。
func insertPhase(t *testing.T, sqlDB *sql.DB, id, projectID, name string) {
	t.Helper()
	if _, err := sqlDB.Exec(
		"INSERT INTO phases (id, project_id, name) VALUES (?, ?, ?)", id, projectID, name,
	); err != nil {
		t.Fatalf("テスト用フェーズの作成に失敗: %v", err)
	}
}

// insertTicket はテスト用のチケットをDBに直接挿入するヘルパー関数。
// phaseIDが空文字列の場合はNULL、dueTimeがゼロ値の場合はNULLとして挿入する。
func insertTicket(t *testing.T, sqlDB *sql.DB, id, projectID, phaseID, title string, dueTime time.Time, status string) {
	t.Helper()

	var phase any
	if phaseID != "" {
		phase = phaseID
	}
	var due any
	if !dueTime.IsZero() {
		due = dueTime.UTC()
	}

	if _, err := sqlDB.Exec(
		"INSERT INTO tickets (id, project_id, phase_id, title, due_time, status) VALUES (?, ?, ?, ?, ?, ?)",
		id, projectID, phase, title, due, status,
	); err != nil {
		t.Fatalf("テスト用チケットの作成に失敗: %v", err)
	}
}

// insertAssignee はテスト用のチケット担当者をDBに直接挿入するヘルパー関数。
func insertAssignee(t *testing.T, sqlDB *sql.DB, ticketID, userID string) {
	t.Helper()
	if _, err := sqlDB.Exec(
		"INSERT INTO ticket_assignees (ticket_id, user_id) VALUES (?, ?)", ticketID, userID,
	); err != nil {
		t.Fatalf("テスト用担当者の作成に失敗: %v", err)
	}
}

// insertMembership はテスト用のメンバーシップをDBに直接挿入するヘルパー関数。
func insertMembership(t *testing.T, sqlDB *sql.DB, id, projectID, userID, role, state string) {
	t.Helper()
	if _, err := sqlDB.Exec(
		"INSERT INTO memberships (id, project_id, user_id, role, state) VALUES (?, ?, ?, ?, ?)",
		id, projectID, userID, role, state,
	); err != nil {
		t.Fatalf("テスト用メンバーシップの作成に失敗: %v", err)
	}
}

// indexUser はテスト用のユーザーをユーザーインデックスに登録するヘルパー関数。
func indexUser(t *testing.T, index *UserIndex, userID, email string) {
	t.Helper()
	if err := index.Put(context.Background(), userID, email); err != nil {
		t.Fatalf("テスト用ユーザーの登録に失敗: %v", err)
	}
}
