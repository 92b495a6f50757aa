package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	refdatadb "github.com/nao1215/tickethub/internal/refdata/db"
)

// 完了フェーズの名称。このフェーズにあるチケットはエスカレーションしない。
const donePhaseName = "DONE"

// Escalator は期限を超過した未解決チケットを定期的にスキャンし、
// プロジェクト管理者へエスカレーション通知を生成するバックグラウンドプロセス。
type Escalator struct {
	// store は通知の永続化を担当するストア。
	store *Store
	// index はユーザーの非正規化インデックス。
	index *UserIndex
	// refdata はチケットトラッカー本体の参照データへの読み取り専用クエリ。
	refdata *refdatadb.Queries
	// interval はスキャン間隔。
	interval time.Duration
	// now は現在時刻を返す関数。テストで差し替える。
	now func() time.Time
	// cancel はバックグラウンドゴルーチンを停止するためのキャンセル関数。
	cancel context.CancelFunc
}

// NewEscalator は新しいEscalatorを生成する。
func NewEscalator(store *Store, index *UserIndex, refdata *refdatadb.Queries, interval time.Duration) *Escalator {
	return &Escalator{
		store:    store,
		index:    index,
		refdata:  refdata,
		interval: interval,
		now:      time.Now,
	}
}

// Start はバックグラウンドで期限超過チケットのスキャンを開始する。
func (e *Escalator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	go func() {
		log.Println("[Escalator] 期限超過チケットのスキャンを開始します")
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[Escalator] スキャンを停止しました")
				return
			case <-ticker.C:
				if err := e.scan(ctx); err != nil {
					log.Printf("[Escalator] スキャンエラー: %v", err)
				}
			}
		}
	}()
}

// Stop はバックグラウンドのスキャンを停止する。
func (e *Escalator) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
}

// scan は期限超過かつ未解決のチケットを検索し、担当者が存在するものについて
// プロジェクトのADMINメンバーへエスカレーション通知を生成する。
// 個々のチケットや管理者の処理に失敗してもスキャン全体は継続する。
func (e *Escalator) scan(ctx context.Context) error {
	now := e.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tickets, err := e.refdata.ListTicketsOverdue(ctx, startOfDay)
	if err != nil {
		return fmt.Errorf("期限超過チケットの取得に失敗: %w", err)
	}
	if len(tickets) == 0 {
		return nil
	}

	var created int
	for _, ticket := range tickets {
		assignees, err := e.refdata.ListTicketAssigneeIDs(ctx, ticket.ID)
		if err != nil {
			log.Printf("[Escalator] 担当者取得エラー (ticket=%s): %v", ticket.ID, err)
			continue
		}
		// 担当者のいないチケットは管理者へのエスカレーション対象外。
		if len(assignees) == 0 {
			continue
		}

		// フェーズが解決できない、または完了フェーズにあるチケットはスキップする。
		if !ticket.PhaseID.Valid {
			continue
		}
		phase, err := e.refdata.GetPhase(ctx, ticket.PhaseID.String)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				log.Printf("[Escalator] フェーズ取得エラー (ticket=%s): %v", ticket.ID, err)
			}
			continue
		}
		if phase.Name == donePhaseName {
			continue
		}

		// プロジェクトが解決できないチケットは通知の宛先を決められないためスキップする。
		project, err := e.refdata.GetProject(ctx, ticket.ProjectID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				log.Printf("[Escalator] プロジェクト取得エラー (ticket=%s): %v", ticket.ID, err)
			}
			continue
		}

		admins, err := e.refdata.ListAcceptedAdminUserIDs(ctx, ticket.ProjectID)
		if err != nil {
			log.Printf("[Escalator] 管理者取得エラー (project=%s): %v", ticket.ProjectID, err)
			continue
		}
		if len(admins) == 0 {
			continue
		}

		dueDate := ticket.DueTime.Time.UTC().Format("2006-01-02")
		message := fmt.Sprintf("Alert: Ticket (%s) in project %s passed its due date (%s) and remains unresolved.",
			ticket.Title, project.Name, dueDate)
		day := startOfDay.Format("2006-01-02")

		for _, adminID := range admins {
			// インデックスに存在しないユーザーには通知しない。
			exists, err := e.index.Contains(ctx, adminID)
			if err != nil {
				log.Printf("[Escalator] ユーザーインデックス参照エラー (user=%s): %v", adminID, err)
				continue
			}
			if !exists {
				continue
			}

			dedupKey := fmt.Sprintf("escalation:%s:%s:%s", ticket.ID, day, adminID)
			inserted, err := e.store.Create(ctx, adminID, message, dedupKey)
			if err != nil {
				log.Printf("[Escalator] 通知作成エラー (ticket=%s, user=%s): %v", ticket.ID, adminID, err)
				continue
			}
			if inserted {
				created++
			}
		}
	}

	log.Printf("[Escalator] スキャン完了: 対象チケット%d件、通知%d件を作成しました", len(tickets), created)
	return nil
}
