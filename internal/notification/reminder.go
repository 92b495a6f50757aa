package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	refdatadb "github.com/nao1215/tickethub/internal/refdata/db"
)

// Reminder は当日が期限のチケットを定期的にスキャンし、
// 担当者へリマインダー通知を生成するバックグラウンドプロセス。
type Reminder struct {
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

// NewReminder は新しいReminderを生成する。
func NewReminder(store *Store, index *UserIndex, refdata *refdatadb.Queries, interval time.Duration) *Reminder {
	return &Reminder{
		store:    store,
		index:    index,
		refdata:  refdata,
		interval: interval,
		now:      time.Now,
	}
}

// Start はバックグラウンドで期限当日チケットのスキャンを開始する。
func (r *Reminder) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	go func() {
		log.Println("[Reminder] 期限当日チケットのスキャンを開始します")
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[Reminder] スキャンを停止しました")
				return
			case <-ticker.C:
				if err := r.scan(ctx); err != nil {
					log.Printf("[Reminder] スキャンエラー: %v", err)
				}
			}
		}
	}()
}

// Stop はバックグラウンドのスキャンを停止する。
func (r *Reminder) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// scan は当日が期限のチケットを検索し、担当者ごとにリマインダー通知を生成する。
// 個々のチケットや担当者の処理に失敗してもスキャン全体は継続する。
func (r *Reminder) scan(ctx context.Context) error {
	now := r.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	tickets, err := r.refdata.ListTicketsDueBetween(ctx, refdatadb.ListTicketsDueBetweenParams{
		StartOfDay: startOfDay,
		EndOfDay:   endOfDay,
	})
	if err != nil {
		return fmt.Errorf("期限当日チケットの取得に失敗: %w", err)
	}
	if len(tickets) == 0 {
		return nil
	}

	var created int
	for _, ticket := range tickets {
		assignees, err := r.refdata.ListTicketAssigneeIDs(ctx, ticket.ID)
		if err != nil {
			log.Printf("[Reminder] 担当者取得エラー (ticket=%s): %v", ticket.ID, err)
			continue
		}
		if len(assignees) == 0 {
			continue
		}

		projectName := fmt.Sprintf("Unknown Project (ID: %s)", ticket.ProjectID)
		if project, err := r.refdata.GetProject(ctx, ticket.ProjectID); err == nil {
			projectName = project.Name
		}

		message := fmt.Sprintf("Reminder: Today is the due date for ticket (%s) in project %s.", ticket.Title, projectName)
		day := startOfDay.Format("2006-01-02")

		for _, assigneeID := range assignees {
			// インデックスに存在しないユーザーには通知しない。
			exists, err := r.index.Contains(ctx, assigneeID)
			if err != nil {
				log.Printf("[Reminder] ユーザーインデックス参照エラー (user=%s): %v", assigneeID, err)
				continue
			}
			if !exists {
				continue
			}

			dedupKey := fmt.Sprintf("reminder:%s:%s:%s", ticket.ID, day, assigneeID)
			inserted, err := r.store.Create(ctx, assigneeID, message, dedupKey)
			if err != nil {
				log.Printf("[Reminder] 通知作成エラー (ticket=%s, user=%s): %v", ticket.ID, assigneeID, err)
				continue
			}
			if inserted {
				created++
			}
		}
	}

	log.Printf("[Reminder] スキャン完了: 対象チケット%d件、通知%d件を作成しました", len(tickets), created)
	return nil
}
