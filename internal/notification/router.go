package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	refdatadb "github.com/nao1215/tickethub/internal/refdata/db"
	"github.com/nao1215/tickethub/pkg/event"
)

// Router はイベントバスから受信したドメインイベントを通知に変換する。
type Router struct {
	// store は通知の永続化を担当するストア。
	store *Store
	// index はユーザーの非正規化インデックス。
	index *UserIndex
	// refdata はチケットトラッカー本体の参照データへの読み取り専用クエリ。
	refdata *refdatadb.Queries
}

// NewRouter は新しいRouterを生成する。
func NewRouter(store *Store, index *UserIndex, refdata *refdatadb.Queries) *Router {
	return &Router{
		store:   store,
		index:   index,
		refdata: refdata,
	}
}

// Register はイベントバスに全ハンドラを登録する。
func (r *Router) Register(bus *event.Bus) {
	bus.Subscribe(event.TypeMembershipInvited, "notification-membership-invited", r.handleMembershipInvited)
	bus.Subscribe(event.TypeTicketAssigned, "notification-ticket-assigned", r.handleTicketAssigned)
	bus.Subscribe(event.TypeTicketUnassigned, "notification-ticket-unassigned", r.handleTicketUnassigned)
	bus.Subscribe(event.TypeUserCreated, "notification-user-created", r.handleUserCreated)
	bus.Subscribe(event.TypeUserPatched, "notification-user-patched", r.handleUserPatched)
	bus.Subscribe(event.TypeUserDeleted, "notification-user-deleted", r.handleUserDeleted)
}

// projectNameOrFallback はプロジェクト名を取得する。
// プロジェクトが見つからない場合は代替表記を返し、通知の生成は継続する。
func (r *Router) projectNameOrFallback(ctx context.Context, projectID string) string {
	project, err := r.refdata.GetProject(ctx, projectID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("[NotificationRouter] プロジェクト取得エラー (id=%s): %v", projectID, err)
		}
		return fmt.Sprintf("Unknown Project (ID: %s)", projectID)
	}
	return project.Name
}

// ticketTitleOrFallback はチケットのタイトルを取得する。
// チケットが見つからない場合は代替表記を返し、通知の生成は継続する。
func (r *Router) ticketTitleOrFallback(ctx context.Context, ticketID string) string {
	ticket, err := r.refdata.GetTicket(ctx, ticketID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("[NotificationRouter] チケット取得エラー (id=%s): %v", ticketID, err)
		}
		return fmt.Sprintf("Unknown Ticket (ID: %s)", ticketID)
	}
	return ticket.Title
}

// handleMembershipInvited はプロジェクト招待イベントから通知を生成する。
func (r *Router) handleMembershipInvited(ctx context.Context, e *event.Event) error {
	data, err := event.DecodeData[event.MembershipInvitedData](e)
	if err != nil {
		return fmt.Errorf("MembershipInvitedDataのデシリアライズに失敗: %w", err)
	}

	// インデックスに存在しないユーザー宛のイベントは古いイベントの
	// 再配信とみなして黙ってスキップする。
	exists, err := r.index.Contains(ctx, data.InviteeID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	projectName := r.projectNameOrFallback(ctx, data.ProjectID)
	message := fmt.Sprintf("You got invited to project %s.", projectName)

	if _, err := r.store.Create(ctx, data.InviteeID, message, ""); err != nil {
		return err
	}
	return nil
}

// handleTicketAssigned はチケット担当割り当てイベントから通知を生成する。
func (r *Router) handleTicketAssigned(ctx context.Context, e *event.Event) error {
	data, err := event.DecodeData[event.TicketAssignedData](e)
	if err != nil {
		return fmt.Errorf("TicketAssignedDataのデシリアライズに失敗: %w", err)
	}

	exists, err := r.index.Contains(ctx, data.AssigneeID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	ticketTitle := r.ticketTitleOrFallback(ctx, data.TicketID)
	projectName := r.projectNameOrFallback(ctx, data.ProjectID)
	message := fmt.Sprintf("You got assigned to ticket ( %s ) of project %s.", ticketTitle, projectName)

	if _, err := r.store.Create(ctx, data.AssigneeID, message, ""); err != nil {
		return err
	}
	return nil
}

// handleTicketUnassigned はチケット担当解除イベントから通知を生成する。
func (r *Router) handleTicketUnassigned(ctx context.Context, e *event.Event) error {
	data, err := event.DecodeData[event.TicketUnassignedData](e)
	if err != nil {
		return fmt.Errorf("TicketUnassignedDataのデシリアライズに失敗: %w", err)
	}

	exists, err := r.index.Contains(ctx, data.AssigneeID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	ticketTitle := r.ticketTitleOrFallback(ctx, data.TicketID)
	projectName := r.projectNameOrFallback(ctx, data.ProjectID)
	message := fmt.Sprintf("Your assignment to ticket ( %s ) of project %s has been revoked.", ticketTitle, projectName)

	if _, err := r.store.Create(ctx, data.AssigneeID, message, ""); err != nil {
		return err
	}
	return nil
}

// handleUserCreated はユーザー作成イベントをユーザーインデックスに反映する。
func (r *Router) handleUserCreated(ctx context.Context, e *event.Event) error {
	data, err := event.DecodeData[event.UserCreatedData](e)
	if err != nil {
		return fmt.Errorf("UserCreatedDataのデシリアライズに失敗: %w", err)
	}
	return r.index.Put(ctx, data.UserID, data.Email)
}

// handleUserPatched はユーザー更新イベントをユーザーインデックスに反映する。
// エントリが存在しない場合はログに記録してスキップする。
func (r *Router) handleUserPatched(ctx context.Context, e *event.Event) error {
	data, err := event.DecodeData[event.UserPatchedData](e)
	if err != nil {
		return fmt.Errorf("UserPatchedDataのデシリアライズに失敗: %w", err)
	}

	if err := r.index.UpdateEmail(ctx, data.UserID, data.Email); err != nil {
		if errors.Is(err, ErrUserIndexEntryNotFound) {
			log.Printf("[NotificationRouter] 更新対象のユーザーがインデックスに存在しません (id=%s)", data.UserID)
			return nil
		}
		return err
	}
	return nil
}

// handleUserDeleted はユーザー削除イベントを処理する。
// 削除されたユーザー宛の全通知を破棄してからインデックスエントリを削除する。
// 順序を逆にするとエントリ削除後に通知行が取り残される。
func (r *Router) handleUserDeleted(ctx context.Context, e *event.Event) error {
	data, err := event.DecodeData[event.UserDeletedData](e)
	if err != nil {
		return fmt.Errorf("UserDeletedDataのデシリアライズに失敗: %w", err)
	}

	if err := r.store.DeleteAllByRecipient(ctx, data.UserID); err != nil {
		return fmt.Errorf("削除ユーザー宛通知の破棄に失敗: %w", err)
	}
	return r.index.Delete(ctx, data.UserID)
}
