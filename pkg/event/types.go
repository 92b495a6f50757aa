package event

import (
	"encoding/json"
	"time"
)

// Type はドメインイベントの種類を表す。
type Type string

const (
	// TypeMembershipInvited はユーザーがプロジェクトに招待されたことを表す。
	TypeMembershipInvited Type = "MembershipInvited"
	// TypeTicketAssigned はチケットに担当者が割り当てられたことを表す。
	// チケット変更トランザクションのコミット後にのみ発行すること。
	TypeTicketAssigned Type = "TicketAssigned"
	// TypeTicketUnassigned はチケットの担当者割り当てが解除されたことを表す。
	// チケット変更トランザクションのコミット後にのみ発行すること。
	TypeTicketUnassigned Type = "TicketUnassigned"
	// TypeUserCreated はユーザーが作成されたことを表す。
	TypeUserCreated Type = "UserCreated"
	// TypeUserPatched はユーザーの情報（メールアドレス）が更新されたことを表す。
	TypeUserPatched Type = "UserPatched"
	// TypeUserDeleted はユーザーが削除されたことを表す。
	TypeUserDeleted Type = "UserDeleted"
)

// ParseType は文字列をTypeに変換する。未知の種類の場合はfalseを返す。
// HTTP経由のイベント受付で種類を検証するために使用する。
func ParseType(s string) (Type, bool) {
	switch t := Type(s); t {
	case TypeMembershipInvited, TypeTicketAssigned, TypeTicketUnassigned,
		TypeUserCreated, TypeUserPatched, TypeUserDeleted:
		return t, true
	default:
		return "", false
	}
}

// Event はシステム内で追跡対象の状態変更が起きたときに発行される不変のイベント。
// ペイロードには識別子のみを含める。表示名等はハンドラが配信時点の値を
// 再取得するため、イベント発行時点のスナップショットは持たない。
type Event struct {
	// ID はイベントの一意識別子（UUID）。
	ID string `json:"id"`
	// Type はイベントの種類。
	Type Type `json:"type"`
	// Data はイベント固有のデータ（JSON形式）。
	Data json.RawMessage `json:"data"`
	// CreatedAt はイベントが発行された日時。
	CreatedAt time.Time `json:"created_at"`
}

// MembershipInvitedData はMembershipInvitedイベントのデータ。
type MembershipInvitedData struct {
	// ProjectID は招待先プロジェクトのID。
	ProjectID string `json:"project_id"`
	// InviteeID は招待されたユーザーのID。
	InviteeID string `json:"invitee_id"`
}

// TicketAssignedData はTicketAssignedイベントのデータ。
type TicketAssignedData struct {
	// TicketID は対象チケットのID。
	TicketID string `json:"ticket_id"`
	// ProjectID はチケットが属するプロジェクトのID。
	ProjectID string `json:"project_id"`
	// AssigneeID は割り当てられたユーザーのID。
	AssigneeID string `json:"assignee_id"`
}

// TicketUnassignedData はTicketUnassignedイベントのデータ。
type TicketUnassignedData struct {
	// TicketID は対象チケットのID。
	TicketID string `json:"ticket_id"`
	// ProjectID はチケットが属するプロジェクトのID。
	ProjectID string `json:"project_id"`
	// AssigneeID は割り当てを解除されたユーザーのID。
	AssigneeID string `json:"assignee_id"`
}

// UserCreatedData はUserCreatedイベントのデータ。
type UserCreatedData struct {
	// UserID は作成されたユーザーのID。
	UserID string `json:"user_id"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
}

// UserPatchedData はUserPatchedイベントのデータ。
type UserPatchedData struct {
	// UserID は更新されたユーザーのID。
	UserID string `json:"user_id"`
	// Email は更新後のメールアドレス。
	Email string `json:"email"`
}

// UserDeletedData はUserDeletedイベントのデータ。
type UserDeletedData struct {
	// UserID は削除されたユーザーのID。
	UserID string `json:"user_id"`
}
