// Package notification はチケットトラッカーの通知エンジンを提供する。
//
// イベントバス経由で受信したドメインイベント（プロジェクト招待・
// チケット担当の割り当て/解除・ユーザーのライフサイクル）から通知を
// 生成し、期限当日のリマインダーと期限超過のエスカレーションを
// バックグラウンドスキャナで定期生成する。生成した通知はHTTP API
// 経由でユーザーに配信される。
package notification
