// Package event はドメインイベントの型定義とプロセス内イベントバスを提供する。
//
// ユーザー・メンバーシップ・チケットの状態変更を通知エンジンへ伝える
// 6種類のイベントを定義する。配送はプロセス内のBusが担い、購読者ごとの
// ワーカーが非同期にハンドラを実行する。発行側はハンドラの完了を待たず、
// ハンドラの失敗を観測することもない。
package event
