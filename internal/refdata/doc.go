// Package refdata はチケットトラッカー本体が所有する参照データ
// （プロジェクト・フェーズ・チケット・担当者・メンバーシップ）への
// 読み取り専用アクセスを提供する。
// 通知エンジンはこのパッケージを通じてのみ参照テーブルを読む。
package refdata
