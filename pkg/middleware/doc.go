// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// JWT認証トークンの検証、パニックリカバリ、CORS設定など、
// tickethubの各サービスで共通して使用するミドルウェアを含む。
// トークンの発行は認証サービス側の責務であり、本パッケージは
// 発行ヘルパーと検証ミドルウェアを提供する。
package middleware
