package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	notificationdb "github.com/nao1215/tickethub/internal/notification/db"
	"github.com/nao1215/tickethub/internal/refdata"
	refdatadb "github.com/nao1215/tickethub/internal/refdata/db"
	"github.com/nao1215/tickethub/pkg/event"
	"github.com/nao1215/tickethub/pkg/middleware"
)

// defaultScanInterval はスキャナのデフォルト実行間隔。
const defaultScanInterval = 1 * time.Hour

// Server は通知エンジンのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// db はSQLiteデータベース接続。
	db *sql.DB
	// store は通知の永続化を担当するストア。
	store *Store
	// index はユーザーの非正規化インデックス。
	index *UserIndex
	// bus はプロセス内イベントバス。
	bus *event.Bus
	// eventRouter はドメインイベントを通知に変換するルーター。
	eventRouter *Router
	// reminder は期限当日チケットのスキャナ。
	reminder *Reminder
	// escalator は期限超過チケットのスキャナ。
	escalator *Escalator
}

// NewServer は新しい通知サーバーを生成する。
// SQLiteデータベースの初期化とスキーマ作成を行い、イベントバスに
// 全ハンドラを登録する。
func NewServer(port string) (*Server, error) {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "/data/tickethub.db?_journal_mode=WAL&_busy_timeout=5000"
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	if err := refdata.InitSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("参照データスキーマ初期化に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		router.Use(middleware.CORS(strings.Split(origins, ",")))
	}

	queries := notificationdb.New(sqlDB)
	refdataQueries := refdatadb.New(sqlDB)
	store := NewStore(queries)
	index := NewUserIndex(queries)

	bus := event.NewBus()
	eventRouter := NewRouter(store, index, refdataQueries)
	eventRouter.Register(bus)

	s := &Server{
		router:      router,
		port:        port,
		db:          sqlDB,
		store:       store,
		index:       index,
		bus:         bus,
		eventRouter: eventRouter,
		reminder:    NewReminder(store, index, refdataQueries, scanIntervalFromEnv("REMINDER_INTERVAL")),
		escalator:   NewEscalator(store, index, refdataQueries, scanIntervalFromEnv("ESCALATION_INTERVAL")),
	}
	s.setupRoutes()

	return s, nil
}

// scanIntervalFromEnv は環境変数からスキャン間隔を読み取る。
// 未設定または不正な値の場合はデフォルト値を返す。
func scanIntervalFromEnv(key string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultScanInterval
	}

	interval, err := time.ParseDuration(value)
	if err != nil || interval <= 0 {
		log.Printf("[NotificationServer] %s の値が不正です (%q)。デフォルト値を使用します", key, value)
		return defaultScanInterval
	}
	return interval
}

// Run はバックグラウンドスキャナとHTTPサーバーを起動する。
func (s *Server) Run() error {
	s.reminder.Start(context.Background())
	s.escalator.Start(context.Background())
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-key"
	}

	api := s.router.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtSecret))
	{
		notifications := api.Group("/notifications")
		{
			// 通知一覧取得
			notifications.GET("", s.handleList())
			// 未読通知一覧取得
			notifications.GET("/unread", s.handleListUnread())
			// 通知を1件取得
			notifications.GET("/:id", s.handleGet())
			// 通知の既読状態を更新
			notifications.PATCH("/:id", s.handleUpdateReadFlag())
			// 通知を1件削除
			notifications.DELETE("/:id", s.handleDelete())
			// 全通知を削除
			notifications.DELETE("", s.handleDeleteAll())
		}

		// イベント受付（内部API - チケットトラッカー本体から呼び出される）
		internal := api.Group("/internal")
		{
			internal.POST("/events", s.handleIngestEvent())
		}
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "notification"})
	})
}

// notificationResponse は通知のJSONレスポンス構造。
type notificationResponse struct {
	// ID は通知の一意識別子。
	ID string `json:"id"`
	// RecipientID は通知先のユーザーID。
	RecipientID string `json:"recipient_id"`
	// Message は通知メッセージ。
	Message string `json:"message"`
	// IsRead は通知の既読状態。
	IsRead bool `json:"is_read"`
	// CreatedAt は通知の作成日時（RFC3339形式）。
	CreatedAt string `json:"created_at"`
}

// toNotificationResponse はDB行をJSONレスポンスに変換する。
func toNotificationResponse(n notificationdb.Notification) notificationResponse {
	return notificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Message:     n.Message,
		IsRead:      n.IsRead != 0,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
}

// toNotificationResponses はDB行のスライスをJSONレスポンスのスライスに変換する。
func toNotificationResponses(notifications []notificationdb.Notification) []notificationResponse {
	responses := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, toNotificationResponse(n))
	}
	return responses
}

// handleList は認証済みユーザーの通知一覧を返すハンドラ。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		notifications, err := s.store.ListByRecipient(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知一覧の取得に失敗しました"})
			log.Printf("通知一覧取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toNotificationResponses(notifications))
	}
}

// handleListUnread は認証済みユーザーの未読通知一覧を返すハンドラ。
// 未読通知が1件もない場合は404を返す。
func (s *Server) handleListUnread() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		notifications, err := s.store.ListUnreadByRecipient(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrNotificationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "未読通知はありません"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "未読通知一覧の取得に失敗しました"})
			log.Printf("未読通知一覧取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toNotificationResponses(notifications))
	}
}

// handleGet は指定された通知を1件返すハンドラ。
// 他人の通知へのアクセスは403を返す。
func (s *Server) handleGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		n, err := s.store.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, ErrNotificationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "通知が見つかりません"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の取得に失敗しました"})
			log.Printf("通知取得エラー: %v", err)
			return
		}

		if n.RecipientID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "この通知を操作する権限がありません"})
			return
		}

		c.JSON(http.StatusOK, toNotificationResponse(n))
	}
}

// updateReadFlagRequest は既読状態更新リクエストのJSON構造。
type updateReadFlagRequest struct {
	// IsRead は設定する既読状態。falseを指定すると未読に戻す。
	IsRead *bool `json:"is_read" binding:"required"`
}

// handleUpdateReadFlag は指定された通知の既読状態を更新するハンドラ。
func (s *Server) handleUpdateReadFlag() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		var req updateReadFlagRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		notificationID := c.Param("id")

		// 通知の存在確認と所有者チェック
		n, err := s.store.GetByID(c.Request.Context(), notificationID)
		if err != nil {
			if errors.Is(err, ErrNotificationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "通知が見つかりません"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の取得に失敗しました"})
			log.Printf("通知取得エラー: %v", err)
			return
		}

		if n.RecipientID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "この通知を操作する権限がありません"})
			return
		}

		if err := s.store.MarkRead(c.Request.Context(), notificationID, *req.IsRead); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の既読状態の更新に失敗しました"})
			log.Printf("通知既読状態更新エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "通知の既読状態を更新しました"})
	}
}

// handleDelete は指定された通知を削除するハンドラ。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		notificationID := c.Param("id")

		// 通知の存在確認と所有者チェック
		n, err := s.store.GetByID(c.Request.Context(), notificationID)
		if err != nil {
			if errors.Is(err, ErrNotificationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "通知が見つかりません"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の取得に失敗しました"})
			log.Printf("通知取得エラー: %v", err)
			return
		}

		if n.RecipientID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "この通知を操作する権限がありません"})
			return
		}

		if err := s.store.DeleteByID(c.Request.Context(), notificationID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の削除に失敗しました"})
			log.Printf("通知削除エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "通知を削除しました"})
	}
}

// handleDeleteAll は認証済みユーザーの全通知を削除するハンドラ。
// 通知が1件もない場合でも成功として扱う。
func (s *Server) handleDeleteAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		if err := s.store.DeleteAllByRecipient(c.Request.Context(), userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "全通知の削除に失敗しました"})
			log.Printf("全通知削除エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "全通知を削除しました"})
	}
}

// ingestEventRequest はイベント受付リクエストのJSON構造。
type ingestEventRequest struct {
	// Type はイベントの種類。
	Type string `json:"type" binding:"required"`
	// Data はイベント固有のデータ（JSON形式）。
	Data json.RawMessage `json:"data" binding:"required"`
}

// handleIngestEvent は外部プロセスからのイベントを受け付けてバスに発行するハンドラ。
// ハンドラの処理完了を待たずに202を返す。
// 内部API（チケットトラッカー本体から呼び出される）。
func (s *Server) handleIngestEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ingestEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		eventType, ok := event.ParseType(req.Type)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("未知のイベント種類です: %s", req.Type)})
			return
		}

		e, err := event.New(eventType, req.Data)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "イベントの生成に失敗しました"})
			log.Printf("イベント生成エラー: %v", err)
			return
		}

		s.bus.Publish(e)

		c.JSON(http.StatusAccepted, gin.H{
			"id":      e.ID,
			"message": "イベントを受け付けました",
		})
	}
}
