package notification

import (
	"context"
	"sync"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/config"
	"opscrm/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Hub owns the live feed connections. Each websocket connection gets its
// own FeedSession driven by an initial load plus a change stream on the
// user's inbox rows. Sessions are torn down when the socket closes or
// the hub shuts down; a user reconnecting always starts a fresh session.
type Hub struct {
	repo   NotificationRepository
	cfg    *config.Config
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]context.CancelFunc
}

func NewHub(repo NotificationRepository, cfg *config.Config, logger *zap.Logger) *Hub {
	return &Hub{
		repo:     repo,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]context.CancelFunc),
	}
}

// Serve runs one feed connection until the client disconnects.
func (h *Hub) Serve(conn *websocket.Conn) {
	user, ok := conn.Locals(string(models.AuthedUserKey)).(*models.AuthedUser)
	if !ok || user == nil {
		conn.Close()
		return
	}

	ctx := context.Background()
	if claims, ok := conn.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		ctx = context.WithValue(ctx, models.TenantIDKey, claims.TenantID)
	}
	ctx, cancel := context.WithCancel(ctx)

	sessionID := uuid.NewString()
	h.register(sessionID, cancel)
	defer func() {
		h.unregister(sessionID)
		cancel()
		conn.Close()
	}()

	feed := NewFeedSession(user.ID, h.cfg.FeedCap, time.Duration(h.cfg.ToastTTL)*time.Second)

	var writeMu sync.Mutex
	push := func(frames []Frame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		for i := range frames {
			if err := conn.WriteJSON(frames[i]); err != nil {
				return err
			}
		}
		return nil
	}

	// Subscribe before the initial load so an insert landing between the
	// two shows up as a stream event instead of vanishing until the next
	// unrelated change.
	stream, err := h.repo.Watch(ctx, user.ID)
	if err != nil {
		h.logger.Warn("feed subscription failed", zap.String("user_id", user.ID), zap.Error(err))
		return
	}

	// Initial load: updates the badge, never toasts.
	rows, err := h.repo.ListRecent(ctx, user.ID, int64(h.cfg.FeedCap))
	if err != nil {
		h.logger.Warn("feed initial load failed", zap.String("user_id", user.ID), zap.Error(err))
		stream.Close(context.Background())
		return
	}

	var stateMu sync.Mutex
	stateMu.Lock()
	frames := feed.Apply(rows)
	stateMu.Unlock()
	if err := push(frames); err != nil {
		stream.Close(context.Background())
		return
	}

	go h.watch(ctx, conn, stream, user.ID, feed, &stateMu, push, cancel)

	// Read loop exists only to notice disconnects; the feed is one-way.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) watch(
	ctx context.Context,
	conn *websocket.Conn,
	stream *mongo.ChangeStream,
	userID string,
	feed *FeedSession,
	stateMu *sync.Mutex,
	push func([]Frame) error,
	cancel context.CancelFunc,
) {
	defer cancel()
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		rows, err := h.repo.ListRecent(ctx, userID, int64(h.cfg.FeedCap))
		if err != nil {
			h.logger.Warn("feed refresh failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}

		stateMu.Lock()
		frames := feed.Apply(rows)
		stateMu.Unlock()

		if err := push(frames); err != nil {
			conn.Close()
			return
		}
	}
}

func (h *Hub) register(id string, cancel context.CancelFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[id] = cancel
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Shutdown cancels every live session. Called from the fx stop hook.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, cancel := range h.sessions {
		cancel()
		delete(h.sessions, id)
	}
}
