package messaging

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"stafflink/internal/api"
	"stafflink/internal/models"

	"github.com/valyala/fastjson"
)

// Mode is the messaging view's exclusive focus: nothing selected, a direct
// peer, or the department broadcast channel.
type Mode int

const (
	ModeNone Mode = iota
	ModeDirect
	ModeBroadcast
)

// Engine holds the in-memory state of one messaging view: the active
// conversation, the unread projection and the compose draft. All feeds are
// append-only snapshots in server order; the engine never re-sorts them.
//
// Two pollers belong to the engine: the unread map is refreshed on every
// tick regardless of mode, the broadcast feed only while broadcast mode is
// active. Direct conversations are fetched on selection only, never polled.
type Engine struct {
	api  *api.Client
	self models.Identity

	pollInterval time.Duration
	bannerTTL    time.Duration
	now          func() time.Time

	mux       sync.RWMutex
	mode      Mode
	peerID    int64
	direct    []models.DirectMessage
	broadcast []models.BroadcastMessage
	unread    map[int64]int
	draft     string
	banner    string
	bannerEnd time.Time
	gen       uint64

	unreadPoll    *Poller
	broadcastPoll *Poller
	parsers       fastjson.ParserPool
}

type Config struct {
	Client       *api.Client
	Self         models.Identity
	PollInterval time.Duration
	BannerTTL    time.Duration
}

func NewEngine(config Config) *Engine {
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.BannerTTL <= 0 {
		config.BannerTTL = 3 * time.Second
	}

	e := &Engine{
		api:          config.Client,
		self:         config.Self,
		pollInterval: config.PollInterval,
		bannerTTL:    config.BannerTTL,
		now:          time.Now,
		unread:       make(map[int64]int),
	}
	e.unreadPoll = NewPoller(e.pollInterval, func(ctx context.Context) {
		if err := e.RefreshUnread(ctx); err != nil {
			log.Printf("unread poll: %v", err)
		}
	})
	e.broadcastPoll = NewPoller(e.pollInterval, func(ctx context.Context) {
		if err := e.RefreshBroadcast(ctx); err != nil {
			log.Printf("broadcast poll: %v", err)
		}
	})
	return e
}

// StartPolling starts both interval timers. Call on view mount.
func (e *Engine) StartPolling(ctx context.Context) {
	e.unreadPoll.Start(ctx)
	e.broadcastPoll.Start(ctx)
}

// StopPolling cancels both timers. Call on view unmount; no fetches happen
// afterwards, and responses still in flight are discarded by the generation
// checks below.
func (e *Engine) StopPolling() {
	e.unreadPoll.Stop()
	e.broadcastPoll.Stop()
}

// Polling reports whether the ambient timers are running.
func (e *Engine) Polling() bool {
	return e.unreadPoll.Running() || e.broadcastPoll.Running()
}

// Mode returns the current focus and, in direct mode, the selected peer.
func (e *Engine) Mode() (Mode, int64) {
	e.mux.RLock()
	defer e.mux.RUnlock()

	return e.mode, e.peerID
}

// SelectPeer focuses a direct conversation: broadcast focus is dropped, the
// local unread count for the peer is zeroed immediately (before any response
// arrives; the next unread poll is the authority), the conversation history
// is fetched and the peer's messages to us are marked read upstream.
func (e *Engine) SelectPeer(ctx context.Context, peerID int64) error {
	e.mux.Lock()
	e.mode = ModeDirect
	e.peerID = peerID
	e.direct = nil
	e.gen++
	gen := e.gen
	e.unread[peerID] = 0
	e.mux.Unlock()

	var history []models.DirectMessage
	path := fmt.Sprintf("/api/messages/%d/%d", e.self.ID, peerID)
	if err := e.api.Get(ctx, path, &history); err != nil {
		e.setBanner(err.Error())
		return err
	}

	e.mux.Lock()
	if e.gen == gen {
		e.direct = history
	}
	e.mux.Unlock()

	markPath := fmt.Sprintf("/api/messages/mark-read/%d/%d", peerID, e.self.ID)
	if err := e.api.Put(ctx, markPath, nil, nil); err != nil {
		// The optimistic zero stands either way; the next poll corrects it.
		log.Printf("mark read %d: %v", peerID, err)
	}

	return nil
}

// SelectBroadcast focuses the department channel and fetches its feed. Any
// direct selection is dropped.
func (e *Engine) SelectBroadcast(ctx context.Context) error {
	e.mux.Lock()
	e.mode = ModeBroadcast
	e.peerID = 0
	e.broadcast = nil
	e.gen++
	gen := e.gen
	e.mux.Unlock()

	var feed []models.BroadcastMessage
	path := "/api/messages/broadcast/" + url.PathEscape(e.self.Department)
	if err := e.api.Get(ctx, path, &feed); err != nil {
		e.setBanner(err.Error())
		return err
	}

	e.mux.Lock()
	if e.gen == gen {
		e.broadcast = feed
	}
	e.mux.Unlock()

	return nil
}

// ClearSelection drops any focus without touching fetched state.
func (e *Engine) ClearSelection() {
	e.mux.Lock()
	defer e.mux.Unlock()

	e.mode = ModeNone
	e.peerID = 0
	e.gen++
}

// Draft returns the current compose text.
func (e *Engine) Draft() string {
	e.mux.RLock()
	defer e.mux.RUnlock()

	return e.draft
}

// SetDraft replaces the compose text.
func (e *Engine) SetDraft(text string) {
	e.mux.Lock()
	defer e.mux.Unlock()

	e.draft = text
}

// Send posts the compose draft to the active conversation. Whitespace-only
// drafts and sends without a selection are no-ops. On success the
// server-returned record is appended locally (no re-fetch) and the draft is
// cleared; on failure the draft stays for resubmission and a transient
// banner is raised.
func (e *Engine) Send(ctx context.Context) error {
	e.mux.Lock()
	text := strings.TrimSpace(e.draft)
	mode := e.mode
	peerID := e.peerID
	gen := e.gen
	e.mux.Unlock()

	if text == "" || mode == ModeNone {
		return nil
	}

	switch mode {
	case ModeDirect:
		payload := map[string]any{
			"sender_id":   e.self.ID,
			"receiver_id": peerID,
			"message":     text,
		}
		var sent models.DirectMessage
		if err := e.api.Post(ctx, "/api/messages", payload, &sent); err != nil {
			e.setBanner(err.Error())
			return err
		}
		e.mux.Lock()
		if e.gen == gen {
			e.direct = append(e.direct, sent)
		}
		e.draft = ""
		e.mux.Unlock()

	case ModeBroadcast:
		payload := map[string]any{
			"sender_id":  e.self.ID,
			"department": e.self.Department,
			"message":    text,
		}
		var sent models.BroadcastMessage
		if err := e.api.Post(ctx, "/api/messages/broadcast", payload, &sent); err != nil {
			e.setBanner(err.Error())
			return err
		}
		e.mux.Lock()
		if e.gen == gen {
			e.broadcast = append(e.broadcast, sent)
		}
		e.draft = ""
		e.mux.Unlock()
	}

	return nil
}

// DirectMessages returns a copy of the active direct conversation.
func (e *Engine) DirectMessages() []models.DirectMessage {
	e.mux.RLock()
	defer e.mux.RUnlock()

	result := make([]models.DirectMessage, len(e.direct))
	copy(result, e.direct)
	return result
}

// BroadcastMessages returns a copy of the broadcast feed.
func (e *Engine) BroadcastMessages() []models.BroadcastMessage {
	e.mux.RLock()
	defer e.mux.RUnlock()

	result := make([]models.BroadcastMessage, len(e.broadcast))
	copy(result, e.broadcast)
	return result
}

// UnreadFor returns the local unread projection for one peer.
func (e *Engine) UnreadFor(peerID int64) int {
	e.mux.RLock()
	defer e.mux.RUnlock()

	return e.unread[peerID]
}

// Unread returns a copy of the whole unread projection.
func (e *Engine) Unread() map[int64]int {
	e.mux.RLock()
	defer e.mux.RUnlock()

	result := make(map[int64]int, len(e.unread))
	for id, count := range e.unread {
		result[id] = count
	}
	return result
}

// RefreshUnread fetches the server-computed unread map and replaces the
// local projection wholesale, including any optimistic zero. Runs on every
// poll tick independent of mode so the peer list can show live indicators.
func (e *Engine) RefreshUnread(ctx context.Context) error {
	body, err := e.api.GetRaw(ctx, fmt.Sprintf("/api/messages/unread/%d", e.self.ID))
	if err != nil {
		return err
	}

	parser := e.parsers.Get()
	defer e.parsers.Put(parser)

	value, err := parser.ParseBytes(body)
	if err != nil {
		return &api.ParseError{Err: err}
	}
	entries, err := value.Array()
	if err != nil {
		return &api.ParseError{Err: err}
	}

	unread := make(map[int64]int, len(entries))
	for _, entry := range entries {
		unread[entry.GetInt64("sender_id")] = entry.GetInt("unreadCount")
	}

	e.mux.Lock()
	e.unread = unread
	e.mux.Unlock()

	return nil
}

// RefreshBroadcast re-fetches the broadcast feed if broadcast mode is
// active; otherwise the tick is a no-op. The fetched snapshot replaces the
// local list wholesale, so an optimistic append the server has not persisted
// yet can briefly disappear until it shows up in a later snapshot.
func (e *Engine) RefreshBroadcast(ctx context.Context) error {
	e.mux.RLock()
	active := e.mode == ModeBroadcast
	gen := e.gen
	e.mux.RUnlock()

	if !active {
		return nil
	}

	var feed []models.BroadcastMessage
	if err := e.api.Get(ctx, "/api/messages/broadcast/"+url.PathEscape(e.self.Department), &feed); err != nil {
		return err
	}

	e.mux.Lock()
	if e.gen == gen && e.mode == ModeBroadcast {
		e.broadcast = feed
	}
	e.mux.Unlock()

	return nil
}

// Banner returns the transient send-failure text, or "" once it has aged
// out.
func (e *Engine) Banner() string {
	e.mux.RLock()
	defer e.mux.RUnlock()

	if e.now().After(e.bannerEnd) {
		return ""
	}
	return e.banner
}

func (e *Engine) setBanner(text string) {
	e.mux.Lock()
	defer e.mux.Unlock()

	e.banner = text
	e.bannerEnd = e.now().Add(e.bannerTTL)
}
