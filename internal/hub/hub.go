// Package hub implements the synchronization hub: it owns the authoritative
// live/preview state, applies operator commands to it, and fans the
// resulting delta events out to every connected display and console over
// websockets. All mutations are applied and broadcast under one lock, so
// every client observes transitions in the same total order. Delivery to a
// disconnected client is not guaranteed; it catches up via a full snapshot
// on reconnect.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"stagecast/internal/platform/metrics"
	"stagecast/internal/presenter"

	"github.com/gorilla/websocket"
)

// DefaultSendBuffer is the default per-client outbound queue length.
const DefaultSendBuffer = 64

// AssetCatalog lists the background assets advertised in snapshots.
type AssetCatalog interface {
	List() []string
}

// Hub is the broadcast coordinator.
type Hub struct {
	state     *presenter.State
	hydrator  *presenter.Hydrator
	autopilot *presenter.Autopilot
	catalog   AssetCatalog

	log        *slog.Logger
	metrics    *metrics.Metrics
	bufferSize int
	upgrader   websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// New returns a Hub owning state. autopilot, catalog, and m may be nil to
// disable schedule advancement, background listings, and metric recording
// (e.g. in tests). bufferSize <= 0 selects DefaultSendBuffer.
func New(state *presenter.State, hydrator *presenter.Hydrator, autopilot *presenter.Autopilot, catalog AssetCatalog, log *slog.Logger, m *metrics.Metrics, bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultSendBuffer
	}
	return &Hub{
		state:      state,
		hydrator:   hydrator,
		autopilot:  autopilot,
		catalog:    catalog,
		log:        log,
		metrics:    m,
		bufferSize: bufferSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Displays and consoles connect from arbitrary origins on the
			// venue network.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*Client]struct{}),
	}
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS handles GET /ws: it upgrades the connection, registers the client,
// and sends it a full snapshot before any subsequent delta can be queued.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := newClient(h, conn, h.bufferSize)

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	// Snapshot is queued under the hub lock so no delta can precede it.
	if msg, err := encode(h.snapshotEventLocked()); err == nil {
		c.enqueue(msg)
	}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.SetConnectedClients(n)
	}
	c.log.Info("client connected", slog.Int("clients", n))

	go c.writePump()
	go c.readPump()
}

// Dispatch validates and applies one operator command, then broadcasts the
// resulting delta. Commands with failed preconditions are dropped without
// any state change or broadcast. from may be nil for internally generated
// commands (autopilot staging).
func (h *Hub) Dispatch(cmd Command, from *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.IncCommands()
	}

	switch cmd.Type {
	case CmdStagePreview:
		if cmd.Item == nil {
			h.log.Debug("stage_preview without item ignored")
			return
		}
		index := 0
		if cmd.Index != nil {
			index = *cmd.Index
		}
		cur := h.state.StagePreview(cmd.Item, cmd.Content, index)
		h.broadcastLocked(cursorEvent(EvtPreviewUpdated, cur, nil))

	case CmdSetPreviewIndex:
		if cmd.Index == nil {
			return
		}
		cur, ok := h.state.SetPreviewIndex(*cmd.Index)
		if !ok {
			h.log.Debug("preview index rejected", slog.Int("index", *cmd.Index))
			return
		}
		h.broadcastLocked(cursorEvent(EvtPreviewUpdated, cur, nil))

	case CmdGoLive:
		upd, ok := h.state.GoLive()
		if !ok {
			h.log.Debug("go_live rejected")
			return
		}
		h.broadcastLocked(cursorEvent(EvtLiveUpdated, upd.Live, &upd.Playback))
		if h.autopilot != nil && upd.Live.Item != nil {
			go h.advanceSchedule(*upd.Live.Item)
		}

	case CmdSetLiveIndex:
		if cmd.Index == nil {
			return
		}
		upd, ok := h.state.SetLiveIndex(*cmd.Index)
		if !ok {
			h.log.Debug("live index rejected", slog.Int("index", *cmd.Index))
			return
		}
		h.broadcastLocked(cursorEvent(EvtLiveUpdated, upd.Live, &upd.Playback))

	case CmdSetDisplayMode:
		mode := h.state.SetDisplayMode(cmd.Mode)
		h.broadcastLocked(Event{Type: EvtDisplayModeUpdated, Mode: mode})

	case CmdSetBackground:
		path := h.state.SetBackground(cmd.Path)
		h.broadcastLocked(Event{Type: EvtBackgroundUpdated, Path: path})

	case CmdSetLogo:
		path := h.state.SetLogo(cmd.Path)
		h.broadcastLocked(Event{Type: EvtLogoUpdated, Path: path})

	case CmdSetDisplaySettings:
		settings := h.state.SetDisplaySettings(cmd.Settings)
		h.broadcastLocked(Event{Type: EvtDisplaySettingsUpdated, Settings: settings})

	case CmdSetConfidenceSettings:
		settings := h.state.SetConfidenceSettings(cmd.Settings)
		h.broadcastLocked(Event{Type: EvtConfidenceSettingsUpdated, Settings: settings})

	case CmdResume:
		pb := h.state.Resume()
		h.broadcastLocked(Event{Type: EvtPlaybackUpdated, Playback: &pb})

	case CmdPause:
		pb := h.state.Pause(cmd.Holding)
		h.broadcastLocked(Event{Type: EvtPlaybackUpdated, Playback: &pb})

	case CmdSeek:
		pb := h.state.Seek(cmd.CurrentTime, cmd.Duration)
		h.broadcastLocked(Event{Type: EvtPlaybackUpdated, Playback: &pb})

	case CmdRequestSnapshot:
		if from == nil {
			return
		}
		// The client may have been dropped for a full send buffer while its
		// read pump was still delivering this command; its send channel is
		// closed then, so enqueueing would panic.
		if _, ok := h.clients[from]; !ok {
			return
		}
		msg, err := encode(h.snapshotEventLocked())
		if err != nil {
			h.log.Error("encode snapshot failed", slog.String("error", err.Error()))
			return
		}
		if !from.enqueue(msg) {
			h.dropLocked(from)
		}

	default:
		h.log.Warn("unknown command ignored", slog.String("type", cmd.Type))
	}
}

// BroadcastBackgrounds fans out a fresh background-asset listing. Hooked to
// the asset catalog's change callback.
func (h *Hub) BroadcastBackgrounds(files []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(Event{Type: EvtBackgroundsUpdated, Backgrounds: files})
}

// advanceSchedule stages the next run-of-show entry after a go-live. Runs
// outside the hub lock because hydration may hit the song library.
func (h *Hub) advanceSchedule(live presenter.Item) {
	next, content, ok := h.autopilot.NextEntry(context.Background(), live)
	if !ok {
		return
	}
	h.Dispatch(Command{Type: CmdStagePreview, Item: &next, Content: content}, nil)
}

// HandleHydrate handles POST /hydrate: it expands an item into its slide
// sequence for consoles that stage content through the server. A failed song
// lookup or unknown kind yields an empty sequence and a warning, never an
// error status.
func (h *Hub) HandleHydrate(w http.ResponseWriter, r *http.Request) {
	var item presenter.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	content, err := h.hydrator.Hydrate(r.Context(), item)
	resp := map[string]any{"content": content}
	if err != nil {
		h.log.Warn("hydration failed",
			slog.String("item_id", item.ID),
			slog.String("error", err.Error()))
		if h.metrics != nil {
			h.metrics.IncHydrationFailures()
		}
		resp["content"] = []presenter.Slide{}
		resp["warning"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("encode hydrate response failed", slog.String("error", err.Error()))
	}
}

// snapshotEventLocked builds the full-state event. Caller holds h.mu.
func (h *Hub) snapshotEventLocked() Event {
	snap := Snapshot{Snapshot: h.state.Snapshot()}
	if h.catalog != nil {
		snap.Backgrounds = h.catalog.List()
	}
	return Event{Type: EvtSnapshot, Snapshot: &snap}
}

// broadcastLocked fans evt out to every connected client without blocking.
// Clients whose send buffer is full are dropped. Caller holds h.mu.
func (h *Hub) broadcastLocked(evt Event) {
	msg, err := encode(evt)
	if err != nil {
		h.log.Error("encode event failed",
			slog.String("type", evt.Type),
			slog.String("error", err.Error()))
		return
	}
	for c := range h.clients {
		if !c.enqueue(msg) {
			h.dropLocked(c)
		}
	}
	if h.metrics != nil {
		h.metrics.IncBroadcasts()
	}
}

// dropLocked removes a client that can no longer keep up. Caller holds h.mu.
func (h *Hub) dropLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	if h.metrics != nil {
		h.metrics.IncDroppedClients()
		h.metrics.SetConnectedClients(len(h.clients))
	}
	c.log.Warn("client dropped, send buffer full")
}

// unregister releases a client's resources after its connection closed.
// Shared state is unaffected.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	if h.metrics != nil {
		h.metrics.SetConnectedClients(len(h.clients))
	}
	c.log.Info("client disconnected", slog.Int("clients", len(h.clients)))
}

func encode(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}
