package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abhisek/lessonscript/internal/logging"
	"github.com/abhisek/lessonscript/internal/playback"
	"github.com/abhisek/lessonscript/internal/script"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is sent by the player. The first message must carry a
// script; later messages carry exactly one command.
type clientMessage struct {
	Script   json.RawMessage `json:"script,omitempty"`
	Autoplay *bool           `json:"autoplay,omitempty"`

	Select   *selectCommand `json:"select,omitempty"`
	Submit   bool           `json:"submit,omitempty"`
	Restart  bool           `json:"restart,omitempty"`
	Complete bool           `json:"complete,omitempty"`
}

type selectCommand struct {
	ElementID string `json:"elementId"`
	Key       string `json:"key"`
}

// Server message types.
const (
	msgState = "state"
	msgError = "error"
)

// serverMessage is pushed after every transition and on errors.
type serverMessage struct {
	Type      string              `json:"type"`
	SessionID string              `json:"sessionId,omitempty"`
	Trigger   string              `json:"trigger,omitempty"`
	EventID   string              `json:"eventId,omitempty"`
	Phase     string              `json:"phase,omitempty"`
	Event     script.Event        `json:"event,omitempty"`
	Selected  map[string][]string `json:"selected,omitempty"`
	Error     string              `json:"error,omitempty"`
}

func handlePlay(logger *logging.Logger, deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()
		conn.SetReadLimit(deps.MaxBodyBytes)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		sess := &playSession{
			conn:    conn,
			deps:    deps,
			log:     logger,
			id:      playback.NewSessionID(),
			timeout: deps.SessionIdle,
		}
		if err := sess.run(ctx); err != nil {
			logger.Debug("play session ended", "session_id", sess.id, "error", err)
		}
	}
}

// playSession serves one websocket connection. All writes happen on the
// run goroutine; a reader goroutine feeds messages in.
type playSession struct {
	conn    *websocket.Conn
	deps    Deps
	log     *logging.Logger
	id      string
	timeout time.Duration

	machine  *playback.Machine
	autoplay bool
	observe  func(playback.Transition)
}

func (s *playSession) run(ctx context.Context) error {
	msgs := make(chan clientMessage)
	readErr := make(chan error, 1)
	go s.read(ctx, msgs, readErr)

	idle := time.NewTimer(s.timeout)
	defer idle.Stop()

	for {
		var (
			timer    *time.Timer
			autoplay <-chan time.Time
		)
		if s.machine != nil && s.autoplay && s.machine.Phase() == playback.PhasePresenting {
			timer = time.NewTimer(playback.Duration(s.machine.Current(), s.deps.Playback))
			autoplay = timer.C
		}

		err := s.step(ctx, msgs, readErr, idle, autoplay)
		if timer != nil {
			timer.Stop()
		}
		if err != nil {
			return err
		}
	}
}

// step waits for the next input and applies it.
func (s *playSession) step(ctx context.Context, msgs <-chan clientMessage, readErr <-chan error, idle *time.Timer, autoplay <-chan time.Time) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-readErr:
		return err
	case <-idle.C:
		return errors.New("session idle")
	case <-autoplay:
		return s.apply(s.machine.Complete())
	case msg := <-msgs:
		idle.Reset(s.timeout)
		return s.handle(ctx, msg)
	}
}

func (s *playSession) read(ctx context.Context, out chan<- clientMessage, errc chan<- error) {
	for {
		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			errc <- err
			return
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// handle applies one client message. Protocol errors are reported to the
// client; only write failures end the session.
func (s *playSession) handle(ctx context.Context, msg clientMessage) error {
	if len(msg.Script) > 0 {
		return s.start(ctx, msg)
	}
	if s.machine == nil {
		return s.fail("send a script first")
	}

	switch {
	case msg.Select != nil:
		if err := s.machine.Select(msg.Select.ElementID, msg.Select.Key); err != nil {
			return s.fail(err.Error())
		}
		return s.push("select")
	case msg.Submit:
		return s.apply(s.machine.Submit())
	case msg.Complete:
		return s.apply(s.machine.Complete())
	case msg.Restart:
		return s.apply(s.machine.Restart())
	default:
		return s.fail("unknown command")
	}
}

func (s *playSession) start(ctx context.Context, msg clientMessage) error {
	if err := script.ValidateJSON(msg.Script); err != nil {
		return s.fail(err.Error())
	}
	sc, err := script.Parse(msg.Script)
	if err != nil {
		return s.fail(err.Error())
	}
	if err := script.Validate(sc); err != nil {
		return s.fail(err.Error())
	}

	m, err := playback.New(sc)
	if err != nil {
		return s.fail(err.Error())
	}
	s.machine = m
	s.autoplay = msg.Autoplay == nil || *msg.Autoplay
	s.observe = nil
	if s.deps.Events != nil {
		s.observe = playback.Recorder(ctx, s.deps.Events, s.id, sc.Title, s.log)
	}

	s.log.Info("play session started", "session_id", s.id, "title", sc.Title, "autoplay", s.autoplay)
	return s.push("start")
}

func (s *playSession) apply(tr playback.Transition, err error) error {
	if err != nil {
		return s.fail(err.Error())
	}
	if s.observe != nil {
		s.observe(tr)
	}
	return s.push(string(tr.Trigger))
}

func (s *playSession) push(trigger string) error {
	return s.conn.WriteJSON(serverMessage{
		Type:      msgState,
		SessionID: s.id,
		Trigger:   trigger,
		EventID:   s.machine.CurrentID(),
		Phase:     s.machine.Phase().String(),
		Event:     s.machine.Current(),
		Selected:  s.machine.Responses(),
	})
}

func (s *playSession) fail(msg string) error {
	return s.conn.WriteJSON(serverMessage{Type: msgError, SessionID: s.id, Error: msg})
}
