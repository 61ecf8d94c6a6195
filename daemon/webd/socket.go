package webd

import (
	"encoding/json"
	"github.com/rotblauer/osgridd/events"
	"log"
	"log/slog"

	"github.com/olahol/melody"
)

type websocketAction string

var websocketActionConverted websocketAction = "converted"

type broadcast struct {
	Action     websocketAction   `json:"action"`
	Conversion events.Conversion `json:"conversion"`
}

// initMelody sets up the websocket handler.
func (s *WebDaemon) initMelody() {
	s.melodyInstance = melody.New()

	s.melodyInstance.HandleConnect(func(sess *melody.Session) {
		log.Println("[websocket] connected", sess.Request.RemoteAddr)
	})

	// Right now don't care about incoming messages from clients. Log and drop.
	s.melodyInstance.HandleMessage(loggingHandler)

	s.melodyInstance.HandleDisconnect(func(sess *melody.Session) {
		log.Println("[websocket] disconnected", sess.Request.RemoteAddr)
	})

	s.melodyInstance.HandleError(func(sess *melody.Session, e error) {
		log.Println("[websocket] error", e, sess.Request.RemoteAddr)
	})

	// Broadcast conversion events - as computed - to all connected clients.
	// Rejected inputs never reach the feed, so clients only ever see
	// conversions that succeeded.
	conversions := make(chan events.Conversion, 32)
	sub := events.ConversionFeed.Subscribe(conversions)
	go func() {
		for {
			select {
			case ev := <-conversions:
				bc := broadcast{
					Action:     websocketActionConverted,
					Conversion: ev,
				}
				b, err := json.Marshal(bc)
				if err != nil {
					slog.Error("Failed to marshal conversion event", "error", err)
					continue
				}
				if err := s.melodyInstance.Broadcast(b); err != nil {
					slog.Warn("Failed to broadcast conversion event", "error", err)
				}
			case err := <-sub.Err():
				slog.Error("Conversion feed subscription failed", "error", err)
				return
			}
		}
	}()
}

// on request
func loggingHandler(sess *melody.Session, msg []byte) {
	log.Println("[websocket] message", string(msg))
}
