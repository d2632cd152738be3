// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// WriteTimeout bounds a single frame write to a slow client
const WriteTimeout = 3 * time.Second

// ServeWS upgrades the request and writes each event of sub as a JSON text
// frame until the client goes away or sub is closed. It takes ownership of
// sub.
func ServeWS(w http.ResponseWriter, r *http.Request, sub *Subscription, opts *websocket.AcceptOptions) error {
	defer sub.Close()

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		return fmt.Errorf("failed to accept websocket: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	// Clients never send; CloseRead handles pings and reports disconnects.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-sub.C:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return nil
			}

			payload, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to encode event: %w", err)
			}

			wctx, cancel := context.WithTimeout(ctx, WriteTimeout)
			err = conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				return fmt.Errorf("failed to write event: %w", err)
			}
		}
	}
}
