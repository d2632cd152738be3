// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"log/slog"
	"time"
)

type Type string

const (
	MemberJoined     Type = "member_joined"
	CandidateAdded   Type = "candidate_added"
	CandidateRemoved Type = "candidate_removed"
	BallotSubmitted  Type = "ballot_submitted"
	LobbyClosed      Type = "lobby_closed"
	CodeRegenerated  Type = "code_regenerated"
)

// Event is a lobby-scoped change notification
type Event struct {
	Type    Type      `json:"type"`
	LobbyID string    `json:"lobby_id"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// SubscriberBuffer is how many undelivered events a subscriber may hold
// before new ones are dropped for it.
const SubscriberBuffer = 16

type hubMsg interface{ isHubMsg() }

type subscribe struct {
	LobbyID string
	Reply   chan *Subscription
}

type unsubscribe struct {
	Sub *Subscription
}

type publish struct {
	Event Event
}

type subscriberCount struct {
	LobbyID string
	Reply   chan int
}

func (subscribe) isHubMsg()       {}
func (unsubscribe) isHubMsg()     {}
func (publish) isHubMsg()         {}
func (subscriberCount) isHubMsg() {}

// Hub fans events out to the subscribers of each lobby. All state is owned
// by the loop goroutine.
type Hub struct {
	inbox  chan hubMsg
	subs   map[string]map[*Subscription]struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// Subscription receives the events of one lobby on C until it is closed.
type Subscription struct {
	C       <-chan Event
	ch      chan Event
	lobbyID string
	hub     *Hub
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan hubMsg, 64),
		subs:   make(map[string]map[*Subscription]struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

// Publish queues e for delivery. It never blocks past hub shutdown.
func (h *Hub) Publish(e Event) {
	select {
	case h.inbox <- publish{Event: e}:
	case <-h.ctx.Done():
	}
}

// Subscribe registers a subscriber for lobbyID. It returns nil after the
// hub has been shut down.
func (h *Hub) Subscribe(lobbyID string) *Subscription {
	reply := make(chan *Subscription, 1)
	select {
	case h.inbox <- subscribe{LobbyID: lobbyID, Reply: reply}:
	case <-h.ctx.Done():
		return nil
	}
	select {
	case sub := <-reply:
		return sub
	case <-h.ctx.Done():
		return nil
	}
}

// Subscribers returns the number of live subscriptions for lobbyID
func (h *Hub) Subscribers(lobbyID string) int {
	reply := make(chan int, 1)
	select {
	case h.inbox <- subscriberCount{LobbyID: lobbyID, Reply: reply}:
	case <-h.ctx.Done():
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-h.ctx.Done():
		return 0
	}
}

// Close stops the hub and closes every subscription channel
func (h *Hub) Close() {
	h.cancel()
}

// Close unsubscribes. C is closed once the hub has processed it.
func (s *Subscription) Close() {
	select {
	case s.hub.inbox <- unsubscribe{Sub: s}:
	case <-s.hub.ctx.Done():
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			if h.ctx.Err() != nil {
				h.shutdown()
				return
			}

			switch msg := m.(type) {
			case subscribe:
				ch := make(chan Event, SubscriberBuffer)
				sub := &Subscription{C: ch, ch: ch, lobbyID: msg.LobbyID, hub: h}
				if h.subs[msg.LobbyID] == nil {
					h.subs[msg.LobbyID] = make(map[*Subscription]struct{})
				}
				h.subs[msg.LobbyID][sub] = struct{}{}
				msg.Reply <- sub

			case unsubscribe:
				set := h.subs[msg.Sub.lobbyID]
				if _, ok := set[msg.Sub]; !ok {
					break
				}
				delete(set, msg.Sub)
				close(msg.Sub.ch)
				if len(set) == 0 {
					delete(h.subs, msg.Sub.lobbyID)
				}

			case publish:
				for sub := range h.subs[msg.Event.LobbyID] {
					select {
					case sub.ch <- msg.Event:
					default:
						slog.Warn("dropping event for slow subscriber",
							"lobby_id", msg.Event.LobbyID, "type", msg.Event.Type)
					}
				}

			case subscriberCount:
				msg.Reply <- len(h.subs[msg.LobbyID])
			}
		}
	}
}

func (h *Hub) shutdown() {
	for lobbyID, set := range h.subs {
		for sub := range set {
			close(sub.ch)
		}
		delete(h.subs, lobbyID)
	}
}
