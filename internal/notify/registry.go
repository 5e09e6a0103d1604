// Package notify tells interested parties that a user's plan changed.
// Listeners are process-local; a Relay can fan events out to other
// processes.
package notify

import (
	"context"
	"sync"
	"time"
)

// Topic names which part of the plan changed.
type Topic string

const (
	TopicMeals    Topic = "meals"
	TopicWorkouts Topic = "workouts"
	TopicBoth     Topic = "both"
)

// Event is a plan-refresh notification.
type Event struct {
	Topic  Topic     `json:"topic"`
	UserID string    `json:"user_id"`
	Date   string    `json:"date,omitempty"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
	Origin string    `json:"origin,omitempty"`
}

// Listener is called synchronously on the publishing goroutine.
type Listener func(Event)

// Relay forwards locally published events elsewhere.
type Relay interface {
	Forward(ctx context.Context, ev Event) error
}

type subscriber struct {
	id    uint64
	topic Topic
	fn    Listener
}

// Registry is a process-wide set of listeners keyed by topic.
type Registry struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscriber
	relays []Relay
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Subscription removes its listener when Unsubscribe is called. Calling
// Unsubscribe more than once is harmless.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// Subscribe registers fn for topic. A TopicBoth listener receives every
// event; a meals or workouts listener also receives TopicBoth events.
func (r *Registry) Subscribe(topic Topic, fn Listener) *Subscription {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.subs = append(r.subs, subscriber{id: id, topic: topic, fn: fn})
	r.mu.Unlock()

	return &Subscription{cancel: func() { r.remove(id) }}
}

// AddRelay attaches a relay that receives every published event.
func (r *Registry) AddRelay(relay Relay) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.relays = append(r.relays, relay)
}

// Publish delivers ev to local listeners and then forwards it to relays.
// Relay errors are returned joined; local delivery always happens.
func (r *Registry) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	r.Deliver(ev)

	r.mu.RLock()
	relays := append([]Relay(nil), r.relays...)
	r.mu.RUnlock()

	var firstErr error
	for _, relay := range relays {
		if err := relay.Forward(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Deliver notifies local listeners only.
func (r *Registry) Deliver(ev Event) {
	r.mu.RLock()
	var targets []Listener
	for _, s := range r.subs {
		if matches(s.topic, ev.Topic) {
			targets = append(targets, s.fn)
		}
	}
	r.mu.RUnlock()

	for _, fn := range targets {
		fn(ev)
	}
}

// Len returns the number of active listeners.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return
		}
	}
}

func matches(subscribed, published Topic) bool {
	return subscribed == published || subscribed == TopicBoth || published == TopicBoth
}

// TopicFor picks the topic covering the changed kinds.
func TopicFor(meals, workouts bool) Topic {
	switch {
	case meals && workouts:
		return TopicBoth
	case workouts:
		return TopicWorkouts
	default:
		return TopicMeals
	}
}
