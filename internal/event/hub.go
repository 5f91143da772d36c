package event

import (
	"strings"

	"github.com/leandro-lugaresi/hub"
)

type Hub = hub.Hub
type Data = hub.Fields
type Message = hub.Message

var SharedHub = NewHub()

// NewHub returns a new hub.Hub instance.
func NewHub() *Hub {
	return hub.New()
}

// Error publishes an error notification.
func Error(msg string) {
	Log.Error(msg)
	Publish("notify.error", Data{"message": msg})
}

// Info publishes an info notification.
func Info(msg string) {
	Log.Info(msg)
	Publish("notify.info", Data{"message": msg})
}

// Publish publishes a message to all subscribers.
func Publish(event string, data Data) {
	SharedHub.Publish(Message{
		Name:   event,
		Fields: data,
	})
}

// Subscribe creates a topic subscription.
func Subscribe(topics ...string) hub.Subscription {
	return SharedHub.Subscribe(100, topics...)
}

// Unsubscribe deletes the subscription of a topic.
func Unsubscribe(s hub.Subscription) {
	SharedHub.Unsubscribe(s)
}

// Topic returns the last segment of a message name, e.g. "epoch" for "train.epoch".
func Topic(m Message) string {
	name := m.Topic()

	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}

	return name
}
