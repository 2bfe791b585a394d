package services

import "sync"

const (
	ChangeTableCycles = "cycles"
	ChangeTableDiary  = "diary_entries"

	ChangeActionInsert = "INSERT"
	ChangeActionUpdate = "UPDATE"
	ChangeActionDelete = "DELETE"

	defaultChangeBufferSize = 16
)

// ChangeEvent announces a committed write so open clients can refetch.
type ChangeEvent struct {
	Table    string `json:"table"`
	Action   string `json:"action"`
	RecordID string `json:"record_id"`
	UserID   uint   `json:"-"`
}

type ChangePublisher interface {
	Publish(event ChangeEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ChangeEvent) {}

// ChangeBroker fans events out to the subscribers of the event's user. Publish never blocks: a
// subscriber whose buffer is full misses the event.
type ChangeBroker struct {
	mu          sync.Mutex
	bufferSize  int
	subscribers map[uint]map[chan ChangeEvent]struct{}
}

func NewChangeBroker(bufferSize int) *ChangeBroker {
	if bufferSize <= 0 {
		bufferSize = defaultChangeBufferSize
	}
	return &ChangeBroker{
		bufferSize:  bufferSize,
		subscribers: make(map[uint]map[chan ChangeEvent]struct{}),
	}
}

// Subscribe registers a listener for userID. The returned cancel func closes the channel and is
// safe to call more than once.
func (broker *ChangeBroker) Subscribe(userID uint) (<-chan ChangeEvent, func()) {
	events := make(chan ChangeEvent, broker.bufferSize)

	broker.mu.Lock()
	if broker.subscribers[userID] == nil {
		broker.subscribers[userID] = make(map[chan ChangeEvent]struct{})
	}
	broker.subscribers[userID][events] = struct{}{}
	broker.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			broker.mu.Lock()
			defer broker.mu.Unlock()

			delete(broker.subscribers[userID], events)
			if len(broker.subscribers[userID]) == 0 {
				delete(broker.subscribers, userID)
			}
			close(events)
		})
	}
	return events, cancel
}

func (broker *ChangeBroker) Publish(event ChangeEvent) {
	broker.mu.Lock()
	defer broker.mu.Unlock()

	for events := range broker.subscribers[event.UserID] {
		select {
		case events <- event:
		default:
		}
	}
}

func (broker *ChangeBroker) SubscriberCount(userID uint) int {
	broker.mu.Lock()
	defer broker.mu.Unlock()
	return len(broker.subscribers[userID])
}
