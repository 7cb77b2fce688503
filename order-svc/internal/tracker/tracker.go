package tracker

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"swayum-canteen/order-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

// Source identifies which driver produced a status event. Backend events
// are authoritative; demo and collection events can only move forward.
type Source int

const (
	SourceBackend Source = iota
	SourceDemo
	SourceCollection
)

type Event struct {
	Source    Source
	Stage     domain.StatusStage
	Collected bool
}

// StatusView is the single authoritative view handed to the UI.
type StatusView struct {
	Stage     domain.StatusStage `json:"status"`
	Stages    domain.StageView   `json:"stages"`
	Collected bool               `json:"collected"`
}

type StageLoader interface {
	StageOf(ctx context.Context, orderID int) (domain.StatusStage, error)
}

type StageSink interface {
	SetStage(ctx context.Context, orderID int, stage string) error
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type orderState struct {
	stage     domain.StatusStage
	collected bool
	watchers  map[chan StatusView]struct{}
	timers    []*time.Timer
}

// Tracker reconciles the three status drivers (backend push, demo timers,
// collection) into one view per order and fans it out to watchers.
type Tracker struct {
	loader       StageLoader
	sink         StageSink
	prepareAfter time.Duration
	readyAfter   time.Duration

	mu     sync.Mutex
	orders map[int]*orderState
}

func New(loader StageLoader, sink StageSink, prepareAfter, readyAfter time.Duration) *Tracker {
	return &Tracker{
		loader:       loader,
		sink:         sink,
		prepareAfter: prepareAfter,
		readyAfter:   readyAfter,
		orders:       make(map[int]*orderState),
	}
}

func (t *Tracker) ensureLocked(orderID int) *orderState {
	st, ok := t.orders[orderID]
	if !ok {
		st = &orderState{
			stage:    domain.StageReceived,
			watchers: make(map[chan StatusView]struct{}),
		}
		t.orders[orderID] = st
	}
	return st
}

func viewOf(st *orderState) StatusView {
	return StatusView{
		Stage:     st.stage,
		Stages:    st.stage.View(),
		Collected: st.collected,
	}
}

// Apply runs one event through the reducer. Demo events are dropped unless
// strictly ahead of the current stage; backend events overwrite the local
// view unconditionally, so a demo timer firing late can never undo what
// the backend already decided.
func (t *Tracker) Apply(orderID int, event Event) StatusView {
	t.mu.Lock()
	st := t.ensureLocked(orderID)
	before := viewOf(st)

	switch event.Source {
	case SourceBackend:
		st.stage = event.Stage
		st.collected = event.Collected
	case SourceDemo:
		if event.Stage > st.stage {
			st.stage = event.Stage
		}
	case SourceCollection:
		if st.stage < domain.StageCompleted {
			st.stage = domain.StageCompleted
		}
		st.collected = true
	}

	view := viewOf(st)
	watchers := make([]chan StatusView, 0, len(st.watchers))
	for ch := range st.watchers {
		watchers = append(watchers, ch)
	}
	t.mu.Unlock()

	if view != before {
		if t.sink != nil {
			_ = t.sink.SetStage(context.Background(), orderID, view.Stage.String())
		}
		for _, ch := range watchers {
			select {
			case ch <- view:
			default:
				// Slow watcher; it will catch up on the next event.
			}
		}
	}

	return view
}

// Watch subscribes to an order's status. The first watcher arms the demo
// progression timers; the cancel func must be called on view teardown and
// disarms them again when the last watcher leaves.
func (t *Tracker) Watch(ctx context.Context, orderID int) (<-chan StatusView, StatusView, func()) {
	loaded := domain.StageReceived
	if t.loader != nil {
		if stage, err := t.loader.StageOf(ctx, orderID); err == nil {
			loaded = stage
		}
	}

	t.mu.Lock()
	st := t.ensureLocked(orderID)
	if loaded > st.stage {
		st.stage = loaded
	}

	ch := make(chan StatusView, 8)
	st.watchers[ch] = struct{}{}
	if len(st.watchers) == 1 && t.prepareAfter > 0 {
		st.timers = []*time.Timer{
			time.AfterFunc(t.prepareAfter, func() {
				t.Apply(orderID, Event{Source: SourceDemo, Stage: domain.StagePreparing})
			}),
			time.AfterFunc(t.readyAfter, func() {
				t.Apply(orderID, Event{Source: SourceDemo, Stage: domain.StageReady})
			}),
		}
	}
	view := viewOf(st)
	t.mu.Unlock()

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if _, ok := st.watchers[ch]; !ok {
			return
		}
		delete(st.watchers, ch)
		if len(st.watchers) == 0 {
			for _, timer := range st.timers {
				timer.Stop()
			}
			st.timers = nil
		}
	}

	return ch, view, cancel
}

// Status reports the current view without subscribing.
func (t *Tracker) Status(ctx context.Context, orderID int) StatusView {
	t.mu.Lock()
	if st, ok := t.orders[orderID]; ok {
		view := viewOf(st)
		t.mu.Unlock()
		return view
	}
	t.mu.Unlock()

	stage := domain.StageReceived
	if t.loader != nil {
		if loaded, err := t.loader.StageOf(ctx, orderID); err == nil {
			stage = loaded
		}
	}
	return StatusView{Stage: stage, Stages: stage.View(), Collected: stage == domain.StageCompleted}
}

// Run consumes backend change events until the context is cancelled.
func (t *Tracker) Run(ctx context.Context, reader MessageReader) {
	log.Println("[order-svc] tracker consuming order events")
	for {
		message, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[order-svc] tracker read error: %v", err)
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("[order-svc] tracker unmarshal error: %v", err)
			continue
		}

		t.ProcessEvent(event)
	}
}

// ProcessEvent feeds one backend row change into the reducer.
func (t *Tracker) ProcessEvent(event domain.OrderEvent) {
	if event.Type != domain.EventStatusChanged {
		return
	}
	stage, ok := domain.ParseStage(event.NewStatus)
	if !ok {
		log.Printf("[order-svc] tracker skipping unknown status %q for order %d", event.NewStatus, event.OrderID)
		return
	}
	t.Apply(event.OrderID, Event{Source: SourceBackend, Stage: stage, Collected: event.Collected})
}
