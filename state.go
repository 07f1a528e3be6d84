package searchapi

// State is a snapshot of the async query lifecycle.
//
// After a query settles exactly one of Loading, Err, Value describes it.
// While a new query is loading, Err and Value still hold the previous outcome.
type State struct {
	Loading bool
	Err     error
	Value   *ResultSet
	// Seq is the sequence number of the query this state belongs to.
	// Zero means no query has been issued yet.
	Seq uint64
}

// Settled reports whether the state holds the outcome of its query.
func (s State) Settled() bool {
	return s.Seq > 0 && !s.Loading
}

// loading derives the in-flight state for seq, keeping the previous outcome.
func (s State) loading(seq uint64) State {
	return State{Loading: true, Err: s.Err, Value: s.Value, Seq: seq}
}

func settled(seq uint64, rs ResultSet, err error) State {
	if err != nil {
		return State{Err: err, Seq: seq}
	}
	return State{Value: &rs, Seq: seq}
}

// hub fans state snapshots out to subscribers. Callers hold Results.mu.
type hub struct {
	subs   map[int]chan State
	nextID int
	// changed is closed and replaced on every publish.
	changed chan struct{}
}

func newHub() *hub {
	return &hub{
		subs:    make(map[int]chan State),
		changed: make(chan struct{}),
	}
}

func (h *hub) add(st State) (int, chan State) {
	ch := make(chan State, 1)
	ch <- st
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	return id, ch
}

func (h *hub) remove(id int) {
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// publish delivers st to every subscriber, replacing an unread snapshot.
func (h *hub) publish(st State) {
	for _, ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
	close(h.changed)
	h.changed = make(chan struct{})
}

func (h *hub) close() {
	for id := range h.subs {
		h.remove(id)
	}
	close(h.changed)
}
