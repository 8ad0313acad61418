package event

// Name identifies a notification emitted by a game mode, pawn, or the play mode machine.
type Name string

// Notifications shared by game modes and the maps that host them.
const (
	GameInit     Name = "gameInit"
	GameStart    Name = "gameStart"
	GameEnd      Name = "gameEnd"
	GamePause    Name = "gamePause"
	GameResume   Name = "gameResume"
	GameTick     Name = "gameTick"
	ScoreUpdate  Name = "scoreUpdate"
	PlayerJoined Name = "playerJoined"
	PlayerLeft   Name = "playerLeft"
)

// Event is one delivered notification. Payload type is documented next to each emitter.
type Event struct {
	Name    Name
	Payload any
}

type listener struct {
	id   uint64
	name Name // empty = all events
	fn   func(Event)
}

// Emitter is a synchronous observer list. Listeners run inside Emit, in subscription order,
// so every subscriber sees the event within the same tick as the call that triggered it.
// Not safe for concurrent use; the owning state machine is only touched from the tick.
type Emitter struct {
	next      uint64
	listeners []listener
}

// On subscribes fn to events named name. The returned func removes the subscription.
func (e *Emitter) On(name Name, fn func(Event)) (off func()) {
	return e.add(name, fn)
}

// OnAll subscribes fn to every event (used by forwarders such as the editor bridge).
func (e *Emitter) OnAll(fn func(Event)) (off func()) {
	return e.add("", fn)
}

// Once subscribes fn for a single delivery of name.
func (e *Emitter) Once(name Name, fn func(Event)) {
	var off func()
	off = e.add(name, func(ev Event) {
		off()
		fn(ev)
	})
}

func (e *Emitter) add(name Name, fn func(Event)) func() {
	e.next++
	id := e.next
	e.listeners = append(e.listeners, listener{id: id, name: name, fn: fn})
	return func() { e.remove(id) }
}

func (e *Emitter) remove(id uint64) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Emit delivers an event to all matching listeners. Listeners added during delivery
// receive the next event, not this one.
func (e *Emitter) Emit(name Name, payload any) {
	if e == nil || len(e.listeners) == 0 {
		return
	}
	snapshot := make([]listener, len(e.listeners))
	copy(snapshot, e.listeners)
	ev := Event{Name: name, Payload: payload}
	for _, l := range snapshot {
		if l.name != "" && l.name != name {
			continue
		}
		l.fn(ev)
	}
}

// Len returns the number of active subscriptions.
func (e *Emitter) Len() int {
	return len(e.listeners)
}
