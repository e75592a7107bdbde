package recording

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Keyframe is one decoded full-scene snapshot.
type Keyframe struct {
	T        float64
	Entities []Entity
}

// KeyframeLog holds every keyframe of a session log in time order and
// answers positional queries at arbitrary playback times by identity-matched
// linear interpolation.
type KeyframeLog struct {
	frames []Keyframe
}

// ParseKeyframes decodes the keyframe records of a session log. Records with
// an unparseable timestamp are skipped; the rest of the log still loads.
func ParseKeyframes(lines []string) *KeyframeLog {
	l := &KeyframeLog{}
	for _, line := range lines {
		if recordType(line) != "keyframe" {
			continue
		}

		rawT, ok := Field(line, "t")
		if !ok {
			continue
		}
		t, err := ParseFloat(rawT)
		if err != nil {
			log.Warn("skipping keyframe with malformed timestamp", "err", err)
			continue
		}

		kf := Keyframe{T: t}
		if raw, ok := Field(line, "entities"); ok && strings.HasPrefix(raw, "[") {
			if body, ok := ExtractArray(raw, 0); ok {
				for _, item := range SplitTopLevel(body) {
					if e, ok := parseEntity(item); ok {
						kf.Entities = append(kf.Entities, e)
					}
				}
			}
		}
		l.frames = append(l.frames, kf)
	}
	return l
}

// Len returns the number of keyframes.
func (l *KeyframeLog) Len() int {
	return len(l.frames)
}

// Duration returns the timestamp of the last keyframe, or 0 when empty.
func (l *KeyframeLog) Duration() float64 {
	if len(l.frames) == 0 {
		return 0
	}
	return l.frames[len(l.frames)-1].T
}

// At returns the interpolated entity list for a playback time. Entities are
// taken from the lower bracketing keyframe; an entity also present (by ID)
// in the upper keyframe moves linearly between the two, otherwise it holds
// its position. Render type, size and color always come from the lower
// keyframe.
func (l *KeyframeLog) At(time float64) []Entity {
	if len(l.frames) == 0 {
		return nil
	}

	a, b := l.bracket(time)

	span := b.T - a.T
	if span < 1e-6 {
		span = 1e-6
	}
	frac := (time - a.T) / span

	out := make([]Entity, 0, len(a.Entities))
	for _, ea := range a.Entities {
		e := ea
		for _, eb := range b.Entities {
			if eb.ID == ea.ID {
				e.X = ea.X + (eb.X-ea.X)*frac
				e.Y = ea.Y + (eb.Y-ea.Y)*frac
				break
			}
		}
		out = append(out, e)
	}
	return out
}

// bracket finds keyframes a, b with a.T <= time <= b.T by ascending scan.
// Before the first keyframe the first pair is used; past the last, the last
// pair.
func (l *KeyframeLog) bracket(time float64) (Keyframe, Keyframe) {
	n := len(l.frames)
	if n == 1 {
		return l.frames[0], l.frames[0]
	}

	for i := 0; i < n-1; i++ {
		if time >= l.frames[i].T && time <= l.frames[i+1].T {
			return l.frames[i], l.frames[i+1]
		}
	}

	if time < l.frames[0].T {
		return l.frames[0], l.frames[1]
	}
	return l.frames[n-2], l.frames[n-1]
}

// EventKind tags a live replay event.
type EventKind int

// Live replay event kinds.
const (
	EventInput EventKind = iota
	EventSpawn
	EventEnd
)

// InputEvent carries an input delta. Has* flags mirror field presence in the
// record: an absent field means "unchanged since the previous input record".
type InputEvent struct {
	Keys    []int
	HasKeys bool

	MouseX   float64
	MouseY   float64
	HasMouse bool

	Buttons    [3]bool
	HasButtons bool
}

// SpawnEvent announces one entity creation.
type SpawnEvent struct {
	ID     string
	X, Y   float64
	Render RenderType
	W, H   float64
	Color  [4]float64
}

// Event is one decoded live replay record.
type Event struct {
	Kind EventKind
	T    float64

	Input InputEvent // valid when Kind == EventInput
	Spawn SpawnEvent // valid when Kind == EventSpawn
}

// EventQueue holds decoded input/spawn/end records in log order for
// input-driven replay.
type EventQueue struct {
	events []Event
	pos    int
}

// ParseEvents decodes the replayable records of a session log. Records with
// an unparseable timestamp are dropped with a log line; replay continues
// with the rest.
func ParseEvents(lines []string) *EventQueue {
	q := &EventQueue{}
	for _, line := range lines {
		var kind EventKind
		switch recordType(line) {
		case "input":
			kind = EventInput
		case "spawn":
			kind = EventSpawn
		case "end":
			kind = EventEnd
		default:
			continue
		}

		rawT, ok := Field(line, "t")
		if !ok {
			continue
		}
		t, err := ParseFloat(rawT)
		if err != nil {
			log.Warn("skipping replay record with malformed timestamp", "err", err)
			continue
		}

		ev := Event{Kind: kind, T: t}
		switch kind {
		case EventInput:
			ev.Input = parseInputEvent(line)
		case EventSpawn:
			sp, ok := parseSpawnEvent(line)
			if !ok {
				continue
			}
			ev.Spawn = sp
		}
		q.events = append(q.events, ev)
	}
	return q
}

// Drain pops every event whose timestamp has been reached. Later events stay
// queued for subsequent ticks.
func (q *EventQueue) Drain(now float64) []Event {
	var due []Event
	for q.pos < len(q.events) && q.events[q.pos].T <= now {
		due = append(due, q.events[q.pos])
		q.pos++
	}
	return due
}

// Empty reports whether every event has been drained.
func (q *EventQueue) Empty() bool {
	return q.pos >= len(q.events)
}

// Len returns the number of events not yet drained.
func (q *EventQueue) Len() int {
	return len(q.events) - q.pos
}

func recordType(line string) string {
	raw, ok := Field(line, "type")
	if !ok {
		return ""
	}
	return StripQuotes(raw)
}

func parseInputEvent(line string) InputEvent {
	var ev InputEvent

	if raw, ok := Field(line, "keys"); ok && strings.HasPrefix(raw, "[") {
		ev.HasKeys = true
		if body, ok := ExtractArray(raw, 0); ok {
			for _, item := range SplitTopLevel(body) {
				k, err := strconv.Atoi(strings.TrimSpace(item))
				if err != nil {
					continue
				}
				ev.Keys = append(ev.Keys, k)
			}
		}
	}

	rawX, okX := Field(line, "mx")
	rawY, okY := Field(line, "my")
	if okX && okY {
		x, errX := ParseFloat(rawX)
		y, errY := ParseFloat(rawY)
		if errX == nil && errY == nil {
			ev.HasMouse = true
			ev.MouseX = x
			ev.MouseY = y
		}
	}

	if raw, ok := Field(line, "mb"); ok && strings.HasPrefix(raw, "[") {
		if body, ok := ExtractArray(raw, 0); ok {
			parts := SplitTopLevel(body)
			for i := 0; i < len(parts) && i < len(ev.Buttons); i++ {
				n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
				if err != nil {
					continue
				}
				ev.HasButtons = true
				ev.Buttons[i] = n == 1
			}
		}
	}

	return ev
}

func parseSpawnEvent(line string) (SpawnEvent, bool) {
	sp := SpawnEvent{Render: RenderCustom}

	raw, ok := Field(line, "id")
	if !ok {
		return sp, false
	}
	sp.ID = StripQuotes(raw)

	rawX, okX := Field(line, "x")
	rawY, okY := Field(line, "y")
	if !okX || !okY {
		return sp, false
	}
	x, errX := ParseFloat(rawX)
	y, errY := ParseFloat(rawY)
	if errX != nil || errY != nil {
		return sp, false
	}
	sp.X, sp.Y = x, y

	if raw, ok := Field(line, "rt"); ok {
		sp.Render = RenderType(StripQuotes(raw))
	}
	if raw, ok := Field(line, "w"); ok {
		if w, err := ParseFloat(raw); err == nil {
			sp.W = w
		}
	}
	if raw, ok := Field(line, "h"); ok {
		if h, err := ParseFloat(raw); err == nil {
			sp.H = h
		}
	}
	sp.Color = parseColor(line)

	return sp, true
}

// parseEntity decodes one element of a keyframe's entities array.
func parseEntity(item string) (Entity, bool) {
	var e Entity

	raw, ok := Field(item, "id")
	if !ok {
		return e, false
	}
	e.ID = StripQuotes(raw)

	rawX, okX := Field(item, "x")
	rawY, okY := Field(item, "y")
	if !okX || !okY {
		return e, false
	}
	x, errX := ParseFloat(rawX)
	y, errY := ParseFloat(rawY)
	if errX != nil || errY != nil {
		return e, false
	}
	e.X, e.Y = x, y

	e.Render = RenderCustom
	if raw, ok := Field(item, "rt"); ok {
		e.HasRender = true
		e.Render = RenderType(StripQuotes(raw))
	}
	if raw, ok := Field(item, "w"); ok {
		if w, err := ParseFloat(raw); err == nil {
			e.W = w
		}
	}
	if raw, ok := Field(item, "h"); ok {
		if h, err := ParseFloat(raw); err == nil {
			e.H = h
		}
	}
	e.Color = parseColor(item)

	return e, true
}

func parseColor(item string) [4]float64 {
	color := [4]float64{1, 1, 1, 1}

	raw, ok := Field(item, "color")
	if !ok || !strings.HasPrefix(raw, "[") {
		return color
	}
	body, ok := ExtractArray(raw, 0)
	if !ok {
		return color
	}

	parts := SplitTopLevel(body)
	for i := 0; i < len(parts) && i < 4; i++ {
		if v, err := ParseFloat(parts[i]); err == nil {
			color[i] = v
		}
	}
	return color
}
