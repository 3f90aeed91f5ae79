package sim

import "time"

type timerKind int

const (
	timerRespawnMob timerKind = iota
)

type timer struct {
	at   time.Duration
	kind timerKind
}

// timerQueue is a binary min-heap of deadlines on the simulation clock
type timerQueue struct {
	items []timer
}

func (q *timerQueue) Len() int { return len(q.items) }

func (q *timerQueue) push(t timer) {
	q.items = append(q.items, t)
	i := len(q.items) - 1
	for i > 0 {
		p := (i - 1) / 2
		if q.items[p].at <= t.at {
			break
		}
		q.items[i] = q.items[p]
		i = p
	}
	q.items[i] = t
}

func (q *timerQueue) pop() (timer, bool) {
	if len(q.items) == 0 {
		return timer{}, false
	}
	top := q.items[0]
	last := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	if len(q.items) == 0 {
		return top, true
	}
	i := 0
	for {
		left := 2*i + 1
		if left >= len(q.items) {
			break
		}
		smallest := left
		if right := left + 1; right < len(q.items) && q.items[right].at < q.items[left].at {
			smallest = right
		}
		if q.items[smallest].at >= last.at {
			break
		}
		q.items[i] = q.items[smallest]
		i = smallest
	}
	q.items[i] = last
	return top, true
}

// popDue removes and returns the earliest timer if it is due at now
func (q *timerQueue) popDue(now time.Duration) (timer, bool) {
	if len(q.items) == 0 || q.items[0].at > now {
		return timer{}, false
	}
	return q.pop()
}
