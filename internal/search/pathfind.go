package search

import (
	"container/heap"
	"sort"
	"strings"

	"railalert.transitlab.org/internal/graph"
)

// pathLeg is one uninterrupted ride of a candidate path, before timetable
// resolution.
type pathLeg struct {
	LineID        string
	FromStationID string
	ToStationID   string
}

// estimatedMinutesPerHop is the ride-time weight for one inter-station hop
// when no timetable data has been consulted yet. It only shapes candidate
// ranking; resolved legs carry real timetable durations.
const estimatedMinutesPerHop = 3

type pathState struct {
	station   string
	line      string
	transfers int
}

type pathItem struct {
	state pathState
	cost  int
	index int
}

type pathQueue []*pathItem

func (q pathQueue) Len() int            { return len(q) }
func (q pathQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q pathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *pathQueue) Push(x any)         { item := x.(*pathItem); item.index = len(*q); *q = append(*q, item) }
func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// findPaths runs a time-cost Dijkstra over (station, line, transfers) states
// and returns up to maxPaths distinct line sequences from origin to
// destination using at most maxTransfers line changes. Ride cost is weighted
// per hop and line changes cost the station's transfer buffer, so a
// three-leg path that is genuinely faster can outrank a slow two-leg one.
func findPaths(g *graph.Graph, originID, destinationID string, maxTransfers, maxPaths int) [][]pathLeg {
	origin, err := g.Station(originID)
	if err != nil {
		return nil
	}

	dist := make(map[pathState]int)
	prev := make(map[pathState]pathState)
	queue := &pathQueue{}
	heap.Init(queue)

	push := func(state pathState, cost int, from pathState, hasPrev bool) {
		if best, ok := dist[state]; ok && best <= cost {
			return
		}
		dist[state] = cost
		if hasPrev {
			prev[state] = from
		} else {
			delete(prev, state)
		}
		heap.Push(queue, &pathItem{state: state, cost: cost})
	}

	for _, lineID := range origin.LineIDs {
		push(pathState{station: originID, line: lineID}, 0, pathState{}, false)
	}

	for queue.Len() > 0 {
		item := heap.Pop(queue).(*pathItem)
		state := item.state
		if item.cost > dist[state] {
			continue
		}
		if state.station == destinationID {
			continue
		}

		line, err := g.Line(state.line)
		if err != nil {
			continue
		}
		idx := g.StationIndex(state.line, state.station)
		if idx < 0 {
			continue
		}
		// Ride to the adjacent station in either direction.
		for _, next := range []int{idx - 1, idx + 1} {
			if next < 0 || next >= len(line.StationIDs) {
				continue
			}
			nextState := pathState{station: line.StationIDs[next], line: state.line, transfers: state.transfers}
			push(nextState, item.cost+estimatedMinutesPerHop, state, true)
		}
		// Change lines at this station.
		if state.transfers < maxTransfers {
			station, err := g.Station(state.station)
			if err != nil {
				continue
			}
			for _, otherLine := range station.LineIDs {
				if otherLine == state.line {
					continue
				}
				nextState := pathState{station: state.station, line: otherLine, transfers: state.transfers + 1}
				push(nextState, item.cost+g.TransferTime(state.station), state, true)
			}
		}
	}

	return collectPaths(dist, prev, originID, destinationID, maxPaths)
}

func collectPaths(dist map[pathState]int, prev map[pathState]pathState, originID, destinationID string, maxPaths int) [][]pathLeg {
	type goal struct {
		state pathState
		cost  int
	}
	var goals []goal
	for state, cost := range dist {
		if state.station == destinationID {
			goals = append(goals, goal{state: state, cost: cost})
		}
	}
	sort.Slice(goals, func(i, j int) bool {
		if goals[i].cost != goals[j].cost {
			return goals[i].cost < goals[j].cost
		}
		return goals[i].state.line < goals[j].state.line
	})

	seen := make(map[string]bool)
	var paths [][]pathLeg
	for _, goalState := range goals {
		legs := reconstructLegs(prev, goalState.state, originID)
		if legs == nil {
			continue
		}
		signature := pathSignature(legs)
		if seen[signature] {
			continue
		}
		seen[signature] = true
		paths = append(paths, legs)
		if len(paths) >= maxPaths {
			break
		}
	}
	return paths
}

// reconstructLegs walks the predecessor chain backwards and merges
// consecutive rides on the same line into single legs. Transfer states
// (same station, different line) delimit legs.
func reconstructLegs(prev map[pathState]pathState, goalState pathState, originID string) []pathLeg {
	var states []pathState
	state := goalState
	for {
		states = append(states, state)
		parent, ok := prev[state]
		if !ok {
			break
		}
		state = parent
	}
	// states is destination..origin; reverse.
	for i, j := 0, len(states)-1; i < j; i, j = i+1, j-1 {
		states[i], states[j] = states[j], states[i]
	}
	if states[0].station != originID {
		return nil
	}

	var legs []pathLeg
	legStart := states[0]
	for i := 1; i < len(states); i++ {
		if states[i].line != states[i-1].line {
			// Line change: close the current leg unless it was empty
			// (changing lines at the origin station itself).
			if states[i-1].station != legStart.station {
				legs = append(legs, pathLeg{
					LineID:        legStart.line,
					FromStationID: legStart.station,
					ToStationID:   states[i-1].station,
				})
			}
			legStart = states[i]
		}
	}
	last := states[len(states)-1]
	if last.station != legStart.station {
		legs = append(legs, pathLeg{
			LineID:        legStart.line,
			FromStationID: legStart.station,
			ToStationID:   last.station,
		})
	}
	return legs
}

func pathSignature(legs []pathLeg) string {
	parts := make([]string, len(legs))
	for i, leg := range legs {
		parts[i] = leg.LineID + ":" + leg.FromStationID + ">" + leg.ToStationID
	}
	return strings.Join(parts, "|")
}
