// Package graph holds the static station/line network and answers adjacency,
// shared-line and transfer-time queries. A Graph is immutable once built, so
// it is safe for concurrent use without locking.
package graph

import (
	"fmt"

	"railalert.transitlab.org/internal/models"
)

// DefaultTransferMinutes is the walk/dwell buffer assumed at stations without
// an explicit transfer-time override.
const DefaultTransferMinutes = 3

// Hop is one reachable station one step away from a query station: either the
// adjacent station while staying on a line, or the same station on another
// line via a transfer edge.
type Hop struct {
	Station  models.Station
	Line     models.Line
	Transfer *models.TransferEdge
}

// Graph is the immutable station/line/transfer index.
type Graph struct {
	stations        map[string]models.Station
	lines           map[string]models.Line
	linePositions   map[string]map[string]int // line id -> station id -> index
	transferMinutes map[string]int            // station id -> override
	transfers       map[string][]models.TransferEdge
	defaultTransfer int
	lineIDs         []string
}

// New builds a Graph from reference network data. Lines referencing stations
// absent from the station list are rejected; the network is assumed static
// for the life of the process.
func New(network models.Network) (*Graph, error) {
	g := &Graph{
		stations:        make(map[string]models.Station, len(network.Stations)),
		lines:           make(map[string]models.Line, len(network.Lines)),
		linePositions:   make(map[string]map[string]int, len(network.Lines)),
		transferMinutes: make(map[string]int),
		transfers:       make(map[string][]models.TransferEdge),
		defaultTransfer: network.DefaultTransferMinutes,
	}
	if g.defaultTransfer <= 0 {
		g.defaultTransfer = DefaultTransferMinutes
	}

	for _, s := range network.Stations {
		g.stations[s.ID] = s
	}
	for _, l := range network.Lines {
		positions := make(map[string]int, len(l.StationIDs))
		for i, sid := range l.StationIDs {
			if _, ok := g.stations[sid]; !ok {
				return nil, fmt.Errorf("line %s references %s: %w", l.ID, sid, models.ErrUnknownStation)
			}
			positions[sid] = i
		}
		g.lines[l.ID] = l
		g.linePositions[l.ID] = positions
		g.lineIDs = append(g.lineIDs, l.ID)
	}
	for _, t := range network.Transfers {
		if _, ok := g.stations[t.StationID]; !ok {
			return nil, fmt.Errorf("transfer at %s: %w", t.StationID, models.ErrUnknownStation)
		}
		g.transfers[t.StationID] = append(g.transfers[t.StationID], t)
		if t.MinTransferMinutes > 0 {
			// The largest declared buffer at a station wins.
			if t.MinTransferMinutes > g.transferMinutes[t.StationID] {
				g.transferMinutes[t.StationID] = t.MinTransferMinutes
			}
		}
	}
	return g, nil
}

// Station looks up a station by id.
func (g *Graph) Station(id string) (models.Station, error) {
	s, ok := g.stations[id]
	if !ok {
		return models.Station{}, fmt.Errorf("station %s: %w", id, models.ErrUnknownStation)
	}
	return s, nil
}

// Line looks up a line by id.
func (g *Graph) Line(id string) (models.Line, error) {
	l, ok := g.lines[id]
	if !ok {
		return models.Line{}, fmt.Errorf("line %s: %w", id, models.ErrUnknownLine)
	}
	return l, nil
}

// LineIDs returns the ids of every line in the network, in load order.
func (g *Graph) LineIDs() []string {
	out := make([]string, len(g.lineIDs))
	copy(out, g.lineIDs)
	return out
}

// StationIndex returns the canonical position of a station on a line, or -1.
func (g *Graph) StationIndex(lineID, stationID string) int {
	positions, ok := g.linePositions[lineID]
	if !ok {
		return -1
	}
	idx, ok := positions[stationID]
	if !ok {
		return -1
	}
	return idx
}

// SameLines returns every line serving both stations, or nil.
func (g *Graph) SameLines(a, b string) []string {
	var shared []string
	for _, lineID := range g.lineIDs {
		positions := g.linePositions[lineID]
		if _, okA := positions[a]; !okA {
			continue
		}
		if _, okB := positions[b]; okB {
			shared = append(shared, lineID)
		}
	}
	return shared
}

// SameLine reports whether any single line serves both stations.
func (g *Graph) SameLine(a, b string) bool {
	return len(g.SameLines(a, b)) > 0
}

// TransferTime returns the minimum transfer buffer in minutes at a station.
func (g *Graph) TransferTime(stationID string) int {
	if m, ok := g.transferMinutes[stationID]; ok {
		return m
	}
	return g.defaultTransfer
}

// Neighbors returns the stations reachable one hop from stationID: the
// previous/next station on each line serving it, excluding excludeLineID, plus
// line changes at the station itself (Transfer set on those hops).
func (g *Graph) Neighbors(stationID, excludeLineID string) ([]Hop, error) {
	station, ok := g.stations[stationID]
	if !ok {
		return nil, fmt.Errorf("station %s: %w", stationID, models.ErrUnknownStation)
	}

	var hops []Hop
	for _, lineID := range station.LineIDs {
		if lineID == excludeLineID {
			continue
		}
		line, ok := g.lines[lineID]
		if !ok {
			continue
		}
		idx := g.StationIndex(lineID, stationID)
		if idx < 0 {
			continue
		}
		if idx > 0 {
			hops = append(hops, Hop{Station: g.stations[line.StationIDs[idx-1]], Line: line})
		}
		if idx < len(line.StationIDs)-1 {
			hops = append(hops, Hop{Station: g.stations[line.StationIDs[idx+1]], Line: line})
		}
		if excludeLineID != "" {
			edge := g.transferEdge(stationID, excludeLineID, lineID)
			hops = append(hops, Hop{Station: station, Line: line, Transfer: &edge})
		}
	}
	return hops, nil
}

func (g *Graph) transferEdge(stationID, fromLine, toLine string) models.TransferEdge {
	for _, t := range g.transfers[stationID] {
		if (t.FromLineID == fromLine && t.ToLineID == toLine) ||
			(t.FromLineID == toLine && t.ToLineID == fromLine) {
			return t
		}
	}
	return models.NewTransferEdge(stationID, fromLine, toLine, g.TransferTime(stationID))
}

// HopCount returns the number of stops between two stations on a line in
// canonical order, negative when b precedes a, or an error when either
// station is not on the line.
func (g *Graph) HopCount(lineID, a, b string) (int, error) {
	ai := g.StationIndex(lineID, a)
	bi := g.StationIndex(lineID, b)
	if ai < 0 || bi < 0 {
		return 0, fmt.Errorf("line %s does not serve both %s and %s: %w", lineID, a, b, models.ErrUnknownStation)
	}
	return bi - ai, nil
}
