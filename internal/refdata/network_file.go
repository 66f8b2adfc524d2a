package refdata

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"railalert.transitlab.org/internal/models"
)

// NetworkFile is the YAML companion to the GTFS feed. It carries what GTFS
// does not: transfer edges with their minimum buffers, the network-wide
// default buffer, and hand-maintained lines for operators without a feed.
type NetworkFile struct {
	DefaultTransferMinutes int             `yaml:"default_transfer_minutes" validate:"gte=0,lte=60"`
	Transfers              []TransferEntry `yaml:"transfers"`
	ExtraLines             []LineEntry     `yaml:"extra_lines"`
	ExtraStations          []StationEntry  `yaml:"extra_stations"`
}

type TransferEntry struct {
	Station string `yaml:"station" validate:"required"`
	From    string `yaml:"from" validate:"required"`
	To      string `yaml:"to" validate:"required"`
	Minutes int    `yaml:"minutes" validate:"gte=1,lte=60"`
}

type LineEntry struct {
	ID       string   `yaml:"id" validate:"required"`
	Name     string   `yaml:"name" validate:"required"`
	Stations []string `yaml:"stations" validate:"required,min=2"`
}

type StationEntry struct {
	ID    string   `yaml:"id" validate:"required"`
	Name  string   `yaml:"name" validate:"required"`
	Lat   float64  `yaml:"lat"`
	Lon   float64  `yaml:"lon"`
	Lines []string `yaml:"lines"`
}

// LoadNetworkFile reads and validates the YAML network file.
func LoadNetworkFile(path string) (*NetworkFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading network file: %w", err)
	}

	var file NetworkFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing network file: %w", err)
	}

	v := validator.New()
	if err := v.Struct(file); err != nil {
		return nil, fmt.Errorf("validating network file: %w", err)
	}
	for _, t := range file.Transfers {
		if err := v.Struct(t); err != nil {
			return nil, fmt.Errorf("validating transfer at %s: %w", t.Station, err)
		}
	}
	for _, l := range file.ExtraLines {
		if err := v.Struct(l); err != nil {
			return nil, fmt.Errorf("validating line %s: %w", l.ID, err)
		}
	}
	for _, s := range file.ExtraStations {
		if err := v.Struct(s); err != nil {
			return nil, fmt.Errorf("validating station %s: %w", s.ID, err)
		}
	}
	return &file, nil
}

// Merge applies the network file on top of a GTFS-derived network.
func (f *NetworkFile) Merge(network models.Network) models.Network {
	network.DefaultTransferMinutes = f.DefaultTransferMinutes
	for _, t := range f.Transfers {
		network.Transfers = append(network.Transfers,
			models.NewTransferEdge(t.Station, t.From, t.To, t.Minutes))
	}
	for _, s := range f.ExtraStations {
		network.Stations = append(network.Stations,
			models.NewStation(s.ID, s.Name, s.Lat, s.Lon, s.Lines))
	}
	for _, l := range f.ExtraLines {
		network.Lines = append(network.Lines,
			models.NewLine(l.ID, l.Name, l.Stations))
	}
	return network
}
