// Package jsonfile reads the startup seed and writes the shutdown snapshot
// as JSON files.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
)

type SeedCourier struct {
	ID            int64      `json:"id"`
	Location      [2]float64 `json:"location"`
	TransportType string     `json:"transport_type"`
	MaxCapacity   float64    `json:"max_capacity"`
	Name          string     `json:"name"`
}

type SeedOrder struct {
	ID          int64      `json:"id"`
	Destination [2]float64 `json:"destination"`
	Weight      float64    `json:"weight"`
	Priority    string     `json:"priority"`
	TimeWindow  string     `json:"time_window"`
	Description string     `json:"description"`
}

type Seed struct {
	Couriers []SeedCourier `json:"couriers"`
	Orders   []SeedOrder   `json:"orders"`
}

// LoadSeed reads path. When the file is missing or not valid JSON it returns
// DefaultSeed together with the error, so the caller can log and go on.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSeed(), fmt.Errorf("read seed %s: %w", path, err)
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return DefaultSeed(), fmt.Errorf("decode seed %s: %w", path, err)
	}
	return seed, nil
}

// DefaultSeed is the built-in data set: two couriers near the Kremlin and
// two orders.
func DefaultSeed() Seed {
	return Seed{
		Couriers: []SeedCourier{
			{ID: 1, Location: [2]float64{55.751244, 37.618423}, TransportType: "car", MaxCapacity: 50, Name: "Иван Петров"},
			{ID: 2, Location: [2]float64{55.754407, 37.620223}, TransportType: "bicycle", MaxCapacity: 15, Name: "Анна Сидорова"},
		},
		Orders: []SeedOrder{
			{
				ID: 101, Destination: [2]float64{55.753605, 37.621585}, Weight: 5, Priority: "high",
				TimeWindow: "10:00-12:00", Description: "Срочный документ",
			},
			{
				ID: 102, Destination: [2]float64{55.749676, 37.623483}, Weight: 2, Priority: "normal",
				TimeWindow: "11:00-14:00", Description: "Посылка с одеждой",
			},
		},
	}
}
