package domain

import "time"

type Port struct {
	Name      string `json:"name"`
	Service   string `json:"service"`
	Port      int    `json:"port"`
	Protocol  string `json:"protocol"`
	Mandatory bool   `json:"mandatory"`
} // @name Port

// AugmentedPort is a declared host port together with its last
// observed reachability.
type AugmentedPort struct {
	Port      `json:"port"`
	Open      bool      `json:"open"`
	CheckedAt time.Time `json:"checked_at"`
} // @name AugmentedPort
