// Package docker defines the container domain types DevDeck reports on.
package docker

// Container is one row of a container listing.
type Container struct {
	ID      string `json:"id"`
	Image   string `json:"image"`
	Command string `json:"command"`
	Created string `json:"created"`
	Status  string `json:"status"`
	Ports   string `json:"ports"`
	Names   string `json:"names"`
}

// Running reports whether the container status line indicates a running
// container.
func (c Container) Running() bool {
	return len(c.Status) >= 2 && c.Status[:2] == "Up"
}

// Image is one row of an image listing.
type Image struct {
	Repository string `json:"repository"`
	Tag        string `json:"tag"`
	ID         string `json:"id"`
	Created    string `json:"created"`
	Size       string `json:"size"`
}

// EngineStatus reports daemon reachability as seen through the probe cache
// and circuit breaker.
type EngineStatus struct {
	Available bool   `json:"available"`
	Breaker   string `json:"breaker"`
}
