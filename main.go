// Package main is the entry point for the wardmap CLI, which fetches Dota 2 match
// telemetry and replays team ward and smoke placements on the minimap.
package main

import "github.com/pable/go-ward-overlay/cmd"

func main() {
	cmd.Execute()
}
