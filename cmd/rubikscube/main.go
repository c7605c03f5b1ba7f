// rubikscube - CLI for benchmarking, rolling out and serving Rubik's cube
// RL environments.
package main

import (
	"github.com/SeamusWaldron/rubikscube/internal/cli"
)

func main() {
	cli.Execute()
}
