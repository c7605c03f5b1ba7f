// Package rubikscube provides a fast 3x3 Rubik's cube simulator designed for
// reinforcement learning environments.
//
// # Features
//
//   - Cubie-level state (8 corners, 12 edges) with permutation and orientation
//   - Quarter-turn (12 actions) and half-turn (18 actions) metrics
//   - Allocation-free turn, solved check and 480-entry one-hot observation
//   - Seedable scrambles for reproducible training runs
//   - Facelet rendering for debugging
//
// # Quick Start
//
//	cube, err := rubikscube.New(rubikscube.HalfTurn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	src := rubikscube.NewSource(42)
//	if _, err := rubikscube.Scramble(cube, src, 1000); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := cube.Turn(0); err != nil { // U
//	    log.Fatal(err)
//	}
//	obs := cube.Representation()
//	fmt.Println("Solved:", cube.Solved(), "bits:", obs.Sum())
//
// # Action Ids
//
// Action ids are dense and stable. Faces are ordered U, D, F, B, R, L:
//
//	0..5    U  D  F  B  R  L   (clockwise)
//	6..11   U' D' F' B' R' L'  (counter-clockwise)
//	12..17  U2 D2 F2 B2 R2 L2  (half-turn metric only)
//
// # Predefined Moves
//
// The package provides predefined moves for convenience:
//
//	rubikscube.R      // Right clockwise
//	rubikscube.RPrime // Right counter-clockwise
//	rubikscube.R2     // Right 180
//	// ... and similarly for L, U, D, F, B
//
// # Observation Layout
//
// Corner slot i owns entries [24i, 24i+24) and sets index 24i + 3*piece + ori.
// Edge slot j owns entries [192+24j, 192+24j+24) and sets index
// 192 + 24j + 2*piece + ori. Exactly one entry per block is 1.
package rubikscube
