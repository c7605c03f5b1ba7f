package rubikscube

// Observation layout. Corner slot i occupies 24 entries starting at 24*i and
// sets entry 3*piece+twist. Edge slot j occupies 24 entries starting at
// 192+24*j and sets entry 2*piece+flip.
const (
	cornerBlock = NumCorners * 3 // piece x twist choices per corner slot
	edgeBlock   = NumEdges * 2   // piece x flip choices per edge slot

	edgeOffset = NumCorners * cornerBlock

	// ObservationSize is the length of the one-hot encoding.
	ObservationSize = edgeOffset + NumEdges*edgeBlock
)

// Observation is the one-hot encoding of a cube state. It has exactly 20
// entries set to 1, one per cubie slot.
type Observation [ObservationSize]uint8

// Representation returns the one-hot encoding of the current state.
func (c *Cube) Representation() Observation {
	var obs Observation
	c.state.encode(&obs)
	return obs
}

// AppendRepresentation appends the encoding to dst, so batches of
// observations can share one backing slice.
func (c *Cube) AppendRepresentation(dst []uint8) []uint8 {
	var obs Observation
	c.state.encode(&obs)
	return append(dst, obs[:]...)
}

func (s *State) encode(obs *Observation) {
	for i := 0; i < NumCorners; i++ {
		obs[cornerBlock*i+3*int(s.CornerPerm[i])+int(s.CornerOri[i])] = 1
	}
	for j := 0; j < NumEdges; j++ {
		obs[edgeOffset+edgeBlock*j+2*int(s.EdgePerm[j])+int(s.EdgeOri[j])] = 1
	}
}

// Sum returns the number of set entries.
func (o *Observation) Sum() int {
	n := 0
	for _, v := range o {
		n += int(v)
	}
	return n
}

// Decode recovers the state encoded in o. It fails with ErrInvalidState
// unless every slot has exactly one set entry and the result is well formed.
func (o *Observation) Decode() (State, error) {
	var s State
	for i := 0; i < NumCorners; i++ {
		k, err := hot(o[cornerBlock*i : cornerBlock*(i+1)])
		if err != nil {
			return State{}, err
		}
		s.CornerPerm[i], s.CornerOri[i] = uint8(k/3), uint8(k%3)
	}
	for j := 0; j < NumEdges; j++ {
		base := edgeOffset + edgeBlock*j
		k, err := hot(o[base : base+edgeBlock])
		if err != nil {
			return State{}, err
		}
		s.EdgePerm[j], s.EdgeOri[j] = uint8(k/2), uint8(k%2)
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

func hot(block []uint8) (int, error) {
	idx := -1
	for k, v := range block {
		switch v {
		case 0:
		case 1:
			if idx >= 0 {
				return -1, ErrInvalidState
			}
			idx = k
		default:
			return -1, ErrInvalidState
		}
	}
	if idx < 0 {
		return -1, ErrInvalidState
	}
	return idx, nil
}
