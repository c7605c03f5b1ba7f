package server

import (
	"encoding/json"
	"errors"

	"github.com/SeamusWaldron/rubikscube"
	"github.com/SeamusWaldron/rubikscube/env"
)

// Msg is the envelope of every frame in both directions.
type Msg struct {
	T string          `json:"t"`           // type
	M json.RawMessage `json:"m,omitempty"` // payload
}

// Request types.
const (
	TypeReset  = "reset"
	TypeStep   = "step"
	TypeRender = "render"
	TypeSpec   = "spec"
)

// Response types.
const (
	TypeObs   = "obs"
	TypeError = "error"
)

// Error codes.
const (
	CodeOutOfRange  = "OUT_OF_RANGE"
	CodeBadRequest  = "BAD_REQUEST"
	CodeUnknownType = "UNKNOWN_TYPE"
	CodeInternal    = "INTERNAL"
)

// StepRequest is the payload of a step request.
type StepRequest struct {
	Action *int `json:"action"`
}

// ObsResponse answers reset and step.
type ObsResponse struct {
	Obs    rubikscube.Observation `json:"obs"`
	Reward float64                `json:"reward"`
	Done   bool                   `json:"done"`
	Info   env.Info               `json:"info"`
}

// RenderResponse carries the facelet net.
type RenderResponse struct {
	Text string `json:"text"`
}

// SpecResponse describes the action and observation spaces.
type SpecResponse struct {
	Metric  string   `json:"metric"`
	Actions int      `json:"actions"`
	ObsSize int      `json:"obs_size"`
	Moves   []string `json:"moves"`
}

// ErrorResponse reports a rejected request. The connection stays open.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func reply(t string, payload any) Msg {
	data, err := json.Marshal(payload)
	if err != nil {
		return errorMsg(CodeInternal, err.Error())
	}
	return Msg{T: t, M: data}
}

func errorMsg(code, message string) Msg {
	data, _ := json.Marshal(ErrorResponse{Code: code, Message: message})
	return Msg{T: TypeError, M: data}
}

// handle applies one request to e and builds the response.
func handle(e *env.Env, in Msg) Msg {
	switch in.T {
	case TypeReset:
		obs, info, err := e.Reset()
		if err != nil {
			return errorMsg(CodeInternal, err.Error())
		}
		return reply(TypeObs, ObsResponse{Obs: obs, Info: info})

	case TypeStep:
		var req StepRequest
		if len(in.M) == 0 || json.Unmarshal(in.M, &req) != nil || req.Action == nil {
			return errorMsg(CodeBadRequest, "step requires {\"action\": <int>}")
		}
		obs, reward, done, info, err := e.Step(*req.Action)
		if errors.Is(err, rubikscube.ErrOutOfRange) {
			return errorMsg(CodeOutOfRange, err.Error())
		}
		if err != nil {
			return errorMsg(CodeInternal, err.Error())
		}
		return reply(TypeObs, ObsResponse{Obs: obs, Reward: reward, Done: done, Info: info})

	case TypeRender:
		return reply(TypeRender, RenderResponse{Text: e.Render()})

	case TypeSpec:
		m := e.Cube().Metric()
		moves := make([]string, m.MoveCount())
		for a := range moves {
			mv, _ := m.MoveAt(a)
			moves[a] = mv.Notation()
		}
		return reply(TypeSpec, SpecResponse{
			Metric:  m.Kind().String(),
			Actions: e.ActionSpace(),
			ObsSize: e.ObservationSize(),
			Moves:   moves,
		})

	default:
		return errorMsg(CodeUnknownType, "unknown message type "+in.T)
	}
}
