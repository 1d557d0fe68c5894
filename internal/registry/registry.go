// Package registry holds the catalog of task definitions for a round.
// The catalog is built once from configuration and never changes; the round
// state machine looks definitions up by kind and draws gameplay tasks from it.
package registry

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/ruff-day/internal/config"
	"github.com/vovakirdan/ruff-day/internal/core"
)

// Infinite marks a task that never times out.
const Infinite time.Duration = math.MaxInt64

// TaskKind identifies a phase of the round.
type TaskKind int

const (
	CPR TaskKind = iota
	PrecordialThump
	Pulse
	Start
	Success
	EndLose
	EndWin
	Invalid // No previous random pick. Never a live task.
)

// gameplayOrder is the fixed cyclic order used to step past a repeated pick.
var gameplayOrder = []TaskKind{CPR, PrecordialThump, Pulse}

// String returns a human-readable name for the kind.
func (k TaskKind) String() string {
	switch k {
	case CPR:
		return "CPR"
	case PrecordialThump:
		return "PrecordialThump"
	case Pulse:
		return "Pulse"
	case Start:
		return "Start"
	case Success:
		return "Success"
	case EndLose:
		return "EndLose"
	case EndWin:
		return "EndWin"
	default:
		return "Invalid"
	}
}

// Gameplay returns true for the kinds the player has to react to.
func (k TaskKind) Gameplay() bool {
	return k == CPR || k == PrecordialThump || k == Pulse
}

// End returns true for the round's terminal screens.
func (k TaskKind) End() bool {
	return k == EndLose || k == EndWin
}

// configKey maps a kind onto its entry in the config task table.
func (k TaskKind) configKey() string {
	switch k {
	case CPR:
		return config.TaskCPR
	case PrecordialThump:
		return config.TaskPrecordialThump
	case Pulse:
		return config.TaskPulse
	case Start:
		return config.TaskStart
	case Success:
		return config.TaskSuccess
	case EndLose:
		return config.TaskEndLose
	case EndWin:
		return config.TaskEndWin
	default:
		return ""
	}
}

// TaskDefinition is the immutable description of one task.
type TaskDefinition struct {
	Kind          TaskKind
	RequiredInput core.Input // InputNone for Success, which resolves on its own
	Clips         []string   // Candidate clip refs, one is picked per activation
	Image         string     // Image ref, empty hides the image
	BaseDuration  time.Duration
}

// Timed returns true if the task has a deadline.
func (d TaskDefinition) Timed() bool {
	return d.BaseDuration != Infinite
}

func (d TaskDefinition) clone() TaskDefinition {
	d.Clips = append([]string(nil), d.Clips...)
	return d
}

// Rand is the subset of *math/rand.Rand the registry needs.
type Rand interface {
	Intn(n int) int
}

// Registry is the fixed catalog of task definitions.
type Registry struct {
	defs     map[TaskKind]TaskDefinition
	gameplay []TaskKind
}

// New builds a registry from explicit definitions.
// Every kind except Invalid must appear exactly once and at least one
// gameplay kind is required.
func New(defs []TaskDefinition) (*Registry, error) {
	r := &Registry{defs: make(map[TaskKind]TaskDefinition, len(defs))}

	for _, d := range defs {
		if d.Kind < CPR || d.Kind >= Invalid {
			return nil, fmt.Errorf("registry: invalid task kind %d", d.Kind)
		}
		if _, exists := r.defs[d.Kind]; exists {
			return nil, fmt.Errorf("registry: task %s defined twice", d.Kind)
		}
		if d.Kind != Success && d.RequiredInput == core.InputNone {
			return nil, fmt.Errorf("registry: task %s needs a required input", d.Kind)
		}
		if d.BaseDuration <= 0 {
			return nil, fmt.Errorf("registry: task %s needs a positive duration", d.Kind)
		}
		r.defs[d.Kind] = d.clone()
	}

	for _, k := range gameplayOrder {
		if _, ok := r.defs[k]; ok {
			r.gameplay = append(r.gameplay, k)
		}
	}
	if len(r.gameplay) == 0 {
		return nil, fmt.Errorf("registry: no gameplay tasks defined")
	}

	for _, k := range []TaskKind{Start, Success, EndLose, EndWin} {
		if _, ok := r.defs[k]; !ok {
			return nil, fmt.Errorf("registry: task %s is missing", k)
		}
	}

	return r, nil
}

// FromConfig builds the standard registry from configuration.
// Gameplay tasks last fail_time, Success lasts success_time and the title and
// end screens never time out.
func FromConfig(cfg config.Config) (*Registry, error) {
	defs := make([]TaskDefinition, 0, int(Invalid))

	for k := CPR; k < Invalid; k++ {
		tc, ok := cfg.Tasks[k.configKey()]
		if !ok {
			return nil, fmt.Errorf("registry: config has no task %q", k.configKey())
		}

		input, err := core.ParseInput(tc.Input)
		if err != nil {
			return nil, fmt.Errorf("registry: task %q: %w", k.configKey(), err)
		}

		duration := Infinite
		switch {
		case k.Gameplay():
			duration = cfg.Timing.FailTime
		case k == Success:
			duration = cfg.Timing.SuccessTime
		}

		defs = append(defs, TaskDefinition{
			Kind:          k,
			RequiredInput: input,
			Clips:         tc.Clips,
			Image:         tc.Image,
			BaseDuration:  duration,
		})
	}

	return New(defs)
}

// Definition returns the definition for a kind.
// Panics on a kind the registry does not hold.
func (r *Registry) Definition(kind TaskKind) TaskDefinition {
	d, ok := r.defs[kind]
	if !ok {
		panic(fmt.Sprintf("registry: no definition for task %s", kind))
	}
	return d.clone()
}

// GameplayKinds returns the gameplay kinds in cyclic order.
func (r *Registry) GameplayKinds() []TaskKind {
	return append([]TaskKind(nil), r.gameplay...)
}

// RandomGameplay picks a gameplay task uniformly, never returning excluding
// when another kind exists. A repeated pick steps to the next kind in cyclic
// order instead of drawing again.
func (r *Registry) RandomGameplay(rng Rand, excluding TaskKind) TaskDefinition {
	n := len(r.gameplay)
	i := rng.Intn(n)
	if i < 0 || i >= n {
		panic(fmt.Sprintf("registry: random index %d out of range [0, %d)", i, n))
	}

	if n > 1 && r.gameplay[i] == excluding {
		i = (i + 1) % n
	}
	return r.defs[r.gameplay[i]].clone()
}

// NextGameplay returns the gameplay task after the given kind in cyclic order.
// A kind outside the gameplay set yields the first gameplay task.
func (r *Registry) NextGameplay(after TaskKind) TaskDefinition {
	for i, k := range r.gameplay {
		if k == after {
			return r.defs[r.gameplay[(i+1)%len(r.gameplay)]].clone()
		}
	}
	return r.defs[r.gameplay[0]].clone()
}
