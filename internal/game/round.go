// Package game implements the round state machine.
//
// A Round is driven by the host: Initialize once, then Tick every frame with
// the elapsed time and the input sampled for that frame. The round never
// touches the terminal or the speaker itself; every side effect comes back as
// a Command for the host to apply.
package game

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ruff-day/internal/config"
	"github.com/vovakirdan/ruff-day/internal/core"
	"github.com/vovakirdan/ruff-day/internal/registry"
)

// Phase is the coarse state of the round.
type Phase int

const (
	PhaseStart Phase = iota
	PhasePlaying
	PhaseSuccess
	PhaseEndLose
	PhaseEndWin
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhasePlaying:
		return "playing"
	case PhaseSuccess:
		return "success"
	case PhaseEndLose:
		return "end_lose"
	case PhaseEndWin:
		return "end_win"
	default:
		return "unknown"
	}
}

// Outcome values reported once the round reaches an end screen.
const (
	OutcomeWin  = "win"
	OutcomeLose = "lose"
)

// Hand is the clock prop state.
type Hand struct {
	Enabled bool
	Angle   float64
}

// Options configures a Round.
type Options struct {
	Config   config.Config
	Registry *registry.Registry // Built from Config when nil
	Prefs    Prefs              // High score store, nil keeps it in memory
	Rand     registry.Rand      // Seeded from Seed when nil
	Seed     int64
	Logger   *log.Logger // Discards when nil
}

// Round is one player's game. Not safe for concurrent use.
type Round struct {
	cfg    config.Config
	reg    *registry.Registry
	prefs  Prefs
	rng    registry.Rand
	logger *log.Logger

	initialized bool

	now       time.Duration
	task      registry.TaskDefinition
	taskStart time.Duration
	lastKind  registry.TaskKind

	score        int
	highScore    int
	winThreshold int
	reduction    time.Duration

	displayClearAt time.Duration
	displaying     bool

	hand Hand

	out []Command
}

// New creates a round. The registry is built from opts.Config when not given.
func New(opts Options) (*Round, error) {
	reg := opts.Registry
	if reg == nil {
		var err error
		reg, err = registry.FromConfig(opts.Config)
		if err != nil {
			return nil, err
		}
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	threshold := opts.Config.Scoring.WinThreshold
	if threshold < opts.Config.Scoring.MinWinThreshold {
		threshold = opts.Config.Scoring.MinWinThreshold
	}

	return &Round{
		cfg:          opts.Config,
		reg:          reg,
		prefs:        opts.Prefs,
		rng:          rng,
		logger:       logger,
		task:         registry.TaskDefinition{Kind: registry.Invalid, BaseDuration: registry.Infinite},
		lastKind:     registry.Invalid,
		winThreshold: threshold,
		hand:         Hand{Angle: opts.Config.Clock.ZeroAngle},
	}, nil
}

// Initialize loads the high score and shows the title screen.
// Calling it again logs an error and does nothing.
func (r *Round) Initialize() []Command {
	if r.initialized {
		r.logger.Error("round already initialized")
		return nil
	}
	r.initialized = true
	r.highScore = r.loadHighScore()

	r.out = nil
	r.enter(r.reg.Definition(registry.Start))
	return r.flush()
}

// Tick advances the round clock by dt and applies one frame of input.
func (r *Round) Tick(dt time.Duration, in core.InputFrame) []Command {
	if !r.initialized {
		r.logger.Error("tick before initialize")
		return nil
	}
	if dt < 0 {
		dt = 0
	}
	r.now += dt
	r.out = nil

	r.checkTimeout(in)
	r.adjustThreshold(in)
	r.matchInput(in)

	if in.Pressed(core.InputRestart) {
		r.enter(r.reg.Definition(registry.Start))
	}

	if r.task.Kind.End() && r.Elapsed() > r.cfg.Timing.EndIdleTimeout {
		r.enter(r.reg.Definition(registry.Start))
	}

	if in.Pressed(core.InputResetHighScore) {
		r.resetHighScore()
	}

	r.advanceHand(dt)
	r.expireDisplay()

	if in.Pressed(core.InputQuit) {
		r.emit(Quit{})
	}

	return r.flush()
}

func (r *Round) checkTimeout(in core.InputFrame) {
	if !r.task.Timed() {
		return
	}

	elapsed := r.Elapsed()
	switch {
	case r.task.Kind == registry.Success:
		if elapsed > r.task.BaseDuration {
			r.enterRandom(in)
		}
	case r.task.Kind.Gameplay():
		if elapsed > r.EffectiveDeadline() {
			r.enter(r.reg.Definition(registry.EndLose))
		}
	}
}

func (r *Round) adjustThreshold(in core.InputFrame) {
	up := in.Pressed(core.InputThresholdUp)
	down := in.Pressed(core.InputThresholdDown)
	if !up && !down {
		return
	}

	if up {
		r.winThreshold++
	}
	if down && r.winThreshold > r.cfg.Scoring.MinWinThreshold {
		r.winThreshold--
	}

	r.displayClearAt = r.now + r.cfg.Timing.ThresholdDisplay
	r.displaying = true
	r.emit(SetOverlayText{Text: r.thresholdNotice()})
}

func (r *Round) matchInput(in core.InputFrame) {
	req := r.task.RequiredInput
	if req == core.InputNone || !in.Pressed(req) || in.Held(core.InputSuppressor) {
		return
	}
	if r.Elapsed() <= r.cfg.Timing.InputDebounce {
		return
	}

	switch {
	case r.task.Kind == registry.Start || r.task.Kind.End():
		r.score = 0
		r.reduction = 0
		r.enterRandom(in)
	case r.task.Kind.Gameplay():
		r.score++
		if r.score >= r.winThreshold {
			r.enter(r.reg.Definition(registry.EndWin))
			return
		}
		r.addReduction()
		r.enter(r.reg.Definition(registry.Success))
	}
}

// addReduction shrinks the deadline, never below the minimum fail time.
func (r *Round) addReduction() {
	r.reduction += r.cfg.Timing.FailTimeReduceRate
	if limit := r.cfg.Timing.FailTime - r.cfg.Timing.MinimumFailTime; r.reduction > limit {
		r.reduction = limit
	}
}

// enterRandom activates a gameplay task other than the previous pick.
// Pulse is skipped while its input is already held.
func (r *Round) enterRandom(in core.InputFrame) {
	def := r.reg.RandomGameplay(r.rng, r.lastKind)
	if def.Kind == registry.Pulse && in.Held(def.RequiredInput) {
		next := r.reg.NextGameplay(def.Kind)
		if next.Kind == r.lastKind {
			next = r.reg.NextGameplay(next.Kind)
		}
		def = next
	}
	r.lastKind = def.Kind
	r.enter(def)
}

// enter is the single activation step for every task.
func (r *Round) enter(def registry.TaskDefinition) {
	from := r.task.Kind
	r.task = def
	r.taskStart = r.now

	if r.cfg.Audio.Enabled && len(def.Clips) > 0 {
		r.emit(PlayClip{
			Clip:   def.Clips[r.rng.Intn(len(def.Clips))],
			Volume: r.clipVolume(),
			Pitch:  r.clipPitch(),
		})
	}

	r.emit(SetImage{Image: def.Image})

	playing := def.Kind.Gameplay()
	r.hand.Enabled = playing
	r.emit(SetPropEnabled{Prop: PropClockHand, Enabled: playing})
	r.emit(SetPropEnabled{Prop: PropClockFace, Enabled: playing})
	if playing {
		r.hand.Angle = core.WrapAngle(r.cfg.Clock.ZeroAngle)
		r.emit(SetPropRotation{Prop: PropClockHand, Angle: r.hand.Angle})
	}

	if def.Kind.End() {
		r.captureHighScore()
	}

	r.logger.Debug("task transition",
		"from", from,
		"to", def.Kind,
		"score", r.score,
		"reduction", r.reduction,
	)
}

func (r *Round) clipVolume() float64 {
	if r.task.Kind == registry.EndLose {
		return r.cfg.Audio.EndLoseVolume
	}
	return 1
}

// clipPitch rises with the deadline reduction once it passes the ramp start.
func (r *Round) clipPitch() float64 {
	if !r.task.Kind.Gameplay() {
		return 1
	}

	a := r.cfg.Audio
	span := r.cfg.Timing.FailTime - r.cfg.Timing.MinimumFailTime - a.PitchRampStart
	if span <= 0 {
		if r.reduction > a.PitchRampStart {
			return a.MaxPitch
		}
		return 1
	}

	t := float64(r.reduction-a.PitchRampStart) / float64(span)
	return core.Lerp(1, a.MaxPitch, t)
}

func (r *Round) advanceHand(dt time.Duration) {
	if !r.hand.Enabled || !r.task.Timed() {
		return
	}

	deadline := r.EffectiveDeadline()
	elapsed := r.Elapsed()
	// A task activated this tick starts from the zero angle.
	if dt > elapsed {
		dt = elapsed
	}
	if dt <= 0 {
		return
	}

	zero := core.WrapAngle(r.cfg.Clock.ZeroAngle)
	angle := core.WrapAngle(r.hand.Angle - 360*float64(dt)/float64(deadline))
	if elapsed > deadline/2 && angle < zero {
		angle = zero
	}
	r.hand.Angle = angle
	r.emit(SetPropRotation{Prop: PropClockHand, Angle: angle})
}

func (r *Round) expireDisplay() {
	if r.displaying && r.now >= r.displayClearAt {
		r.displaying = false
		r.emit(SetOverlayText{})
	}
}

func (r *Round) loadHighScore() int {
	if r.prefs == nil {
		return 0
	}
	v, ok, err := r.prefs.Int(HighScoreKey)
	if err != nil {
		r.logger.Warn("failed to load high score", "err", err)
		return 0
	}
	if !ok || v < 0 {
		return 0
	}
	return v
}

func (r *Round) captureHighScore() {
	if r.score <= r.highScore {
		return
	}
	r.highScore = r.score
	if r.prefs == nil {
		return
	}
	// Another session may have stored a better score since this one loaded
	stored, err := r.prefs.RaiseInt(HighScoreKey, r.score)
	if err != nil {
		r.logger.Warn("failed to save high score", "score", r.score, "err", err)
		return
	}
	r.highScore = stored
}

func (r *Round) resetHighScore() {
	r.highScore = 0
	if r.prefs == nil {
		return
	}
	if err := r.prefs.DeleteAll(); err != nil {
		r.logger.Warn("failed to reset high score", "err", err)
	}
	r.logger.Info("high score reset")
}

func (r *Round) emit(c Command) {
	r.out = append(r.out, c)
}

func (r *Round) flush() []Command {
	out := r.out
	r.out = nil
	return out
}

// Phase returns the coarse state of the round.
func (r *Round) Phase() Phase {
	switch k := r.task.Kind; {
	case k.Gameplay():
		return PhasePlaying
	case k == registry.Success:
		return PhaseSuccess
	case k == registry.EndLose:
		return PhaseEndLose
	case k == registry.EndWin:
		return PhaseEndWin
	default:
		return PhaseStart
	}
}

// Task returns the current task definition.
func (r *Round) Task() registry.TaskDefinition { return r.task }

func (r *Round) Score() int        { return r.score }
func (r *Round) HighScore() int    { return r.highScore }
func (r *Round) WinThreshold() int { return r.winThreshold }

// FailTimeReduction returns the accumulated deadline shrink.
func (r *Round) FailTimeReduction() time.Duration { return r.reduction }

// EffectiveDeadline returns the current task's time budget.
// Untimed tasks report registry.Infinite.
func (r *Round) EffectiveDeadline() time.Duration {
	if !r.task.Timed() {
		return registry.Infinite
	}
	if !r.task.Kind.Gameplay() {
		return r.task.BaseDuration
	}
	d := r.task.BaseDuration - r.reduction
	if d < r.cfg.Timing.MinimumFailTime {
		d = r.cfg.Timing.MinimumFailTime
	}
	return d
}

// Elapsed returns the time spent in the current task.
func (r *Round) Elapsed() time.Duration { return r.now - r.taskStart }

// Remaining returns the time left before the current task times out.
func (r *Round) Remaining() time.Duration {
	if !r.task.Timed() {
		return registry.Infinite
	}
	left := r.EffectiveDeadline() - r.Elapsed()
	if left < 0 {
		return 0
	}
	return left
}

// Outcome returns OutcomeWin or OutcomeLose on an end screen, empty otherwise.
func (r *Round) Outcome() string {
	switch r.task.Kind {
	case registry.EndWin:
		return OutcomeWin
	case registry.EndLose:
		return OutcomeLose
	default:
		return ""
	}
}

// Hand returns the clock hand state.
func (r *Round) Hand() Hand { return r.hand }

// Now returns the round clock.
func (r *Round) Now() time.Duration { return r.now }
