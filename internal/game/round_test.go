package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/ruff-day/internal/config"
	"github.com/vovakirdan/ruff-day/internal/core"
	"github.com/vovakirdan/ruff-day/internal/registry"
)

// fixedRand cycles through a scripted sequence, reduced modulo n.
type fixedRand struct {
	seq []int
	pos int
}

func (f *fixedRand) Intn(n int) int {
	v := f.seq[f.pos%len(f.seq)]
	f.pos++
	return v % n
}

type fakePrefs struct {
	vals    map[string]int
	err     error
	deleted int
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{vals: make(map[string]int)}
}

func (p *fakePrefs) Int(key string) (int, bool, error) {
	if p.err != nil {
		return 0, false, p.err
	}
	v, ok := p.vals[key]
	return v, ok, nil
}

func (p *fakePrefs) RaiseInt(key string, v int) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	if cur, ok := p.vals[key]; ok && cur > v {
		return cur, nil
	}
	p.vals[key] = v
	return v, nil
}

func (p *fakePrefs) DeleteAll() error {
	p.deleted++
	if p.err != nil {
		return p.err
	}
	p.vals = make(map[string]int)
	return nil
}

func newTestRound(t *testing.T, opts Options) *Round {
	t.Helper()
	if opts.Config.Tasks == nil {
		opts.Config = config.DefaultConfig()
	}
	r, err := New(opts)
	require.NoError(t, err)
	require.NotEmpty(t, r.Initialize())
	return r
}

func press(inputs ...core.Input) core.InputFrame {
	f := core.NewInputFrame()
	for _, in := range inputs {
		f.Press(in)
	}
	return f
}

var idle = core.NewInputFrame()

// begin leaves the title screen.
func begin(t *testing.T, r *Round) {
	t.Helper()
	r.Tick(400*time.Millisecond, press(core.InputThump))
	require.Equal(t, PhasePlaying, r.Phase())
}

// answer presses the current task's input after the debounce window.
func answer(t *testing.T, r *Round) []Command {
	t.Helper()
	require.Equal(t, PhasePlaying, r.Phase())
	return r.Tick(400*time.Millisecond, press(r.Task().RequiredInput))
}

// succeed answers the current task and waits out the success screen.
func succeed(t *testing.T, r *Round) []Command {
	t.Helper()
	answer(t, r)
	require.Equal(t, PhaseSuccess, r.Phase())
	cmds := r.Tick(1100*time.Millisecond, idle)
	require.Equal(t, PhasePlaying, r.Phase())
	return cmds
}

func findClip(cmds []Command) (PlayClip, bool) {
	for _, c := range cmds {
		if pc, ok := c.(PlayClip); ok {
			return pc, true
		}
	}
	return PlayClip{}, false
}

func TestInitializeShowsTitle(t *testing.T) {
	r, err := New(Options{Config: config.DefaultConfig(), Seed: 1})
	require.NoError(t, err)

	cmds := r.Initialize()
	assert.Equal(t, PhaseStart, r.Phase())
	assert.Equal(t, registry.Start, r.Task().Kind)

	clip, ok := findClip(cmds)
	require.True(t, ok)
	assert.Equal(t, "start-1", clip.Clip)
	assert.Contains(t, cmds, SetPropEnabled{Prop: PropClockHand, Enabled: false})
	assert.Contains(t, cmds, SetPropEnabled{Prop: PropClockFace, Enabled: false})
}

func TestInitializeTwiceIsNoop(t *testing.T) {
	r := newTestRound(t, Options{})
	begin(t, r)

	assert.Nil(t, r.Initialize())
	assert.Equal(t, PhasePlaying, r.Phase())
}

func TestTickBeforeInitialize(t *testing.T) {
	r, err := New(Options{Config: config.DefaultConfig()})
	require.NoError(t, err)
	assert.Nil(t, r.Tick(time.Second, press(core.InputThump)))
	assert.Equal(t, time.Duration(0), r.Now())
}

func TestInitializeLoadsHighScore(t *testing.T) {
	prefs := newFakePrefs()
	prefs.vals[HighScoreKey] = 12

	r := newTestRound(t, Options{Prefs: prefs})
	assert.Equal(t, 12, r.HighScore())
}

func TestInitializeBrokenPrefs(t *testing.T) {
	prefs := newFakePrefs()
	prefs.err = errors.New("disk on fire")

	r := newTestRound(t, Options{Prefs: prefs})
	assert.Equal(t, 0, r.HighScore())
}

func TestStartToPlaying(t *testing.T) {
	r := newTestRound(t, Options{})

	r.Tick(310*time.Millisecond, press(core.InputThump))

	assert.Equal(t, PhasePlaying, r.Phase())
	assert.Equal(t, 0, r.Score())
	assert.Equal(t, time.Duration(0), r.FailTimeReduction())
	assert.Equal(t, time.Duration(0), r.Elapsed())
	assert.True(t, r.Hand().Enabled)
}

func TestDebounceBoundary(t *testing.T) {
	tests := []struct {
		name     string
		wait     time.Duration
		expected Phase
	}{
		{"too early", 290 * time.Millisecond, PhaseStart},
		{"exactly debounce", 300 * time.Millisecond, PhaseStart},
		{"after debounce", 310 * time.Millisecond, PhasePlaying},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRound(t, Options{})
			r.Tick(tc.wait, press(core.InputThump))
			assert.Equal(t, tc.expected, r.Phase())
		})
	}
}

func TestDebounceAppliesToNewTask(t *testing.T) {
	r := newTestRound(t, Options{})
	begin(t, r)

	r.Tick(200*time.Millisecond, press(r.Task().RequiredInput))
	assert.Equal(t, PhasePlaying, r.Phase())
	assert.Equal(t, 0, r.Score())
}

func TestWrongInputIgnored(t *testing.T) {
	r := newTestRound(t, Options{Rand: &fixedRand{seq: []int{0}}})
	begin(t, r)
	require.Equal(t, registry.CPR, r.Task().Kind)

	r.Tick(400*time.Millisecond, press(core.InputPulse))
	assert.Equal(t, PhasePlaying, r.Phase())
	assert.Equal(t, 0, r.Score())
}

func TestSuppressorBlocksMatch(t *testing.T) {
	r := newTestRound(t, Options{})

	f := press(core.InputThump)
	f.Hold(core.InputSuppressor)
	r.Tick(400*time.Millisecond, f)

	assert.Equal(t, PhaseStart, r.Phase())
}

func TestReachingThresholdWins(t *testing.T) {
	prefs := newFakePrefs()
	r := newTestRound(t, Options{Prefs: prefs})
	begin(t, r)

	for i := 0; i < 19; i++ {
		succeed(t, r)
	}
	require.Equal(t, 19, r.Score())
	require.Equal(t, 20, r.WinThreshold())

	answer(t, r)

	assert.Equal(t, 20, r.Score())
	assert.Equal(t, PhaseEndWin, r.Phase())
	assert.Equal(t, OutcomeWin, r.Outcome())
	assert.Equal(t, 20, r.HighScore())
	assert.Equal(t, 20, prefs.vals[HighScoreKey])
	assert.False(t, r.Hand().Enabled)
}

func TestTimeoutLosesAndSavesHighScore(t *testing.T) {
	prefs := newFakePrefs()
	prefs.vals[HighScoreKey] = 3
	r := newTestRound(t, Options{Prefs: prefs})
	begin(t, r)

	for i := 0; i < 5; i++ {
		succeed(t, r)
	}
	deadline := r.EffectiveDeadline()
	require.Equal(t, 4750*time.Millisecond, deadline)

	r.Tick(deadline, idle)
	require.Equal(t, PhasePlaying, r.Phase(), "deadline itself is still in time")

	cmds := r.Tick(time.Millisecond, idle)
	assert.Equal(t, PhaseEndLose, r.Phase())
	assert.Equal(t, OutcomeLose, r.Outcome())
	assert.Equal(t, 5, r.HighScore())
	assert.Equal(t, 5, prefs.vals[HighScoreKey])

	clip, ok := findClip(cmds)
	require.True(t, ok)
	assert.Equal(t, 0.5, clip.Volume)
}

func TestLowerScoreKeepsHighScore(t *testing.T) {
	prefs := newFakePrefs()
	prefs.vals[HighScoreKey] = 10
	r := newTestRound(t, Options{Prefs: prefs})
	begin(t, r)
	succeed(t, r)

	r.Tick(10*time.Second, idle)
	require.Equal(t, PhaseEndLose, r.Phase())
	assert.Equal(t, 10, r.HighScore())
	assert.Equal(t, 10, prefs.vals[HighScoreKey])
}

func TestSharedPrefsKeepsBestScore(t *testing.T) {
	prefs := newFakePrefs()
	a := newTestRound(t, Options{Prefs: prefs, Seed: 1})
	b := newTestRound(t, Options{Prefs: prefs, Seed: 2})
	begin(t, a)
	begin(t, b)

	for i := 0; i < 3; i++ {
		succeed(t, b)
	}
	b.Tick(10*time.Second, idle)
	require.Equal(t, PhaseEndLose, b.Phase())
	require.Equal(t, 3, prefs.vals[HighScoreKey])

	// a loaded the high score before b finished
	succeed(t, a)
	a.Tick(10*time.Second, idle)
	require.Equal(t, PhaseEndLose, a.Phase())
	assert.Equal(t, 3, prefs.vals[HighScoreKey], "lower score must not replace the stored one")
	assert.Equal(t, 3, a.HighScore(), "round adopts the stored best")
}

func TestSavingFailureIsIgnored(t *testing.T) {
	prefs := newFakePrefs()
	r := newTestRound(t, Options{Prefs: prefs})
	begin(t, r)
	succeed(t, r)

	prefs.err = errors.New("read-only")
	r.Tick(10*time.Second, idle)

	assert.Equal(t, PhaseEndLose, r.Phase())
	assert.Equal(t, 1, r.HighScore())
}

func TestReductionAccumulates(t *testing.T) {
	r := newTestRound(t, Options{})
	begin(t, r)

	for i := 0; i < 3; i++ {
		succeed(t, r)
	}

	assert.Equal(t, 750*time.Millisecond, r.FailTimeReduction())
	assert.Equal(t, 5250*time.Millisecond, r.EffectiveDeadline())
}

func TestDeadlineFloor(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scoring.WinThreshold = 100
	r := newTestRound(t, Options{Config: cfg})
	begin(t, r)

	for i := 0; i < 40; i++ {
		succeed(t, r)
		require.GreaterOrEqual(t, r.EffectiveDeadline(), 1500*time.Millisecond)
	}
	assert.Equal(t, 1500*time.Millisecond, r.EffectiveDeadline())
	assert.Equal(t, 4500*time.Millisecond, r.FailTimeReduction())
}

func TestRandomTasksNeverRepeat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scoring.WinThreshold = 500
	r := newTestRound(t, Options{Config: cfg, Seed: 99})
	begin(t, r)

	prev := r.Task().Kind
	for i := 0; i < 200; i++ {
		succeed(t, r)
		require.NotEqual(t, prev, r.Task().Kind, "task %d repeated", i)
		prev = r.Task().Kind
	}
}

func TestPulseGuard(t *testing.T) {
	// Index 2 is Pulse in cyclic order.
	t.Run("not held", func(t *testing.T) {
		r := newTestRound(t, Options{Rand: &fixedRand{seq: []int{2}}})
		r.Tick(400*time.Millisecond, press(core.InputThump))
		assert.Equal(t, registry.Pulse, r.Task().Kind)
	})

	t.Run("held", func(t *testing.T) {
		r := newTestRound(t, Options{Rand: &fixedRand{seq: []int{2}}})
		f := press(core.InputThump)
		f.Hold(core.InputPulse)
		r.Tick(400*time.Millisecond, f)
		assert.Equal(t, registry.CPR, r.Task().Kind)
	})

	t.Run("held skips previous kind", func(t *testing.T) {
		// CPR first, then a Pulse pick with Pulse held must not land on CPR again.
		r := newTestRound(t, Options{Rand: &fixedRand{seq: []int{0, 0, 0, 2}}})
		begin(t, r)
		require.Equal(t, registry.CPR, r.Task().Kind)

		answer(t, r)
		f := core.NewInputFrame()
		f.Hold(core.InputPulse)
		r.Tick(1100*time.Millisecond, f)
		assert.Equal(t, registry.PrecordialThump, r.Task().Kind)
	})
}

func TestSuccessAutoAdvance(t *testing.T) {
	r := newTestRound(t, Options{})
	begin(t, r)
	answer(t, r)
	require.Equal(t, PhaseSuccess, r.Phase())
	assert.False(t, r.Hand().Enabled)

	r.Tick(time.Second, idle)
	assert.Equal(t, PhaseSuccess, r.Phase())

	r.Tick(time.Millisecond, idle)
	assert.Equal(t, PhasePlaying, r.Phase())
	assert.Equal(t, 1, r.Score())
}

func TestEndIdleTimeout(t *testing.T) {
	r := newTestRound(t, Options{})
	begin(t, r)
	r.Tick(7*time.Second, idle)
	require.Equal(t, PhaseEndLose, r.Phase())

	r.Tick(25*time.Second, idle)
	assert.Equal(t, PhaseEndLose, r.Phase())

	r.Tick(time.Millisecond, idle)
	assert.Equal(t, PhaseStart, r.Phase())
}

func TestReplayFromEnd(t *testing.T) {
	r := newTestRound(t, Options{})
	begin(t, r)
	succeed(t, r)
	succeed(t, r)
	r.Tick(10*time.Second, idle)
	require.Equal(t, PhaseEndLose, r.Phase())

	r.Tick(400*time.Millisecond, press(core.InputThump))
	assert.Equal(t, PhasePlaying, r.Phase())
	assert.Equal(t, 0, r.Score())
	assert.Equal(t, time.Duration(0), r.FailTimeReduction())
}

func TestRestartFromAnyPhase(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, r *Round)
	}{
		{"start", func(t *testing.T, r *Round) {}},
		{"playing", func(t *testing.T, r *Round) { begin(t, r) }},
		{"success", func(t *testing.T, r *Round) {
			begin(t, r)
			answer(t, r)
		}},
		{"end", func(t *testing.T, r *Round) {
			begin(t, r)
			r.Tick(10*time.Second, idle)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRound(t, Options{})
			tc.setup(t, r)

			r.Tick(10*time.Millisecond, press(core.InputRestart))
			assert.Equal(t, PhaseStart, r.Phase())
			assert.False(t, r.Hand().Enabled)
		})
	}
}

func TestResetHighScore(t *testing.T) {
	prefs := newFakePrefs()
	prefs.vals[HighScoreKey] = 7
	r := newTestRound(t, Options{Prefs: prefs})
	require.Equal(t, 7, r.HighScore())

	r.Tick(0, press(core.InputResetHighScore))

	assert.Equal(t, 0, r.HighScore())
	assert.Equal(t, 1, prefs.deleted)
	_, ok := prefs.vals[HighScoreKey]
	assert.False(t, ok)
}

func TestQuit(t *testing.T) {
	r := newTestRound(t, Options{})
	cmds := r.Tick(0, press(core.InputQuit))
	assert.Contains(t, cmds, Quit{})
}

func TestThresholdAdjust(t *testing.T) {
	r := newTestRound(t, Options{})

	for i := 0; i < 5; i++ {
		r.Tick(10*time.Millisecond, press(core.InputThresholdUp))
	}
	assert.Equal(t, 25, r.WinThreshold())
	for i := 0; i < 5; i++ {
		r.Tick(10*time.Millisecond, press(core.InputThresholdDown))
	}
	assert.Equal(t, 20, r.WinThreshold())
	assert.Equal(t, PhaseStart, r.Phase(), "threshold keys never change the task")
}

func TestThresholdFloor(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scoring.WinThreshold = 2
	r := newTestRound(t, Options{Config: cfg})

	for i := 0; i < 5; i++ {
		r.Tick(0, press(core.InputThresholdDown))
	}
	assert.Equal(t, 1, r.WinThreshold())

	begin(t, r)
	answer(t, r)
	assert.Equal(t, PhaseEndWin, r.Phase(), "one success wins at threshold 1")
}

func TestThresholdNotice(t *testing.T) {
	r := newTestRound(t, Options{})

	cmds := r.Tick(0, press(core.InputThresholdUp))
	assert.Contains(t, cmds, SetOverlayText{Text: "Win score: 21"})
	assert.Equal(t, "Win score: 21", r.Render().Notice)

	cmds = r.Tick(999*time.Millisecond, idle)
	assert.NotContains(t, cmds, SetOverlayText{})
	assert.Equal(t, "Win score: 21", r.Render().Notice)

	// A second change pushes the clear time out.
	r.Tick(0, press(core.InputThresholdUp))
	cmds = r.Tick(500*time.Millisecond, idle)
	assert.NotContains(t, cmds, SetOverlayText{})
	assert.Equal(t, "Win score: 22", r.Render().Notice)

	cmds = r.Tick(500*time.Millisecond, idle)
	assert.Contains(t, cmds, SetOverlayText{})
	assert.Empty(t, r.Render().Notice)
}

func TestHighScoreNeverDecreases(t *testing.T) {
	prefs := newFakePrefs()
	r := newTestRound(t, Options{Prefs: prefs, Seed: 5})

	best := 0
	for game := 0; game < 4; game++ {
		r.Tick(400*time.Millisecond, press(core.InputThump))
		for i := 0; i < game*2; i++ {
			succeed(t, r)
		}
		r.Tick(10*time.Second, idle)
		require.Equal(t, PhaseEndLose, r.Phase())
		require.GreaterOrEqual(t, r.HighScore(), best)
		best = r.HighScore()
	}
	assert.Equal(t, 6, best)
}

func TestActivationCommandOrder(t *testing.T) {
	r := newTestRound(t, Options{Rand: &fixedRand{seq: []int{0}}})

	cmds := r.Tick(400*time.Millisecond, press(core.InputThump))

	require.Len(t, cmds, 5)
	assert.Equal(t, PlayClip{Clip: "cpr-1", Volume: 1, Pitch: 1}, cmds[0])
	assert.Equal(t, SetImage{Image: "cpr"}, cmds[1])
	assert.Equal(t, SetPropEnabled{Prop: PropClockHand, Enabled: true}, cmds[2])
	assert.Equal(t, SetPropEnabled{Prop: PropClockFace, Enabled: true}, cmds[3])
	assert.Equal(t, SetPropRotation{Prop: PropClockHand, Angle: 90}, cmds[4])
}

func TestAudioDisabledEmitsNoClips(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Audio.Enabled = false
	r := newTestRound(t, Options{Config: cfg})

	cmds := r.Tick(400*time.Millisecond, press(core.InputThump))
	_, ok := findClip(cmds)
	assert.False(t, ok)
}

func TestPitchRamp(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scoring.WinThreshold = 100

	tests := []struct {
		successes int
		pitch     float64
	}{
		{0, 1},
		{4, 1},
		{8, 1 + 0.3/3.5},
		{18, 1.3},
		{30, 1.3},
	}

	for _, tc := range tests {
		r := newTestRound(t, Options{Config: cfg})
		cmds := r.Tick(400*time.Millisecond, press(core.InputThump))
		for i := 0; i < tc.successes; i++ {
			cmds = succeed(t, r)
		}

		clip, ok := findClip(cmds)
		require.True(t, ok)
		assert.InDelta(t, tc.pitch, clip.Pitch, 1e-9, "after %d successes", tc.successes)
		assert.Equal(t, 1.0, clip.Volume)
	}
}

func TestSuccessClipPitch(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scoring.WinThreshold = 100
	r := newTestRound(t, Options{Config: cfg})
	begin(t, r)
	for i := 0; i < 20; i++ {
		succeed(t, r)
	}

	clip, ok := findClip(answer(t, r))
	require.True(t, ok)
	assert.Equal(t, 1.0, clip.Pitch)
}

func TestClockHandRotation(t *testing.T) {
	r := newTestRound(t, Options{})
	begin(t, r)
	require.Equal(t, 90.0, r.Hand().Angle)

	cmds := r.Tick(1500*time.Millisecond, idle)
	assert.InDelta(t, 0, r.Hand().Angle, 1e-9)
	assert.Contains(t, cmds, SetPropRotation{Prop: PropClockHand, Angle: r.Hand().Angle})

	r.Tick(1500*time.Millisecond, idle)
	assert.InDelta(t, 270, r.Hand().Angle, 1e-9)

	r.Tick(1500*time.Millisecond, idle)
	assert.InDelta(t, 180, r.Hand().Angle, 1e-9)
}

func TestClockHandEndsAtZeroAngle(t *testing.T) {
	r := newTestRound(t, Options{})
	begin(t, r)

	step := r.EffectiveDeadline() / 7
	for i := 0; i < 7; i++ {
		r.Tick(step, idle)
	}
	require.Equal(t, PhasePlaying, r.Phase())
	assert.GreaterOrEqual(t, r.Hand().Angle, 90.0)
	assert.InDelta(t, 90, r.Hand().Angle, 1e-6)
}

func TestRemaining(t *testing.T) {
	r := newTestRound(t, Options{})
	assert.Equal(t, registry.Infinite, r.Remaining())

	begin(t, r)
	r.Tick(2*time.Second, idle)
	assert.Equal(t, 4*time.Second, r.Remaining())
}

func TestNegativeDtIgnored(t *testing.T) {
	r := newTestRound(t, Options{})
	r.Tick(-time.Second, idle)
	assert.Equal(t, time.Duration(0), r.Now())
}
