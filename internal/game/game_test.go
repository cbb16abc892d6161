package game

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/dash-runner/internal/config"
	"github.com/vovakirdan/dash-runner/internal/core"
	"github.com/vovakirdan/dash-runner/internal/registry"
)

type fakeStore struct {
	best   float64
	saves  []float64
	recent []float64 // Newest first
	err    error
}

func (s *fakeStore) RecentDistances(limit int) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.recent[:min(limit, len(s.recent))], nil
}

func (s *fakeStore) BestDistance() (float64, error) {
	return s.best, s.err
}

func (s *fakeStore) SaveBestDistance(d float64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if d <= s.best {
		return false, nil
	}
	s.best = d
	s.saves = append(s.saves, d)
	return true, nil
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
}

func level(at, speed float64, obstacles ...string) config.LevelConfig {
	return config.LevelConfig{UnlockDistance: at, SpeedMultiplier: speed, Obstacles: obstacles}
}

func testConfig(levels ...config.LevelConfig) config.DashConfig {
	cfg := config.DefaultDashConfig()
	cfg.Templates = []config.TemplateConfig{
		{Name: "gap", Width: 10},
		{Name: "crate", Width: 10, Parts: []config.PartConfig{
			{Offset: 4, Width: 2, Bottom: -0.75, Height: 1.5, Destructible: true},
		}},
		{Name: "wall", Width: 10, Parts: []config.PartConfig{
			{Offset: 4, Width: 2, Bottom: -3, Height: 6},
		}},
	}
	cfg.Levels = levels
	return cfg
}

func newStarted(t *testing.T, cfg config.DashConfig, opts ...Option) *Game {
	t.Helper()
	g := New(append([]Option{WithConfig(cfg)}, opts...)...)
	g.Reset(testRuntime())
	g.StartGame()
	if g.Phase() != core.PhaseRunning {
		t.Fatalf("Expected running after StartGame, got %s", g.Phase())
	}
	return g
}

func step(g *Game) core.StepResult {
	return g.Step(core.NewInputFrame())
}

func stepUntil(t *testing.T, g *Game, limit int, done func() bool) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if done() {
			return
		}
		step(g)
	}
	if !done() {
		t.Fatalf("Condition not reached after %d ticks (phase %s, distance %f)", limit, g.Phase(), g.CurrentDistance())
	}
}

func TestGameResetIdle(t *testing.T) {
	g := New(WithConfig(testConfig(level(0, 1, "gap"), level(50, 1.5, "gap"))))
	g.Reset(testRuntime())

	if g.Phase() != core.PhaseIdle {
		t.Errorf("Expected idle, got %s", g.Phase())
	}
	if g.Level().UnlockDistance != 0 {
		t.Errorf("Expected first level, got %f", g.Level().UnlockDistance)
	}
	if g.next != 50 {
		t.Errorf("Expected next unlock at 50, got %f", g.next)
	}

	res := step(g)
	if res.State.Distance != 0 || g.runner.X() != 0 {
		t.Error("Idle game should not advance")
	}
}

func TestGameStartAction(t *testing.T) {
	g := New(WithConfig(testConfig(level(0, 1.25, "gap"))))
	g.Reset(testRuntime())

	in := core.NewInputFrame()
	in.Set(core.ActionStart)
	g.Step(in)

	if g.Phase() != core.PhaseRunning {
		t.Fatalf("Start action should start the run, got %s", g.Phase())
	}
	if g.CurrentSpeedCoefficient() != 1.25 {
		t.Errorf("Expected coefficient 1.25, got %f", g.CurrentSpeedCoefficient())
	}
	if g.field.Len() != 1 {
		t.Errorf("Field should hold the first obstacle, got %d", g.field.Len())
	}
}

func TestGameLevelProgression(t *testing.T) {
	g := newStarted(t, testConfig(level(0, 1, "gap"), level(50, 1.5, "gap"), level(150, 2, "gap")))

	stepUntil(t, g, 1000, func() bool { return g.Level().UnlockDistance == 50 })
	if g.CurrentSpeedCoefficient() != 1.5 {
		t.Errorf("Expected coefficient 1.5, got %f", g.CurrentSpeedCoefficient())
	}
	if g.next != 150 {
		t.Errorf("Expected next unlock at 150, got %f", g.next)
	}

	stepUntil(t, g, 1000, func() bool { return g.Level().UnlockDistance == 150 })
	if g.next != config.NoFurtherLevel {
		t.Errorf("Expected no further level, got %f", g.next)
	}
	if g.CurrentDistance() < 150 {
		t.Errorf("Level 150 unlocked too early at %f", g.CurrentDistance())
	}

	for i := 0; i < 200; i++ {
		step(g)
	}
	if g.Level().UnlockDistance != 150 || !g.IsAlive() {
		t.Error("Last level should stay active")
	}
}

func TestGameFieldFollowsRunner(t *testing.T) {
	g := newStarted(t, testConfig(level(0, 1, "gap")))

	for i := 0; i < 600; i++ {
		step(g)
	}

	x := g.runner.X()
	last := g.field.Instances()[g.field.Len()-1]
	// One tick of movement may separate the spawn from the check.
	if last.TrailingEdge() < x+g.cfg.Field.LookAhead-1 {
		t.Errorf("Field should stay filled ahead of the runner, tail at %f, runner at %f", last.TrailingEdge(), x)
	}
	for _, in := range g.field.Instances() {
		if x-in.LeadingEdge() > in.Width()+1 {
			t.Errorf("Passed obstacle %d was not despawned", in.ID())
		}
	}
}

func TestGameDeathThenGameOverStoresBest(t *testing.T) {
	store := &fakeStore{best: 10}
	g := newStarted(t, testConfig(level(0, 1, "wall")), WithStore(store))

	if g.BestDistance() != 10 {
		t.Errorf("Best distance should load from the store, got %f", g.BestDistance())
	}

	stepUntil(t, g, 2000, func() bool { return g.Phase() == core.PhaseDying })
	if g.IsAlive() {
		t.Fatal("Runner should be dead")
	}
	died := g.State().Distance

	stepUntil(t, g, 120, func() bool { return g.Phase() == core.PhaseGameOver })

	want := math.Floor(died)
	if len(store.saves) != 1 || store.saves[0] != want {
		t.Errorf("Expected best %f saved once, got %v", want, store.saves)
	}
	if !g.NewBest() || g.BestDistance() != want {
		t.Errorf("Expected new best %f, got %f", want, g.BestDistance())
	}
	if g.State().Score != int(want) {
		t.Errorf("Score should be the floored distance, got %d", g.State().Score)
	}
}

func TestGameOverKeepsBetterRecord(t *testing.T) {
	store := &fakeStore{best: 1e6}
	g := newStarted(t, testConfig(level(0, 1, "wall")), WithStore(store))

	stepUntil(t, g, 2000, func() bool { return g.Phase() == core.PhaseGameOver })

	if len(store.saves) != 0 || g.NewBest() {
		t.Error("A shorter run must not replace the record")
	}
	if g.BestDistance() != 1e6 {
		t.Errorf("Best should be unchanged, got %f", g.BestDistance())
	}
}

func TestGameOverWaitsForDeathDelay(t *testing.T) {
	g := newStarted(t, testConfig(level(0, 1, "wall")))

	stepUntil(t, g, 2000, func() bool { return g.Phase() == core.PhaseDying })

	ticks := 0
	for g.Phase() == core.PhaseDying && ticks < 200 {
		step(g)
		ticks++
	}
	secs := float64(ticks) / 60
	if math.Abs(secs-g.cfg.Runner.DeathDelay) > 2.0/60 {
		t.Errorf("Game over after %.3fs, expected %.3fs", secs, g.cfg.Runner.DeathDelay)
	}
}

func TestGameReviveCancelsGameOver(t *testing.T) {
	store := &fakeStore{}
	g := newStarted(t, testConfig(level(0, 1, "wall")), WithStore(store))

	stepUntil(t, g, 2000, func() bool { return g.Phase() == core.PhaseDying })
	x := g.runner.X()

	in := core.NewInputFrame()
	in.Set(core.ActionContinue)
	g.Step(in)

	if g.Phase() != core.PhaseResuming || g.IsAlive() {
		t.Fatalf("Revive should wait for Continue, got %s", g.Phase())
	}
	for i := 0; i < 30; i++ {
		step(g)
	}
	if g.runner.X() != x {
		t.Errorf("Resuming runner must not move, was %f now %f", x, g.runner.X())
	}

	in = core.NewInputFrame()
	in.Set(core.ActionStart)
	g.Step(in)
	if g.Phase() != core.PhaseRunning || !g.IsAlive() {
		t.Fatalf("Expected running after Continue, got %s", g.Phase())
	}
	if g.runner.X() < x {
		t.Errorf("Revive should keep x, was %f now %f", x, g.runner.X())
	}
	if g.Revives() != 1 {
		t.Errorf("Expected one revive, got %d", g.Revives())
	}

	// Past the old death delay the cancelled game over must not fire.
	for i := 0; i < 90; i++ {
		step(g)
	}
	if g.Phase() != core.PhaseRunning {
		t.Errorf("Revived run should keep running, got %s", g.Phase())
	}
	if len(store.saves) != 0 {
		t.Errorf("Nothing should be saved after revive, got %v", store.saves)
	}
	for _, in := range g.field.Instances() {
		if in.LeadingEdge() < x {
			t.Errorf("Field should be refilled ahead of the runner, found obstacle at %f", in.LeadingEdge())
		}
	}
}

func TestGameReviveAfterGameOver(t *testing.T) {
	g := newStarted(t, testConfig(level(0, 1, "wall")))
	stepUntil(t, g, 2000, func() bool { return g.Phase() == core.PhaseGameOver })

	if !g.Revive() {
		t.Fatal("Revive should be allowed after game over")
	}
	if g.Revive() {
		t.Error("Revive while resuming should be refused")
	}
	if !g.Continue() || g.Phase() != core.PhaseRunning {
		t.Errorf("Continue should resume the run, got %s", g.Phase())
	}
	if g.Continue() {
		t.Error("Continue while running should be refused")
	}
}

func TestGameSecondReviveRefused(t *testing.T) {
	g := newStarted(t, testConfig(level(0, 1, "wall")))
	stepUntil(t, g, 2000, func() bool { return g.Phase() == core.PhaseGameOver })

	if !g.Revive() || !g.Continue() {
		t.Fatal("First continue should be accepted")
	}
	stepUntil(t, g, 2000, func() bool { return g.Phase() == core.PhaseDying })

	if g.CanContinue() {
		t.Error("No continue should be offered after one was used")
	}
	if g.Revive() {
		t.Error("Second revive in one run should be refused")
	}
	stepUntil(t, g, 120, func() bool { return g.Phase() == core.PhaseGameOver })
	if g.Revive() || g.Revives() != 1 {
		t.Errorf("Second revive after game over should be refused, revives=%d", g.Revives())
	}
}

func TestGameContinueOfferExpires(t *testing.T) {
	cfg := testConfig(level(0, 1, "wall"))
	cfg.Continue.Window = 0.5
	g := newStarted(t, cfg)
	stepUntil(t, g, 2000, func() bool { return g.Phase() == core.PhaseGameOver })

	if !g.CanContinue() {
		t.Fatal("Continue should be offered at game over")
	}
	if r := g.ContinueRemaining(); math.Abs(r-0.5) > 2.0/60 {
		t.Errorf("Expected about 0.5s on the offer, got %f", r)
	}

	ticks := 0
	for g.CanContinue() && ticks < 200 {
		step(g)
		ticks++
	}
	if secs := float64(ticks) / 60; math.Abs(secs-0.5) > 2.0/60 {
		t.Errorf("Offer closed after %.3fs, expected 0.5s", secs)
	}
	if g.Revive() {
		t.Error("Revive after the window should be refused")
	}
	if g.Phase() != core.PhaseGameOver {
		t.Errorf("Run should stay over, got %s", g.Phase())
	}
}

func TestGameContinueNeedsRecentAverage(t *testing.T) {
	store := &fakeStore{recent: []float64{1000, 1000, 1000, 1000, 1000}}
	g := newStarted(t, testConfig(level(0, 1, "wall")), WithStore(store))
	stepUntil(t, g, 2000, func() bool { return g.Phase() == core.PhaseDying })

	if g.CanContinue() || g.Revive() {
		t.Error("A run far below the recent average must not be continued")
	}
}

func TestGameContinueDisabled(t *testing.T) {
	cfg := testConfig(level(0, 1, "wall"))
	cfg.Continue.MaxPerRun = -1
	g := newStarted(t, cfg)
	stepUntil(t, g, 2000, func() bool { return g.Phase() == core.PhaseGameOver })

	if g.Revive() {
		t.Error("Continues are disabled")
	}
}

func TestContinueEarned(t *testing.T) {
	policy := config.DefaultContinueConfig()
	tests := []struct {
		name     string
		distance float64
		previous []float64
		want     bool
	}{
		{"first run", 40, nil, true},
		{"first run at zero", 0, nil, false},
		{"all zero history", 5, []float64{0, 0}, true},
		{"well above average", 100, []float64{50, 50, 50, 50}, true},
		{"well below average", 20, []float64{100, 100, 100, 100}, false},
		// (80 + 4*100) / 5 = 96; 80/96 = 0.83
		{"just above ratio", 80, []float64{100, 100, 100, 100}, true},
		// (75 + 4*100) / 5 = 95; 75/95 = 0.79
		{"just below ratio", 75, []float64{100, 100, 100, 100}, false},
		// Only the four newest earlier runs count.
		{"old runs ignored", 80, []float64{100, 100, 100, 100, 100000}, true},
	}

	for _, tt := range tests {
		if got := continueEarned(tt.distance, tt.previous, policy); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestGameDashSmashesCrate(t *testing.T) {
	cfg := testConfig(level(0, 1, "crate"))
	cfg.Field.LookAhead = 5
	cfg.Runner.DashLength = 12
	g := newStarted(t, cfg)

	in := core.NewInputFrame()
	in.SetTap()
	g.Step(in)
	if !g.IsDashing() {
		t.Fatal("Tap should start a dash")
	}

	stepUntil(t, g, 200, func() bool { return g.runner.X() >= 12 || !g.IsAlive() })

	if !g.IsAlive() {
		t.Fatal("Dashing runner should survive the crate")
	}
	if g.Smashed() != 1 {
		t.Errorf("Expected one smashed crate, got %d", g.Smashed())
	}
}

func TestGameCrateKillsWithoutDash(t *testing.T) {
	cfg := testConfig(level(0, 1, "crate"))
	cfg.Field.LookAhead = 5
	g := newStarted(t, cfg)

	stepUntil(t, g, 200, func() bool { return !g.IsAlive() })

	if g.Phase() != core.PhaseDying {
		t.Errorf("Expected dying, got %s", g.Phase())
	}
	if g.Smashed() != 0 {
		t.Error("Nothing should be smashed")
	}
}

func TestGameSlideJumps(t *testing.T) {
	g := newStarted(t, testConfig(level(0, 1, "gap")))

	in := core.NewInputFrame()
	in.SetSlide(core.V(0, 1))
	g.Step(in)

	if !g.runner.IsJumping() {
		t.Error("Vertical slide should jump")
	}
	for i := 0; i < 10; i++ {
		step(g)
	}
	if g.runner.Y() <= 0 {
		t.Errorf("Runner should be above the centerline, got %f", g.runner.Y())
	}
}

func TestGamePauseToggle(t *testing.T) {
	g := newStarted(t, testConfig(level(0, 1, "gap")))
	step(g)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if g.Phase() != core.PhasePaused || !g.State().Paused {
		t.Fatalf("Expected paused, got %s", g.Phase())
	}

	d := g.CurrentDistance()
	now := g.clock.Now()
	for i := 0; i < 30; i++ {
		step(g)
	}
	if g.CurrentDistance() != d || g.clock.Now() != now {
		t.Error("Paused game should not advance")
	}

	g.Step(pause)
	if g.Phase() != core.PhaseRunning {
		t.Fatalf("Expected running, got %s", g.Phase())
	}
	step(g)
	if g.CurrentDistance() <= d {
		t.Error("Resumed game should advance")
	}
}

func TestGameResetPanicsOnBadLevels(t *testing.T) {
	g := New(WithConfig(testConfig(level(0, 1, "missing"))))

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("Expected an error panic, got %v", r)
		}
		var ce *config.ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("Expected ConfigError, got %v", err)
		}
	}()
	g.Reset(testRuntime())
}

func TestGameUnlockMissIsFatal(t *testing.T) {
	g := newStarted(t, testConfig(level(0, 1, "gap")))
	g.next = 1 // Not a key of the table

	stepUntil(t, g, 100, func() bool { return g.Err() != nil })

	if !IsConfigError(g.Err()) {
		t.Errorf("Expected config error, got %v", g.Err())
	}
	if !g.State().GameOver {
		t.Error("Fatal error should end the run")
	}
	if g.Revive() {
		t.Error("Aborted run cannot be revived")
	}
}

func TestGamesAreIndependent(t *testing.T) {
	a := newStarted(t, testConfig(level(0, 1, "gap")))
	b := newStarted(t, testConfig(level(0, 1, "gap")))

	for i := 0; i < 10; i++ {
		step(a)
	}

	if b.CurrentDistance() != 0 {
		t.Errorf("Second game should be untouched, got %f", b.CurrentDistance())
	}
}

func TestGameRender(t *testing.T) {
	cfg := testConfig(level(0, 1, "crate"))
	cfg.Field.LookAhead = 20
	g := New(WithConfig(cfg))
	g.Reset(testRuntime())
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	if !containsText(screen, "Press Enter to start") {
		t.Error("Idle screen should prompt to start")
	}

	g.StartGame()
	step(g)
	g.Render(screen)
	if !containsText(screen, "Distance:") {
		t.Error("HUD should show the distance")
	}
	if !containsRune(screen, RunnerChar) {
		t.Error("Runner should be drawn")
	}
	if !containsRune(screen, BreakableChar) {
		t.Error("Crate should be drawn")
	}
}

func TestNewForModeAppliesPreset(t *testing.T) {
	cfg := testConfig(level(0, 1, "gap"))
	g := NewForMode(registry.Mode{ID: "hard", Title: "Hard", Preset: config.DifficultyHard}, cfg)
	g.Reset(testRuntime())
	g.StartGame()

	if g.ID() != "hard" || g.Title() != "Hard" {
		t.Errorf("Expected mode identity, got %s/%s", g.ID(), g.Title())
	}
	if g.CurrentSpeedCoefficient() != 1.25 {
		t.Errorf("Expected hard speed 1.25, got %f", g.CurrentSpeedCoefficient())
	}
	if g.cfg.Continue.Window != 2 {
		t.Errorf("Hard should halve the continue window, got %g", g.cfg.Continue.Window)
	}
	if g.cfg.Runner.DeathDelay != cfg.Runner.DeathDelay*0.5 {
		t.Errorf("Hard should halve the death delay, got %g", g.cfg.Runner.DeathDelay)
	}
	if cfg.Levels[0].SpeedMultiplier != 1 {
		t.Error("Caller config must not be modified")
	}
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{"classic", "easy", "hard"} {
		if !registry.Exists(id) {
			t.Errorf("Mode %q should be registered", id)
		}
	}
}

func TestGameSnapshot(t *testing.T) {
	cfg := testConfig(level(0, 1, "crate"))
	cfg.Field.LookAhead = 20
	g := newStarted(t, cfg)
	step(g)

	snap := g.Snapshot(7)

	if snap.Tick != 7 || snap.Phase != "running" || snap.Level != 1 {
		t.Errorf("Unexpected header: tick %d phase %q level %d", snap.Tick, snap.Phase, snap.Level)
	}
	if !snap.Runner.Alive || snap.Runner.State != "grounded" {
		t.Errorf("Unexpected runner snapshot: %+v", snap.Runner)
	}
	if snap.Spawned < 1 || len(snap.Obstacles) == 0 {
		t.Fatalf("Expected at least one obstacle, got spawned=%d live=%d", snap.Spawned, len(snap.Obstacles))
	}
	o := snap.Obstacles[0]
	if o.Template != "crate" || len(o.Parts) != 1 || !o.Parts[0].Destructible || !o.Parts[0].Standing {
		t.Errorf("Unexpected obstacle snapshot: %+v", o)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Snapshot should encode: %v", err)
	}
	if !strings.Contains(string(data), `"template":"crate"`) {
		t.Errorf("Encoded snapshot missing template: %s", data)
	}
}

func containsText(s *core.Screen, text string) bool {
	for y := 0; y < s.Height(); y++ {
		if strings.Contains(s.Row(y), text) {
			return true
		}
	}
	return false
}

func containsRune(s *core.Screen, r rune) bool {
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.GetCell(x, y).Rune == r {
				return true
			}
		}
	}
	return false
}
