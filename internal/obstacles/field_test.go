package obstacles

import (
	"math"
	"testing"

	"github.com/vovakirdan/dash-runner/internal/config"
)

func testTemplates() []config.ObstacleTemplate {
	return []config.ObstacleTemplate{
		{Name: "narrow", Width: 6, Parts: []config.ObstaclePart{
			{Offset: 2, Width: 2, Bottom: -1, Height: 2, Destructible: true},
		}},
		{Name: "wide", Width: 15, Parts: []config.ObstaclePart{
			{Offset: 5, Width: 2, Bottom: 1, Height: 3},
		}},
		{Name: "pair", Width: 11, Parts: []config.ObstaclePart{
			{Offset: 1, Width: 2, Bottom: -1, Height: 2, Destructible: true},
			{Offset: 7, Width: 2, Bottom: -1, Height: 2, Destructible: true},
		}},
	}
}

func TestFieldInitPlacesFirstObstacle(t *testing.T) {
	f := NewField(1)
	set := testTemplates()[:1]
	f.Init(set, 100)

	if f.Len() != 1 {
		t.Fatalf("Expected 1 obstacle after Init, got %d", f.Len())
	}
	in := f.Instances()[0]
	if in.Center() != 103 {
		t.Errorf("Expected center at reference + width/2 = 103, got %f", in.Center())
	}
	if in.LeadingEdge() != 100 {
		t.Errorf("Expected leading edge at reference, got %f", in.LeadingEdge())
	}
}

func TestFieldInitClearsPrevious(t *testing.T) {
	f := NewField(1)
	f.Init(testTemplates(), 0)
	for i := 0; i < 5; i++ {
		f.SpawnTemplate(testTemplates()[0])
	}
	old := f.Instances()[0]

	f.Init(testTemplates(), 500)

	if f.Len() != 1 {
		t.Errorf("Init should leave exactly one obstacle, got %d", f.Len())
	}
	if old.Alive() {
		t.Error("Init should kill previous instances")
	}
}

func TestFieldContiguousPlacement(t *testing.T) {
	f := NewField(42)
	f.Init(testTemplates(), 0)

	for i := 0; i < 50; i++ {
		f.Spawn()
	}

	live := f.Instances()
	for i := 1; i < len(live); i++ {
		a, b := live[i-1], live[i]
		if gap := b.LeadingEdge() - a.TrailingEdge(); math.Abs(gap) > 1e-9 {
			t.Fatalf("Obstacles %d and %d not contiguous: gap %f", a.ID(), b.ID(), gap)
		}
	}
}

func TestFieldTickSpawnsWhenTailScrollsBehind(t *testing.T) {
	f := NewField(7)
	f.Init(testTemplates()[:1], 0) // [0, 6)

	f.Tick(5, 0)
	if f.Len() != 1 {
		t.Errorf("No spawn expected while tail is ahead of reference, got %d obstacles", f.Len())
	}

	f.Tick(6.5, 0)
	if f.Len() != 2 {
		t.Fatalf("Expected spawn once tail is behind reference, got %d obstacles", f.Len())
	}
	if got := f.Instances()[1].LeadingEdge(); got != 6 {
		t.Errorf("Expected new obstacle at 6, got %f", got)
	}
}

func TestFieldTickSpawnsOncePerTick(t *testing.T) {
	f := NewField(7)
	f.Init(testTemplates()[:1], 0)

	f.Tick(100, 0)
	if f.Len() != 2 {
		t.Errorf("Expected one spawn per tick, got %d obstacles", f.Len())
	}
}

func TestFieldDespawnPassedObstacles(t *testing.T) {
	f := NewField(3)
	f.Init(testTemplates()[:1], 0) // leading edge 0, width 6

	f.Tick(0, 6)
	if !f.Instances()[0].Alive() {
		t.Fatal("Obstacle should survive when runner is exactly one width past")
	}

	first := f.Instances()[0]
	f.Tick(0, 6.01)
	if first.Alive() {
		t.Error("Obstacle should despawn once runner is more than one width past")
	}
	if f.Lookup(first.ID()) != nil {
		t.Error("Despawned obstacle still in live list")
	}
}

func TestFieldDespawnBeforeSpawnCheck(t *testing.T) {
	f := NewField(3)
	f.Init(testTemplates()[:1], 0)

	// Same tick: first obstacle is despawned and the replacement is spawned.
	f.Tick(10, 10)
	if f.Len() != 1 {
		t.Fatalf("Expected the despawned obstacle replaced, got %d live", f.Len())
	}
	if f.Instances()[0].LeadingEdge() != 6 {
		t.Errorf("Replacement should continue from the previous trailing edge, got %f", f.Instances()[0].LeadingEdge())
	}
}

func TestFieldEmptySetIsNoop(t *testing.T) {
	f := NewField(1)
	f.Init(nil, 0)

	if f.Len() != 0 {
		t.Errorf("Init with empty set should spawn nothing, got %d", f.Len())
	}
	if in := f.Spawn(); in != nil {
		t.Error("Spawn with empty set should return nil")
	}
	f.Tick(100, 0)
	if f.Len() != 0 {
		t.Errorf("Tick with empty set should spawn nothing, got %d", f.Len())
	}
}

func TestFieldReset(t *testing.T) {
	f := NewField(9)
	f.Init(testTemplates(), 0)
	f.Tick(200, 0)
	f.Tick(200, 0)
	old := f.Instances()

	f.Reset()

	for _, in := range old {
		if in.Alive() {
			t.Errorf("Reset should destroy instance %d", in.ID())
		}
	}
	if f.Len() != 1 {
		t.Fatalf("Reset should spawn one fresh obstacle, got %d", f.Len())
	}
	if f.Instances()[0].LeadingEdge() != 200 {
		t.Errorf("Fresh obstacle should start at the reference, got %f", f.Instances()[0].LeadingEdge())
	}
}

func TestFieldInstancesSurviveRemoval(t *testing.T) {
	f := NewField(3)
	f.Init(testTemplates(), 0)
	for i := 0; i < 4; i++ {
		f.Tick(200, 0)
	}
	held := f.Instances()
	if len(held) < 3 {
		t.Fatalf("Expected several obstacles, got %d", len(held))
	}
	ids := make([]int, len(held))
	for i, in := range held {
		ids[i] = in.ID()
	}

	f.Destroy(ids[0])
	f.SpawnTemplate(testTemplates()[0])

	for i, in := range held {
		if in.ID() != ids[i] {
			t.Errorf("Held slice changed at %d: expected id %d, got %d", i, ids[i], in.ID())
		}
	}
	if held[0].Alive() {
		t.Error("Destroyed instance should report dead through the held slice")
	}
	if f.Len() != len(held) {
		t.Errorf("Expected %d live obstacles, got %d", len(held), f.Len())
	}
}

func TestFieldDestroyNotifiesField(t *testing.T) {
	f := NewField(1)
	f.Init(testTemplates()[:1], 0)
	f.SpawnTemplate(testTemplates()[0])
	id := f.Instances()[0].ID()

	if !f.Destroy(id) {
		t.Fatal("Destroy should succeed for live id")
	}
	if f.Len() != 1 {
		t.Errorf("Expected 1 obstacle after destroy, got %d", f.Len())
	}
	if f.Destroy(id) {
		t.Error("Destroying twice should report false")
	}
}

func TestSmashPartRemovesInstanceWhenEmpty(t *testing.T) {
	f := NewField(1)
	pair := f.SpawnTemplate(testTemplates()[2])

	var smashed []int
	f.OnSmash(func(in *Instance, part int) {
		smashed = append(smashed, part)
	})

	if !pair.SmashPart(0) {
		t.Fatal("Expected first part to be smashable")
	}
	if !pair.Alive() {
		t.Error("Instance should survive while a part stands")
	}
	if _, _, standing := pair.Part(0); standing {
		t.Error("Smashed part should not stand")
	}

	pair.SmashPart(1)
	if pair.Alive() {
		t.Error("Instance should be destroyed when all parts are smashed")
	}
	if f.Len() != 0 {
		t.Errorf("Field should be empty, got %d", f.Len())
	}
	if len(smashed) != 2 {
		t.Errorf("Expected 2 smash notifications, got %d", len(smashed))
	}
}

func TestSmashPartRejectsSolidPart(t *testing.T) {
	f := NewField(1)
	wide := f.SpawnTemplate(testTemplates()[1])

	if wide.SmashPart(0) {
		t.Error("Non-destructible part must not be smashable")
	}
	if !wide.Alive() {
		t.Error("Instance should be untouched")
	}
}

func TestPartBoxInWorld(t *testing.T) {
	f := NewField(1)
	f.Init(testTemplates()[1:2], 10)
	in := f.Instances()[0]

	box, destructible, standing := in.Part(0)
	if box.X != 15 || box.W != 2 || box.Y != 1 || box.H != 3 {
		t.Errorf("Unexpected part box %+v", box)
	}
	if destructible {
		t.Error("Wide part should not be destructible")
	}
	if !standing {
		t.Error("Fresh part should stand")
	}
}

func TestFieldDeterministicWithSeed(t *testing.T) {
	run := func() []string {
		f := NewField(1234)
		f.Init(testTemplates(), 0)
		for i := 0; i < 20; i++ {
			f.Spawn()
		}
		names := make([]string, 0, f.Len())
		for _, in := range f.Instances() {
			names = append(names, in.Template().Name)
		}
		return names
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Spawn sequence differs at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestFieldSetObstaclesKeepsLiveInstances(t *testing.T) {
	f := NewField(3)
	f.Init(testTemplates(), 0)
	live := f.Instances()[0]

	f.SetObstacles(testTemplates()[:1])

	if len(f.Obstacles()) != 1 {
		t.Errorf("Expected one active template, got %d", len(f.Obstacles()))
	}
	if !live.Alive() || f.Len() != 1 {
		t.Error("Swapping the set should leave live instances alone")
	}
	if f.Spawned() != 1 {
		t.Errorf("Expected one spawn so far, got %d", f.Spawned())
	}
	if f.Reference() != 0 {
		t.Errorf("Expected reference 0, got %f", f.Reference())
	}
}
