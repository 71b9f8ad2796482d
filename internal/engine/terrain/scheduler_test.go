package terrain

import "testing"

func schedChunk(x, z int32, state ChunkState, dist float64) *Chunk {
	return &Chunk{GridX: x, GridZ: z, State: state, DistanceToViewpoint: dist}
}

func schedConfig() StreamingConfig {
	cfg := DefaultStreamingConfig()
	cfg.LoadDistance = 300
	cfg.UnloadDistance = 400
	return cfg
}

func TestSchedulerClosestPopsFirst(t *testing.T) {
	chunks := map[ChunkKey]*Chunk{
		{0, 0}: schedChunk(0, 0, ChunkUnloaded, 250),
		{1, 0}: schedChunk(1, 0, ChunkUnloaded, 50),
		{2, 0}: schedChunk(2, 0, ChunkUnloaded, 150),
	}

	var s scheduler
	s.rebuild(chunks, schedConfig(), nil, nil)

	wantOrder := []ChunkKey{{1, 0}, {2, 0}, {0, 0}}
	for i, want := range wantOrder {
		req, ok := s.pop()
		if !ok {
			t.Fatalf("pop %d: queue exhausted early", i)
		}
		if req.key != want {
			t.Errorf("pop %d: got %v, want %v", i, req.key, want)
		}
	}
	if _, ok := s.pop(); ok {
		t.Error("expected empty queue after all pops")
	}
}

func TestSchedulerHysteresisBand(t *testing.T) {
	// Chunks between load and unload distance are left alone in both
	// directions.
	chunks := map[ChunkKey]*Chunk{
		{0, 0}: schedChunk(0, 0, ChunkUnloaded, 350),
		{1, 0}: schedChunk(1, 0, ChunkLoaded, 350),
	}

	var s scheduler
	s.rebuild(chunks, schedConfig(), nil, nil)

	if s.loads.Len() != 0 {
		t.Errorf("unloaded chunk in dead band should not be queued, got %d loads", s.loads.Len())
	}
	if len(s.unloads) != 0 {
		t.Errorf("loaded chunk in dead band should not be evicted, got %d unloads", len(s.unloads))
	}
}

func TestSchedulerBoundaryDistances(t *testing.T) {
	// Exactly at load distance is not "closer than"; exactly at unload
	// distance is not "farther than".
	chunks := map[ChunkKey]*Chunk{
		{0, 0}: schedChunk(0, 0, ChunkUnloaded, 300),
		{1, 0}: schedChunk(1, 0, ChunkLoaded, 400),
	}

	var s scheduler
	s.rebuild(chunks, schedConfig(), nil, nil)

	if s.loads.Len() != 0 {
		t.Errorf("chunk exactly at load distance should not load, got %d loads", s.loads.Len())
	}
	if len(s.unloads) != 0 {
		t.Errorf("chunk exactly at unload distance should not unload, got %d unloads", len(s.unloads))
	}
}

func TestSchedulerLoadingChunksIgnored(t *testing.T) {
	chunks := map[ChunkKey]*Chunk{
		{0, 0}: schedChunk(0, 0, ChunkLoading, 10),
		{1, 0}: schedChunk(1, 0, ChunkLoading, 9999),
	}

	var s scheduler
	s.rebuild(chunks, schedConfig(), nil, nil)

	if s.loads.Len() != 0 {
		t.Errorf("loading chunks must not be re-queued, got %d loads", s.loads.Len())
	}
	if len(s.unloads) != 0 {
		t.Errorf("loading chunks must not be unloaded, got %d unloads", len(s.unloads))
	}
}

func TestSchedulerUnloadsFarthestFirst(t *testing.T) {
	chunks := map[ChunkKey]*Chunk{
		{0, 0}: schedChunk(0, 0, ChunkLoaded, 500),
		{1, 0}: schedChunk(1, 0, ChunkLoaded, 900),
		{2, 0}: schedChunk(2, 0, ChunkLoaded, 700),
	}

	var s scheduler
	s.rebuild(chunks, schedConfig(), nil, nil)

	want := []ChunkKey{{1, 0}, {2, 0}, {0, 0}}
	if len(s.unloads) != len(want) {
		t.Fatalf("expected %d unloads, got %d", len(want), len(s.unloads))
	}
	for i, key := range want {
		if s.unloads[i] != key {
			t.Errorf("unload %d: got %v, want %v", i, s.unloads[i], key)
		}
	}
}

func TestSchedulerManualLoadOutranksDistance(t *testing.T) {
	chunks := map[ChunkKey]*Chunk{
		{0, 0}: schedChunk(0, 0, ChunkUnloaded, 1), // closest possible
		{5, 5}: schedChunk(5, 5, ChunkUnloaded, 5000),
	}
	manual := map[ChunkKey]struct{}{{5, 5}: {}}

	var s scheduler
	s.rebuild(chunks, schedConfig(), manual, nil)

	req, ok := s.pop()
	if !ok {
		t.Fatal("expected at least one load request")
	}
	if req.key != (ChunkKey{5, 5}) {
		t.Errorf("manual request should pop first, got %v", req.key)
	}
}

func TestSchedulerManualUnloadAppended(t *testing.T) {
	chunks := map[ChunkKey]*Chunk{
		{0, 0}: schedChunk(0, 0, ChunkLoaded, 100), // well within range
	}
	manual := map[ChunkKey]struct{}{{0, 0}: {}}

	var s scheduler
	s.rebuild(chunks, schedConfig(), nil, manual)

	if len(s.unloads) != 1 || s.unloads[0] != (ChunkKey{0, 0}) {
		t.Errorf("manual unload should bypass hysteresis, got %v", s.unloads)
	}
}

func TestSchedulerRebuildResetsQueues(t *testing.T) {
	chunks := map[ChunkKey]*Chunk{
		{0, 0}: schedChunk(0, 0, ChunkUnloaded, 50),
	}

	var s scheduler
	s.rebuild(chunks, schedConfig(), nil, nil)
	s.rebuild(chunks, schedConfig(), nil, nil)

	if s.loads.Len() != 1 {
		t.Errorf("rebuild should not accumulate requests, got %d", s.loads.Len())
	}
}
