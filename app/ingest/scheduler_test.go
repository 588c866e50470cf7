package ingest

import (
	"testing"
	"time"
)

func TestSchedulerTriggersSweeps(t *testing.T) {
	cache := newTestCache(t, twoSourcesConfig)
	repo := newFakeRepo()
	opener := &fakeOpener{payloads: map[string]string{
		"source1": validRecords,
		"source2": `[]`,
	}}

	orchestrator := newTestOrchestrator(t, cache, opener, repo, 100)

	scheduler := NewScheduler(orchestrator, 20*time.Millisecond)
	scheduler.Start()
	defer scheduler.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for repo.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for scheduled sweep")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSchedulerDisabled(t *testing.T) {
	cache := newTestCache(t, twoSourcesConfig)
	repo := newFakeRepo()
	opener := &fakeOpener{payloads: map[string]string{"source1": validRecords, "source2": `[]`}}

	orchestrator := newTestOrchestrator(t, cache, opener, repo, 100)

	scheduler := NewScheduler(orchestrator, 0)
	scheduler.Start()
	scheduler.Stop()

	if repo.count() != 0 {
		t.Errorf("Expected no sweeps with disabled scheduler, got %d listings", repo.count())
	}
}

func TestSchedulerStopIsIdempotentWithNoStart(t *testing.T) {
	cache := newTestCache(t, twoSourcesConfig)
	orchestrator := newTestOrchestrator(t, cache, &fakeOpener{}, newFakeRepo(), 100)

	scheduler := NewScheduler(orchestrator, time.Hour)
	scheduler.Stop()
}
