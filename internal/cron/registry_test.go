package cron

import (
	"context"
	"testing"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryStoresJobs(t *testing.T) {
	registry := NewRegistry()
	jobA := &stubJob{name: "a"}
	jobB := &stubJob{name: "b"}
	registry.Register(jobA)
	registry.Register(jobB)
	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != jobA || jobs[1] != jobB {
		t.Fatalf("jobs returned out of order")
	}
	// ensure caller cannot mutate internal slice
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("internal slice leaked")
	}
}

func TestRegistrySkipsNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &stubJob{name: "a"}, nil)
	registry.Register(nil)
	if len(registry.Jobs()) != 1 {
		t.Fatalf("expected 1 job, got %d", len(registry.Jobs()))
	}
}

func TestRegistryDropsDuplicateNames(t *testing.T) {
	first := &stubJob{name: "cart-cleanup"}
	registry := NewRegistry(first, &stubJob{name: "cart-cleanup"})
	registry.Register(&stubJob{name: "cart-cleanup"})
	jobs := registry.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0] != first {
		t.Fatal("expected the first registration to win")
	}
}

func TestRegistryNames(t *testing.T) {
	registry := NewRegistry(&stubJob{name: "cart-cleanup"}, &stubJob{name: "customer-cleanup"})
	names := registry.Names()
	if len(names) != 2 || names[0] != "cart-cleanup" || names[1] != "customer-cleanup" {
		t.Fatalf("unexpected names %v", names)
	}
}
