package main

import (
	"testing"

	"github.com/elektrokombinacija/gridagent/internal/scenario"
)

func TestScaledGrowsBoard(t *testing.T) {
	base := scenario.Params{Seed: 7, RequireReachable: true}

	small := scaled(base, 5)
	if small.Columns != 14 || small.Rows != 14 {
		t.Errorf("5 tasks: got %dx%d, want 14x14", small.Columns, small.Rows)
	}
	if small.Name != "scaling_005" {
		t.Errorf("unexpected name %q", small.Name)
	}

	large := scaled(base, 80)
	if large.Columns <= small.Columns {
		t.Errorf("board did not grow: %d <= %d", large.Columns, small.Columns)
	}
	if large.Seed != 7 || !large.RequireReachable {
		t.Error("base parameters not carried over")
	}
}

func TestScalingSuiteGenerates(t *testing.T) {
	base := scenario.Params{Seed: 3, RequireReachable: true}
	for _, size := range scalingSizes[:3] {
		s, err := scenario.Generate(scaled(base, size))
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if s.Grid.Tasks.Len() != size {
			t.Errorf("size %d: got %d tasks", size, s.Grid.Tasks.Len())
		}
	}
}
