package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 5},
		{"default bucket size for negative", -1, 5},
		{"custom bucket size", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "download") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSampler_Buckets(t *testing.T) {
	s := NewProgressSampler(5)

	steps := []struct {
		percent float64
		want    bool
	}{
		{0, true},
		{3.2, false},
		{4.9, false},
		{5.0, true},
		{7.5, false},
		{12.1, true},
		{100, true},
		{100, false},
		{140, false},
	}
	for _, step := range steps {
		if got := s.ShouldLog(step.percent, "download"); got != step.want {
			t.Fatalf("ShouldLog(%v) = %v, want %v", step.percent, got, step.want)
		}
	}
}

func TestProgressSampler_StageChangeResetsBuckets(t *testing.T) {
	s := NewProgressSampler(5)
	s.ShouldLog(50, "download")
	if !s.ShouldLog(10, "translate") {
		t.Fatal("expected stage change to log")
	}
	if s.ShouldLog(12, "translate") {
		t.Fatal("expected same bucket to be suppressed after stage change")
	}
	if s.lastStage != "translate" {
		t.Fatalf("lastStage = %q", s.lastStage)
	}
}

func TestProgressSampler_UnknownPercent(t *testing.T) {
	s := NewProgressSampler(5)
	if !s.ShouldLog(-1, " download ") {
		t.Fatal("first stage should log even without a percent")
	}
	if s.ShouldLog(-1, "download") {
		t.Fatal("unknown percent on the same stage should not log")
	}
	s.Reset()
	if !s.ShouldLog(-1, "download") {
		t.Fatal("reset should allow the stage to log again")
	}
}
