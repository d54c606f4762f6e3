package compute

import (
	"sync"
	"testing"
)

func TestRangeCoversEveryIndexOnce(t *testing.T) {
	backends := []Backend{NewSerialBackend(), NewCPUBackend()}
	for _, b := range backends {
		t.Run(b.Name(), func(t *testing.T) {
			const start, end = 3, 151
			counts := make([]int, end)
			var mu sync.Mutex

			b.Range(start, end, func(lo, hi int) {
				mu.Lock()
				defer mu.Unlock()
				for i := lo; i < hi; i++ {
					counts[i]++
				}
			})

			for i := 0; i < start; i++ {
				if counts[i] != 0 {
					t.Errorf("index %d below range visited", i)
				}
			}
			for i := start; i < end; i++ {
				if counts[i] != 1 {
					t.Errorf("index %d visited %d times", i, counts[i])
				}
			}
		})
	}
}

func TestRangeEmpty(t *testing.T) {
	for _, b := range []Backend{NewSerialBackend(), NewCPUBackend()} {
		called := false
		b.Range(5, 5, func(lo, hi int) { called = true })
		if called {
			t.Errorf("%s: fn called for empty range", b.Name())
		}
		b.Range(7, 2, func(lo, hi int) { called = true })
		if called {
			t.Errorf("%s: fn called for inverted range", b.Name())
		}
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "serial", false},
		{"serial", "serial", false},
		{"parallel", "parallel", false},
		{"gpu", "", true},
	}
	for _, tt := range tests {
		b, err := Select(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Select(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("Select(%q): %v", tt.name, err)
			continue
		}
		if b.Name() != tt.want {
			t.Errorf("Select(%q) = %s, want %s", tt.name, b.Name(), tt.want)
		}
	}

	b, err := Select("auto")
	if err != nil {
		t.Fatalf("Select(auto): %v", err)
	}
	if b.Name() != "serial" && b.Name() != "parallel" {
		t.Errorf("Select(auto) = %s, want serial or parallel", b.Name())
	}
}

func TestSetBackend(t *testing.T) {
	orig := GetBackend()
	defer SetBackend(orig)

	cpu := NewCPUBackend()
	SetBackend(cpu)
	if GetBackend() != Backend(cpu) {
		t.Error("SetBackend did not install the backend")
	}
}
