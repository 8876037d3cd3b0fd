package server

import (
	"sync"
	"testing"

	"github.com/lawnchairsociety/worldforge/internal/config"
)

func TestConnLimiter_Limits(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ConnectionsConfig
		acquire []string
		want    []bool
	}{
		{
			name:    "per ip",
			cfg:     config.ConnectionsConfig{MaxPerIP: 2, MaxTotal: 100},
			acquire: []string{"10.0.0.1", "10.0.0.1", "10.0.0.1", "10.0.0.2"},
			want:    []bool{true, true, false, true},
		},
		{
			name:    "total",
			cfg:     config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 3},
			acquire: []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"},
			want:    []bool{true, true, true, false},
		},
		{
			name:    "unlimited",
			cfg:     config.ConnectionsConfig{},
			acquire: []string{"10.0.0.1", "10.0.0.1", "10.0.0.1", "10.0.0.1"},
			want:    []bool{true, true, true, true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewConnLimiter(tt.cfg)
			for i, ip := range tt.acquire {
				if got := limiter.TryAcquire(ip); got != tt.want[i] {
					t.Errorf("TryAcquire #%d (%s) = %v, want %v", i+1, ip, got, tt.want[i])
				}
			}
		})
	}
}

func TestConnLimiter_Release(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 1, MaxTotal: 1})

	if !limiter.TryAcquire("10.0.0.1") {
		t.Fatal("first connection should be allowed")
	}
	if limiter.TryAcquire("10.0.0.2") {
		t.Fatal("total limit should reject a second IP")
	}

	limiter.Release("10.0.0.1")
	if !limiter.TryAcquire("10.0.0.2") {
		t.Error("connection should be allowed after release")
	}

	limiter.Release("10.0.0.9")
	if total, ips := limiter.GetStats(); total != 1 || ips != 1 {
		t.Errorf("GetStats after releasing an unknown IP = (%d, %d), want (1, 1)", total, ips)
	}
}

func TestConnLimiter_Stats(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 100})

	limiter.TryAcquire("192.168.1.1")
	limiter.TryAcquire("192.168.1.1")
	limiter.TryAcquire("192.168.1.2")

	if total, ips := limiter.GetStats(); total != 3 || ips != 2 {
		t.Errorf("GetStats = (%d, %d), want (3, 2)", total, ips)
	}
	for ip, want := range map[string]int{"192.168.1.1": 2, "192.168.1.2": 1, "192.168.1.3": 0} {
		if got := limiter.GetIPCount(ip); got != want {
			t.Errorf("GetIPCount(%s) = %d, want %d", ip, got, want)
		}
	}
}

func TestConnLimiter_Concurrent(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 5, MaxTotal: 100})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.TryAcquire("10.0.0.1") {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 5 {
		t.Errorf("granted %d slots, want 5", granted)
	}
}
