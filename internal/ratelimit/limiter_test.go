package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	t.Run("allows up to the limit then denies", func(t *testing.T) {
		l := New(3, 2)

		for i := 0; i < 3; i++ {
			if allowed, _ := l.Allow(1, ClassRead); !allowed {
				t.Fatalf("read %d denied under limit", i+1)
			}
		}
		allowed, retryAfter := l.Allow(1, ClassRead)
		if allowed {
			t.Fatal("fourth read allowed over limit")
		}
		if retryAfter <= 0 || retryAfter > time.Minute {
			t.Errorf("retryAfter = %v", retryAfter)
		}
	})

	t.Run("classes have independent budgets", func(t *testing.T) {
		l := New(1, 1)

		if allowed, _ := l.Allow(1, ClassRead); !allowed {
			t.Fatal("first read denied")
		}
		if allowed, _ := l.Allow(1, ClassWrite); !allowed {
			t.Error("write denied by read consumption")
		}
	})

	t.Run("users have independent budgets", func(t *testing.T) {
		l := New(1, 1)

		if allowed, _ := l.Allow(1, ClassRead); !allowed {
			t.Fatal("first read denied")
		}
		if allowed, _ := l.Allow(2, ClassRead); !allowed {
			t.Error("second user denied by first user's consumption")
		}
	})

	t.Run("window slides", func(t *testing.T) {
		l := New(1, 1)

		current := time.Now()
		l.now = func() time.Time { return current }

		if allowed, _ := l.Allow(1, ClassWrite); !allowed {
			t.Fatal("first write denied")
		}
		if allowed, _ := l.Allow(1, ClassWrite); allowed {
			t.Fatal("second write allowed inside window")
		}

		current = current.Add(61 * time.Second)
		if allowed, _ := l.Allow(1, ClassWrite); !allowed {
			t.Error("write denied after window passed")
		}
	})

	t.Run("zero limit means unlimited", func(t *testing.T) {
		l := New(0, 0)

		for i := 0; i < 100; i++ {
			if allowed, _ := l.Allow(1, ClassRead); !allowed {
				t.Fatal("unlimited class denied")
			}
		}
	})
}
