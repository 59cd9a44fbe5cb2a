package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestGetAsLocalValue(t *testing.T) {
	mr := miniredis.RunT(t)
	c, _ := newTestCache(t, mr, "app", nil)
	ctx := context.Background()

	want := profile{ID: "42", Name: "ada"}
	c.Set(ctx, "p", want, time.Minute)

	got, ok := GetAs[profile](ctx, c, "p")
	if !ok || got != want {
		t.Fatalf("GetAs = %+v, %v; want %+v, true", got, ok, want)
	}
}

func TestGetAsRehydratesRemoteShape(t *testing.T) {
	mr := miniredis.RunT(t)
	writer, _ := newTestCache(t, mr, "app", nil)
	reader, _ := newTestCache(t, mr, "app", nil)
	ctx := context.Background()

	want := profile{ID: "42", Name: "ada"}
	writer.Set(ctx, "p", want, time.Minute)

	// The reader sees the JSON shape (map[string]any) and must convert.
	got, ok := GetAs[profile](ctx, reader, "p")
	if !ok || got != want {
		t.Fatalf("GetAs = %+v, %v; want %+v, true", got, ok, want)
	}
}

func TestGetAsMissAndMismatch(t *testing.T) {
	mr := miniredis.RunT(t)
	c, _ := newTestCache(t, mr, "app", nil)
	ctx := context.Background()

	if _, ok := GetAs[profile](ctx, c, "absent"); ok {
		t.Fatal("GetAs hit on an absent key")
	}

	c.Set(ctx, "s", "just a string", time.Minute)
	if _, ok := GetAs[profile](ctx, c, "s"); ok {
		t.Fatal("GetAs converted a string into a struct")
	}

	// Numeric widening through the codec still works.
	c.Set(ctx, "n", 42, time.Minute)
	f, ok := GetAs[float64](ctx, c, "n")
	if !ok || f != 42 {
		t.Fatalf("GetAs[float64] = %v, %v; want 42, true", f, ok)
	}
}

func TestGetOrComputeCachesOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	c, _ := newTestCache(t, mr, "app", nil)
	ctx := context.Background()

	var calls atomic.Int32
	compute := func(context.Context) (profile, error) {
		calls.Add(1)
		return profile{ID: "1", Name: "n"}, nil
	}

	v, err := GetOrCompute(ctx, c, "p", time.Minute, []string{"profiles"}, compute)
	if err != nil || v.ID != "1" {
		t.Fatalf("GetOrCompute = %+v, %v", v, err)
	}
	if _, err := GetOrCompute(ctx, c, "p", time.Minute, nil, compute); err != nil {
		t.Fatalf("second GetOrCompute: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("compute ran %d times; want 1", got)
	}

	// The computed value went through Set, tags included.
	if n := c.InvalidateByTag(ctx, "profiles"); n != 1 {
		t.Fatalf("InvalidateByTag = %d; want 1", n)
	}
}

func TestGetOrComputeCollapsesConcurrentMisses(t *testing.T) {
	mr := miniredis.RunT(t)
	c, _ := newTestCache(t, mr, "app", nil)
	ctx := context.Background()

	var calls atomic.Int32
	compute := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond) // hold the flight open
		return "shared", nil
	}

	const workers = 16
	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrCompute(ctx, c, "hot", time.Minute, nil, compute)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("compute ran %d times; want 1", got)
	}
	for i, v := range results {
		if v != "shared" {
			t.Fatalf("worker %d got %q; want shared", i, v)
		}
	}
}

func TestGetOrComputeMixedTypeWaiters(t *testing.T) {
	mr := miniredis.RunT(t)
	c, _ := newTestCache(t, mr, "app", nil)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})

	var strVal string
	var strErr error
	strDone := make(chan struct{})
	go func() {
		defer close(strDone)
		strVal, strErr = GetOrCompute(ctx, c, "shared", time.Minute, nil, func(context.Context) (string, error) {
			close(entered)
			<-release
			return "text", nil
		})
	}()
	<-entered

	// A second caller wants the same key as a different type. It must not
	// be handed the winner's string; it recomputes for itself.
	var intVal int
	var intErr error
	intDone := make(chan struct{})
	go func() {
		defer close(intDone)
		intVal, intErr = GetOrCompute(ctx, c, "shared", time.Minute, nil, func(context.Context) (int, error) {
			return 7, nil
		})
	}()

	time.Sleep(10 * time.Millisecond) // let the int caller join the open flight
	close(release)
	<-strDone
	<-intDone

	if strErr != nil || strVal != "text" {
		t.Fatalf("string caller = %q, %v; want text, nil", strVal, strErr)
	}
	if intErr != nil || intVal != 7 {
		t.Fatalf("int caller = %d, %v; want 7, nil", intVal, intErr)
	}
}

func TestGetOrComputeCoercesWinnerValue(t *testing.T) {
	mr := miniredis.RunT(t)
	c, _ := newTestCache(t, mr, "app", nil)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})

	intDone := make(chan struct{})
	go func() {
		defer close(intDone)
		if v, err := GetOrCompute(ctx, c, "n", time.Minute, nil, func(context.Context) (int, error) {
			close(entered)
			<-release
			return 7, nil
		}); err != nil || v != 7 {
			t.Errorf("int caller = %d, %v; want 7, nil", v, err)
		}
	}()
	<-entered

	// Numeric widening through the codec serves the waiter without a
	// second compute.
	var calls atomic.Int32
	var floatVal float64
	var floatErr error
	floatDone := make(chan struct{})
	go func() {
		defer close(floatDone)
		floatVal, floatErr = GetOrCompute(ctx, c, "n", time.Minute, nil, func(context.Context) (float64, error) {
			calls.Add(1)
			return -1, nil
		})
	}()

	time.Sleep(10 * time.Millisecond)
	close(release)
	<-intDone
	<-floatDone

	if floatErr != nil || floatVal != 7 {
		t.Fatalf("float caller = %v, %v; want 7, nil", floatVal, floatErr)
	}
	if got := calls.Load(); got != 0 {
		t.Fatalf("float compute ran %d times; want 0", got)
	}
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	c, _ := newTestCache(t, mr, "app", nil)
	ctx := context.Background()

	boom := errors.New("backend down")
	_, err := GetOrCompute(ctx, c, "k", time.Minute, nil, func(context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want %v", err, boom)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("failed compute left a cached value")
	}

	// The key recovers on the next successful compute.
	v, err := GetOrCompute(ctx, c, "k", time.Minute, nil, func(context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Fatalf("recovery GetOrCompute = %q, %v", v, err)
	}
}
