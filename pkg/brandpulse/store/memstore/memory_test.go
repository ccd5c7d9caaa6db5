package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/cognicore/brandpulse/pkg/brandpulse/geocode"
	"github.com/cognicore/brandpulse/pkg/brandpulse/posts"
	"github.com/cognicore/brandpulse/pkg/brandpulse/store"
)

var _ store.Store = (*Store)(nil)

func TestArchiveAndTag(t *testing.T) {
	ctx := context.Background()
	s := New()

	n, err := s.ArchivePosts(ctx, []posts.Post{{URI: "1"}, {URI: "2"}, {URI: "1"}}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("inserted %d, want 2", n)
	}

	if err := s.TagPosts(ctx, "plans", []string{"2", "unknown"}); err != nil {
		t.Fatal(err)
	}
	got, _ := s.PostsByCategory(ctx, "plans", 0)
	if len(got) != 1 || got[0].URI != "2" {
		t.Errorf("unexpected category posts: %+v", got)
	}
	if count, _ := s.CountPosts(ctx); count != 2 {
		t.Errorf("CountPosts = %d", count)
	}
}

func TestRecentRunsOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Now()

	for i, id := range []string{"a", "b", "c"} {
		if err := s.RecordRun(ctx, store.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatal(err)
		}
	}
	runs, _ := s.RecentRuns(ctx, 2)
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("unexpected runs: %+v", runs)
	}
	if err := s.RecordRun(ctx, store.Run{}); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestCoordCache(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.PutCoord(ctx, "Austin, Texas", geocode.Coord{Lat: 30.2, Lon: -97.7}); err != nil {
		t.Fatal(err)
	}
	c, ok, _ := s.GetCoord(ctx, "Austin, Texas")
	if !ok || c.Lat != 30.2 {
		t.Errorf("cache miss or wrong value: %+v %v", c, ok)
	}
}
