package video

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/mock"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

func TestListVideos_Paging(t *testing.T) {
	ready := model.VideoStatusReady
	tests := []struct {
		name       string
		in         port.ListVideosInput
		total      int
		wantOffset int
		wantLimit  int
		wantPages  int
	}{
		{name: "defaults", in: port.ListVideosInput{}, total: 45, wantOffset: 0, wantLimit: 20, wantPages: 3},
		{name: "third page", in: port.ListVideosInput{Page: 3, Limit: 10}, total: 25, wantOffset: 20, wantLimit: 10, wantPages: 3},
		{name: "max limit", in: port.ListVideosInput{Page: 1, Limit: 100, Status: &ready}, total: 100, wantOffset: 0, wantLimit: 100, wantPages: 1},
		{name: "empty", in: port.ListVideosInput{}, total: 0, wantOffset: 0, wantLimit: 20, wantPages: 0},
		{name: "last addressable page", in: port.ListVideosInput{Page: math.MaxInt32/10 + 1, Limit: 10}, total: 5, wantOffset: math.MaxInt32 / 10 * 10, wantLimit: 10, wantPages: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mock.VideoRepository{ListTotal: tc.total}
			out, err := NewVideoLister(repo).ListVideos(context.Background(), tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.GotFilter.Offset != tc.wantOffset || repo.GotFilter.Limit != tc.wantLimit {
				t.Errorf("filter = %+v; want offset %d limit %d", repo.GotFilter, tc.wantOffset, tc.wantLimit)
			}
			if repo.GotFilter.Status != tc.in.Status {
				t.Error("status filter not forwarded")
			}
			if out.TotalPages != tc.wantPages || out.Total != tc.total || out.Limit != tc.wantLimit {
				t.Errorf("out = %+v", out)
			}
			if out.Videos == nil {
				t.Error("videos should never be nil")
			}
		})
	}
}

func TestListVideos_InvalidInput(t *testing.T) {
	bogus := model.VideoStatus("bogus")
	tests := []struct {
		name string
		in   port.ListVideosInput
	}{
		{"negative page", port.ListVideosInput{Page: -1}},
		{"negative limit", port.ListVideosInput{Limit: -5}},
		{"limit too large", port.ListVideosInput{Limit: MaxLimit + 1}},
		{"page overflows the offset", port.ListVideosInput{Page: math.MaxInt, Limit: 50}},
		{"page past the offset range", port.ListVideosInput{Page: math.MaxInt32/10 + 2, Limit: 10}},
		{"unknown status", port.ListVideosInput{Status: &bogus}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mock.VideoRepository{}
			_, err := NewVideoLister(repo).ListVideos(context.Background(), tc.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v; want ErrInvalidInput", err)
			}
			if repo.ListCalled {
				t.Error("repository must not be queried")
			}
		})
	}
}

func TestListVideos_RepoError(t *testing.T) {
	repo := &mock.VideoRepository{ListErr: errors.New("boom")}
	if _, err := NewVideoLister(repo).ListVideos(context.Background(), port.ListVideosInput{}); !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v; want ErrPersistence", err)
	}
}
