package integration

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/migration"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
	"github.com/fhuszti/videos-ms-go/test/testutil"
)

func setupRepository(t *testing.T) (*mariadb.VideoRepository, *sql.DB) {
	t.Helper()

	testDB, err := testutil.SetupTestDB()
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	t.Cleanup(func() { _ = testDB.Cleanup() })

	if err := migration.MigrateUp(context.Background(), testDB.DB); err != nil {
		t.Fatalf("could not run migrations: %v", err)
	}
	return mariadb.NewVideoRepository(testDB.DB), testDB.DB
}

func createVideo(t *testing.T, repo *mariadb.VideoRepository, title string) (*model.Video, *model.ProcessingJob) {
	t.Helper()
	v := model.NewVideo(uuid.NewUUID(), title, "https://blob.example.com/videos/"+title+".mp4", "video/mp4", 1024)
	job := model.NewProcessingJob(uuid.NewUUID(), v.ID)
	if err := repo.CreateWithJob(context.Background(), v, job); err != nil {
		t.Fatalf("CreateWithJob: %v", err)
	}
	return v, job
}

func TestVideoRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)

	v, job := createVideo(t, repo, "clip-a")

	got, err := repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "clip-a" || got.Status != model.VideoStatusProcessing || got.ProcessingCompleted {
		t.Errorf("stored video = %+v", got)
	}
	if got.CurrentJobID == nil || *got.CurrentJobID != job.ID {
		t.Fatalf("current job = %v; want %s", got.CurrentJobID, job.ID)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := job.Start(now); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := repo.UpdateJob(ctx, job); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if err := job.Succeed(now.Add(time.Second)); err != nil {
		t.Fatalf("Succeed: %v", err)
	}
	got.MarkReady("https://blob.example.com/thumbnails/a.webp", 42)
	if err := repo.SaveProcessingResult(ctx, got, job); err != nil {
		t.Fatalf("SaveProcessingResult: %v", err)
	}

	ready, err := repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ready.Status != model.VideoStatusReady || ready.DurationSeconds == nil || *ready.DurationSeconds != 42 || ready.ThumbnailURL == nil {
		t.Errorf("ready video = %+v", ready)
	}

	current, err := repo.GetCurrentJob(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetCurrentJob: %v", err)
	}
	if current.Status != model.JobStatusCompleted || current.StartedAt == nil || current.CompletedAt == nil {
		t.Errorf("current job = %+v", current)
	}
}

func TestVideoRepository_StartNewJobGuardsConcurrentReprocess(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)

	v, first := createVideo(t, repo, "clip-b")
	previous := first.ID

	second := model.NewProcessingJob(uuid.NewUUID(), v.ID)
	v.ResetForProcessing(second.ID)
	if err := repo.StartNewJob(ctx, v, second, &previous); err != nil {
		t.Fatalf("StartNewJob: %v", err)
	}

	// a racing request still believes the first job is current
	third := model.NewProcessingJob(uuid.NewUUID(), v.ID)
	v.ResetForProcessing(third.ID)
	err := repo.StartNewJob(ctx, v, third, &previous)
	if !errors.Is(err, video.ErrJobActive) {
		t.Fatalf("StartNewJob with stale previous job: err = %v; want ErrJobActive", err)
	}

	current, err := repo.GetCurrentJob(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetCurrentJob: %v", err)
	}
	if current.ID != second.ID {
		t.Errorf("current job = %s; want %s", current.ID, second.ID)
	}
}

func TestVideoRepository_DeleteCascadesJobs(t *testing.T) {
	ctx := context.Background()
	repo, db := setupRepository(t)

	v, _ := createVideo(t, repo, "clip-c")

	if err := repo.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, v.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID after delete: err = %v; want sql.ErrNoRows", err)
	}

	var jobs int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM video_processing_jobs WHERE video_id = ?", v.ID).Scan(&jobs); err != nil {
		t.Fatalf("count jobs: %v", err)
	}
	if jobs != 0 {
		t.Errorf("jobs left after delete = %d; want 0", jobs)
	}

	if err := repo.Delete(ctx, v.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second Delete: err = %v; want sql.ErrNoRows", err)
	}
}

func TestVideoRepository_ListAndStaleJobs(t *testing.T) {
	ctx := context.Background()
	repo, db := setupRepository(t)

	_, _ = createVideo(t, repo, "clip-d")
	v, job := createVideo(t, repo, "clip-e")
	lostVideo, lostJob := createVideo(t, repo, "clip-f")
	if _, err := db.ExecContext(ctx, "UPDATE video_processing_jobs SET created_at = ? WHERE id = ?",
		time.Now().UTC().Add(-3*time.Hour), lostJob.ID); err != nil {
		t.Fatalf("backdate job: %v", err)
	}

	if err := job.Start(time.Now().UTC().Add(-2 * time.Hour)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := repo.UpdateJob(ctx, job); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}

	processing := model.VideoStatusProcessing
	videos, total, err := repo.List(ctx, port.ListVideosFilter{Status: &processing, Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(videos) != 1 {
		t.Errorf("List = %d videos of %d; want 1 of 3", len(videos), total)
	}

	stale, err := repo.ListStaleJobs(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListStaleJobs: %v", err)
	}
	if len(stale) != 2 {
		t.Fatalf("stale jobs = %+v; want the processing and the lost pending job", stale)
	}
	got := map[string]string{}
	for _, j := range stale {
		got[j.ID.String()] = j.VideoID.String() + "/" + string(j.Status)
	}
	if got[job.ID.String()] != v.ID.String()+"/processing" {
		t.Errorf("processing job #%s missing: %v", job.ID, got)
	}
	if got[lostJob.ID.String()] != lostVideo.ID.String()+"/pending" {
		t.Errorf("pending job #%s missing: %v", lostJob.ID, got)
	}
}
