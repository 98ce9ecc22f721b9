package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

const videoColumns = `id, title, blob_url, blob_pathname, thumbnail_url, content_type, size_bytes,
        duration_seconds, status, upload_completed, processing_completed, current_job_id, created_at, updated_at`

const jobColumns = `id, video_id, job_status, error_message, started_at, completed_at, created_at, updated_at`

type VideoRepository struct {
	db *sql.DB
}

// compile-time check: *VideoRepository must satisfy port.VideoRepository
var _ port.VideoRepository = (*VideoRepository)(nil)

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *VideoRepository) CreateWithJob(ctx context.Context, v *model.Video, job *model.ProcessingJob) error {
	logger.Debugf(ctx, "creating database record for video #%s with job #%s...", v.ID, job.ID)

	return r.withTx(ctx, func(tx *sql.Tx) error {
		const insertVideo = `
      INSERT INTO videos
        (id, title, blob_url, blob_pathname, thumbnail_url, content_type, size_bytes,
         duration_seconds, status, upload_completed, processing_completed, current_job_id)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
		if _, err := tx.ExecContext(ctx, insertVideo,
			v.ID, v.Title, v.BlobURL, v.BlobPathname, v.ThumbnailURL, v.ContentType, v.SizeBytes,
			v.DurationSeconds, v.Status, v.UploadCompleted, v.ProcessingCompleted, job.ID,
		); err != nil {
			return fmt.Errorf("insert video: %w", err)
		}
		if err := insertJob(ctx, tx, job); err != nil {
			return err
		}
		v.CurrentJobID = &job.ID
		return nil
	})
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	logger.Debugf(ctx, "fetching video #%s from the database...", id)

	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = ?`
	return scanVideo(r.db.QueryRowContext(ctx, query, id))
}

func (r *VideoRepository) List(ctx context.Context, f port.ListVideosFilter) ([]*model.Video, int, error) {
	var (
		where string
		args  []any
	)
	if f.Status != nil {
		where = ` WHERE status = ?`
		args = append(args, *f.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}
	if total == 0 {
		return []*model.Video{}, 0, nil
	}

	query := `SELECT ` + videoColumns + ` FROM videos` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	videos := make([]*model.Video, 0, f.Limit)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}
	return videos, total, nil
}

// Delete removes the video; its jobs go with it through the foreign key cascade.
func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	logger.Debugf(ctx, "deleting video #%s from the database...", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *VideoRepository) GetCurrentJob(ctx context.Context, videoID uuid.UUID) (*model.ProcessingJob, error) {
	const query = `
      SELECT j.id, j.video_id, j.job_status, j.error_message, j.started_at, j.completed_at, j.created_at, j.updated_at
      FROM video_processing_jobs j
      JOIN videos v ON v.current_job_id = j.id
      WHERE v.id = ?
    `
	return scanJob(r.db.QueryRowContext(ctx, query, videoID))
}

func (r *VideoRepository) UpdateJob(ctx context.Context, job *model.ProcessingJob) error {
	logger.Debugf(ctx, "updating job #%s to status %q...", job.ID, job.Status)
	return updateJob(ctx, r.db, job)
}

func (r *VideoRepository) SaveProcessingResult(ctx context.Context, v *model.Video, job *model.ProcessingJob) error {
	logger.Debugf(ctx, "saving result of job #%s: video %q, job %q...", job.ID, v.Status, job.Status)

	return r.withTx(ctx, func(tx *sql.Tx) error {
		const query = `
      UPDATE videos
      SET
        thumbnail_url        = ?,
        duration_seconds     = ?,
        status               = ?,
        processing_completed = ?
      WHERE id = ?
    `
		if _, err := tx.ExecContext(ctx, query,
			v.ThumbnailURL, v.DurationSeconds, v.Status, v.ProcessingCompleted,
			v.ID, // WHERE clause
		); err != nil {
			return fmt.Errorf("update video: %w", err)
		}
		return updateJob(ctx, tx, job)
	})
}

func (r *VideoRepository) StartNewJob(ctx context.Context, v *model.Video, job *model.ProcessingJob, previousJobID *uuid.UUID) error {
	logger.Debugf(ctx, "starting job #%s for video #%s...", job.ID, v.ID)

	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertJob(ctx, tx, job); err != nil {
			return err
		}

		const query = `
      UPDATE videos
      SET
        thumbnail_url        = ?,
        duration_seconds     = ?,
        status               = ?,
        processing_completed = ?,
        current_job_id       = ?
      WHERE id = ? AND current_job_id <=> ?
    `
		res, err := tx.ExecContext(ctx, query,
			v.ThumbnailURL, v.DurationSeconds, v.Status, v.ProcessingCompleted, job.ID,
			v.ID, nullUUID(previousJobID), // WHERE clause
		)
		if err != nil {
			return fmt.Errorf("update video: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return video.ErrJobActive
		}
		return nil
	})
}

// ListStaleJobs returns jobs processing since before the cutoff and jobs still
// pending that were created before it.
func (r *VideoRepository) ListStaleJobs(ctx context.Context, before time.Time) ([]*model.ProcessingJob, error) {
	query := `SELECT ` + jobColumns + ` FROM video_processing_jobs
      WHERE (job_status = ? AND started_at < ?)
         OR (job_status = ? AND created_at < ?)
      ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query,
		model.JobStatusProcessing, before,
		model.JobStatusPending, before,
	)
	if err != nil {
		return nil, fmt.Errorf("list stale jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []*model.ProcessingJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stale jobs: %w", err)
	}
	return jobs, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertJob(ctx context.Context, db execer, job *model.ProcessingJob) error {
	const query = `
      INSERT INTO video_processing_jobs
        (id, video_id, job_status, error_message, started_at, completed_at)
      VALUES (?, ?, ?, ?, ?, ?)
    `
	if _, err := db.ExecContext(ctx, query,
		job.ID, job.VideoID, job.Status, job.ErrorMessage, job.StartedAt, job.CompletedAt,
	); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func updateJob(ctx context.Context, db execer, job *model.ProcessingJob) error {
	const query = `
      UPDATE video_processing_jobs
      SET
        job_status    = ?,
        error_message = ?,
        started_at    = ?,
        completed_at  = ?
      WHERE id = ?
    `
	if _, err := db.ExecContext(ctx, query,
		job.Status, job.ErrorMessage, job.StartedAt, job.CompletedAt,
		job.ID, // WHERE clause
	); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (r *VideoRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Errorf(ctx, "❌ rollback failed: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func scanVideo(row rowScanner) (*model.Video, error) {
	var (
		v          model.Video
		currentJob uuid.NullUUID
	)
	if err := row.Scan(
		&v.ID, &v.Title, &v.BlobURL, &v.BlobPathname, &v.ThumbnailURL, &v.ContentType, &v.SizeBytes,
		&v.DurationSeconds, &v.Status, &v.UploadCompleted, &v.ProcessingCompleted, &currentJob,
		&v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if currentJob.Valid {
		id := currentJob.UUID
		v.CurrentJobID = &id
	}
	return &v, nil
}

func scanJob(row rowScanner) (*model.ProcessingJob, error) {
	var j model.ProcessingJob
	if err := row.Scan(
		&j.ID, &j.VideoID, &j.Status, &j.ErrorMessage, &j.StartedAt, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &j, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
