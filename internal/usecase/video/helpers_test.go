package video

import (
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func clock() time.Time { return fixedNow }

// idSeq returns a generator handing out ids in order.
func idSeq(ids ...uuid.UUID) port.UUIDGen {
	i := 0
	return func() uuid.UUID {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func processingVideo(size int64) (*model.Video, *model.ProcessingJob) {
	v := model.NewVideo(uuid.NewUUID(), "clip", "https://store.local/videos/videos/source.mov", "video/quicktime", size)
	j := model.NewProcessingJob(uuid.NewUUID(), v.ID)
	v.CurrentJobID = &j.ID
	return v, j
}
