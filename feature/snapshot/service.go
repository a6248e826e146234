package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"odf-core/core/storage"
	"odf-core/feature/odf/models"
)

// MedalTallyRow is one delegation's standing in the composite snapshot,
// joined with its delegation names and flag.
type MedalTallyRow struct {
	Rank    int    `json:"rank"`
	Flag    string `json:"flag"`
	NOC     string `gorm:"column:noc" json:"noc"`
	Name    string `json:"name"`
	Golds   int    `json:"golds"`
	Silvers int    `json:"silvers"`
	Bronzes int    `json:"bronzes"`
	Total   int    `json:"total"`
}

// TimetableRow is one unit in start-time order, joined with its event
// name.
type TimetableRow struct {
	StartTime *time.Time `json:"start_time"`
	Event     string     `json:"event"`
	Phase     string     `json:"phase"`
}

// Meta groups the raw entity tables clients index into by identifier.
type Meta struct {
	Events       []models.Event       `json:"events"`
	Units        []models.Schedule    `json:"units"`
	Participants []models.Participant `json:"participants"`
}

// Snapshot is the composite read-side document: every reconciled table,
// shaped for display clients.
type Snapshot struct {
	TournamentInfo *models.TournamentInfo  `json:"tournament_info"`
	MedalTally     []MedalTallyRow         `json:"medal_tally"`
	Timetable      []TimetableRow          `json:"timetable"`
	StartList      []models.StartListEntry `json:"start_list"`
	Results        []models.Result         `json:"results"`
	Medallists     []models.Medallist      `json:"medallists"`
	Meta           Meta                    `json:"meta"`
}

// Service builds the composite snapshot.
type Service struct {
	db         *gorm.DB
	logger     *zap.Logger
	store      storage.Client
	storageCfg storage.Config
}

// NewService creates the snapshot service. store may be nil when no
// object storage is configured; flag resolution is skipped then.
func NewService(db *gorm.DB, logger *zap.Logger, store storage.Client, storageCfg storage.Config) *Service {
	return &Service{
		db:         db,
		logger:     logger,
		store:      store,
		storageCfg: storageCfg,
	}
}

// Build assembles the snapshot from the reconciled tables. Entity
// tables are read in one session, so the document is as consistent as
// the transaction boundaries the ingestion side commits.
func (s *Service) Build(ctx context.Context) (*Snapshot, error) {
	db := s.db.WithContext(ctx)
	out := &Snapshot{
		MedalTally: []MedalTallyRow{},
		Timetable:  []TimetableRow{},
	}

	var info models.TournamentInfo
	if err := db.First(&info).Error; err == nil {
		out.TournamentInfo = &info
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err := db.Model(&models.MedalTally{}).
		Select("medaltally.rank, nocs.flag_url_cloud AS flag, medaltally.noc, nocs.long_name AS name, " +
			"medaltally.golds, medaltally.silvers, medaltally.bronzes, medaltally.total").
		Joins("JOIN nocs ON nocs.code = medaltally.noc").
		Order("medaltally.rank").
		Scan(&out.MedalTally).Error
	if err != nil {
		return nil, err
	}
	for i := range out.MedalTally {
		row := &out.MedalTally[i]
		row.Flag = s.resolveFlag(ctx, row.NOC, row.Flag)
	}

	err = db.Model(&models.Schedule{}).
		Select("schedule.start_time, events.name AS event, schedule.phase").
		Joins("JOIN events ON events.event_id = schedule.event_id").
		Order("schedule.start_time").
		Scan(&out.Timetable).Error
	if err != nil {
		return nil, err
	}

	if err := db.Find(&out.StartList).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&out.Results).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&out.Medallists).Error; err != nil {
		return nil, err
	}

	if err := db.Find(&out.Meta.Events).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&out.Meta.Units).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&out.Meta.Participants).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// resolveFlag falls back to the conventional bucket location when the
// delegation row carries no flag URL yet.
func (s *Service) resolveFlag(ctx context.Context, noc, current string) string {
	if current != "" || s.store == nil || noc == "" {
		return current
	}
	object := "flags/" + noc + ".png"
	if _, err := s.store.StatObject(ctx, s.storageCfg.Bucket, object, minio.StatObjectOptions{}); err != nil {
		return ""
	}
	return storage.PublicURL(s.storageCfg, object)
}
