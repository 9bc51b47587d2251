package storage

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/fund-recommender/internal/common"
	"github.com/bobmcallan/fund-recommender/internal/config"
	"github.com/bobmcallan/fund-recommender/internal/interfaces"
	"github.com/bobmcallan/fund-recommender/internal/storage/badger"
	"github.com/bobmcallan/fund-recommender/internal/storage/xlsx"
)

// NewRecordStore creates the submission record store selected by cfg.Storage.Backend.
func NewRecordStore(logger *common.Logger, cfg *config.Config) (interfaces.RecordStore, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case config.BackendXLSX, "":
		return xlsx.NewStore(logger, &cfg.Storage.XLSX)
	case config.BackendBadger:
		db, err := badger.NewBadgerDB(logger, &cfg.Storage.Badger)
		if err != nil {
			return nil, err
		}
		return badger.NewRecordStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
