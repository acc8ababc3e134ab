package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/trigedasleng/trigdict/pkg/db"
)

// ErrSeed marks a failure to guarantee the fixed rows every table depends on.
// It is fatal to a migration run.
var ErrSeed = errors.New("seed fixed entities")

// Seed guarantees the fixed dictionaries, the classification vocabulary, the
// series with seasons 1..seasons and the speaker roster, recording their ids in mc.
func Seed(conn db.DBExecutor, mc *Context, seasons int, speakers []string) error {
	for _, name := range Dictionaries {
		id, err := db.CreateOrGetDictionary(conn, name)
		if err != nil {
			return fmt.Errorf("%w: dictionary %s: %w", ErrSeed, name, err)
		}
		mc.Dictionaries[name] = id
	}

	for _, name := range Classifications {
		id, err := db.CreateOrGetClassification(conn, name)
		if err != nil {
			return fmt.Errorf("%w: classification %s: %w", ErrSeed, name, err)
		}
		mc.Classifications[name] = id
	}

	seriesID, err := db.CreateOrGetSeries(conn, SeriesName)
	if err != nil {
		return fmt.Errorf("%w: series %s: %w", ErrSeed, SeriesName, err)
	}
	mc.SeriesID = seriesID

	for n := 1; n <= seasons; n++ {
		id, err := db.CreateOrGetSeason(conn, seriesID, n)
		if err != nil {
			return fmt.Errorf("%w: season %d: %w", ErrSeed, n, err)
		}
		mc.Seasons[n] = id
	}

	for _, name := range speakers {
		if strings.TrimSpace(name) == "" {
			continue
		}
		id, err := db.CreateOrGetSpeaker(conn, seriesID, name)
		if err != nil {
			return fmt.Errorf("%w: speaker %s: %w", ErrSeed, name, err)
		}
		mc.Speakers[strings.ToLower(strings.TrimSpace(name))] = id
	}
	return nil
}
