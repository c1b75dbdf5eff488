package ui

import (
	"github.com/charmbracelet/log"
	"github.com/closetlab/wardrobe/internal/api"
	"github.com/closetlab/wardrobe/internal/db"
)

// Run alternates between the history browser and the deals feed until the
// user quits from either. Tab switches views; each switch starts the
// target view fresh.
func Run(client *api.Client, dealsClient *api.DealsClient, cache *db.DB, logger *log.Logger) error {
	for {
		toDeals, err := RunHistoryBrowser(client, cache, logger)
		if err != nil {
			return err
		}
		if !toDeals {
			return nil
		}

		toHistory, err := RunDealsBrowser(dealsClient, logger)
		if err != nil {
			return err
		}
		if !toHistory {
			return nil
		}
	}
}
