package sheetsvc

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/roster"
)

// service reads the roster spreadsheet through the Sheets values API with
// an API key (the sheet is link-readable, no OAuth dance needed).
type service struct {
	apiKey        string
	spreadsheetID string
	readRange     string
}

var _ roster.Source = (*service)(nil)

func NewService(conf *core.Config) *service {
	return &service{
		apiKey:        conf.Sheets.APIKey,
		spreadsheetID: conf.Sheets.SpreadsheetID,
		readRange:     conf.Sheets.ReadRange,
	}
}

func (svc *service) Fetch(ctx context.Context) ([][]string, error) {
	// configuration is checked per run, not at startup, so a half-configured
	// deployment still serves check-ins and reports the sync failure verbatim
	if svc.apiKey == "" || svc.spreadsheetID == "" {
		return nil, errors.New("google sheets api not configured")
	}

	api, err := sheets.NewService(ctx, option.WithAPIKey(svc.apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "creating sheets client")
	}

	resp, err := api.Spreadsheets.Values.Get(svc.spreadsheetID, svc.readRange).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "fetching sheet values")
	}

	table := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		table = append(table, row)
	}
	return table, nil
}
