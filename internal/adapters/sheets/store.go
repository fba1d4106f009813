// Package sheets implements the SheetStore port against the Google Sheets
// API using a service account.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/thaiba/mediatasks/internal/domain/entities"
	"github.com/thaiba/mediatasks/internal/ports"
)

const spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"

// Config carries the store credentials and identifier. Either
// ServiceAccountJSON or the ClientEmail/PrivateKey pair must be set.
type Config struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	ClientEmail        string
	PrivateKey         string
}

// Store talks to one spreadsheet. All calls are bounded by the caller's
// context; the store itself never retries.
type Store struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

// New builds the Sheets client from service-account credentials.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, &entities.ConfigurationError{Missing: "spreadsheet id"}
	}

	jwtConfig, err := jwtConfigFrom(cfg)
	if err != nil {
		return nil, err
	}

	service, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to build sheets service: %w", err)
	}

	return &Store{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

func jwtConfigFrom(cfg Config) (*jwt.Config, error) {
	if cfg.ServiceAccountJSON != "" {
		conf, err := google.JWTConfigFromJSON([]byte(cfg.ServiceAccountJSON), spreadsheetScope)
		if err != nil {
			return nil, &entities.ConfigurationError{Missing: "valid service account JSON"}
		}
		return conf, nil
	}
	if cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, &entities.ConfigurationError{Missing: "service account credentials"}
	}
	return &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{spreadsheetScope},
		TokenURL:   google.JWTTokenURL,
	}, nil
}

func (s *Store) HeaderRow(ctx context.Context, sheet string) ([]string, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("%s!1:1", sheet)).
		Context(ctx).Do()
	if err != nil {
		return nil, s.wrap("header read", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

func (s *Store) Rows(ctx context.Context, sheet string, firstRow int) ([][]string, error) {
	if firstRow < 1 {
		firstRow = 1
	}
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("%s!A%d:Z", sheet, firstRow)).
		Context(ctx).Do()
	if err != nil {
		return nil, s.wrap("row read", err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		rows = append(rows, toStrings(row))
	}
	return rows, nil
}

func (s *Store) AppendRow(ctx context.Context, sheet string, row []string) (int, error) {
	body := &sheetsapi.ValueRange{Values: [][]interface{}{toValues(row)}}
	resp, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, fmt.Sprintf("%s!A:%s", sheet, columnLetter(len(row))), body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, s.wrap("row append", err)
	}
	if resp.Updates == nil {
		return 0, s.wrap("row append", fmt.Errorf("append reported no updates"))
	}
	rowNum, err := rowFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, s.wrap("row append", err)
	}
	return rowNum, nil
}

func (s *Store) WriteRange(ctx context.Context, sheet string, row, firstColumn int, values []string) error {
	rangeSpec := fmt.Sprintf("%s!%s%d:%s%d",
		sheet,
		columnLetter(firstColumn), row,
		columnLetter(firstColumn+len(values)-1), row)
	body := &sheetsapi.ValueRange{Values: [][]interface{}{toValues(values)}}
	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, rangeSpec, body).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return s.wrap("range write", err)
	}
	return nil
}

func (s *Store) AppendAudit(ctx context.Context, sheet string, entry []string) error {
	body := &sheetsapi.ValueRange{Values: [][]interface{}{toValues(entry)}}
	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, fmt.Sprintf("%s!A:%s", sheet, columnLetter(len(entry))), body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return s.wrap("audit append", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.service.Spreadsheets.
		Get(s.spreadsheetID).
		Fields("spreadsheetId").
		Context(ctx).Do()
	if err != nil {
		return s.wrap("ping", err)
	}
	return nil
}

func (s *Store) Describe(ctx context.Context) (ports.SheetInfo, error) {
	resp, err := s.service.Spreadsheets.
		Get(s.spreadsheetID).
		Fields("properties.title", "sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return ports.SheetInfo{}, s.wrap("describe", err)
	}

	info := ports.SheetInfo{}
	if resp.Properties != nil {
		info.Title = resp.Properties.Title
	}
	for _, tab := range resp.Sheets {
		if tab.Properties != nil {
			info.Tabs = append(info.Tabs, tab.Properties.Title)
		}
	}
	return info, nil
}

// wrap folds every API failure, including 403s from an unshared spreadsheet
// and context timeouts, into the typed store error. Classification happens
// here at the point of failure, never later from error text.
func (s *Store) wrap(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &entities.StoreUnavailableError{
			Op:  op,
			Err: fmt.Errorf("sheets API status %d: %s", apiErr.Code, apiErr.Message),
		}
	}
	return &entities.StoreUnavailableError{Op: op, Err: err}
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = fmt.Sprint(cell)
	}
	return out
}

func toValues(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}

// columnLetter converts a 1-based column index to A1 notation (1=A, 27=AA).
func columnLetter(column int) string {
	if column < 1 {
		column = 1
	}
	letters := ""
	for column > 0 {
		column--
		letters = string(rune('A'+column%26)) + letters
		column /= 26
	}
	return letters
}

// rowFromRange extracts the row number from an updated range like
// "Tasks!A7:H7".
func rowFromRange(updatedRange string) (int, error) {
	if i := strings.IndexByte(updatedRange, '!'); i >= 0 {
		updatedRange = updatedRange[i+1:]
	}
	if i := strings.IndexByte(updatedRange, ':'); i >= 0 {
		updatedRange = updatedRange[:i]
	}
	digits := strings.TrimLeft(updatedRange, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	rowNum, err := strconv.Atoi(digits)
	if err != nil || rowNum < 1 {
		return 0, fmt.Errorf("unparseable updated range %q", updatedRange)
	}
	return rowNum, nil
}
