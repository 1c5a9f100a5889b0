package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxpoint/internal/domain"
	"taxpoint/internal/port"
)

// ImportService ingests orders from uploaded CSV files.
type ImportService interface {
	ImportCSV(ctx context.Context, fileName string, r io.Reader) (*domain.ImportResult, error)
}

// ImportConfig holds optional side effects of an import.
type ImportConfig struct {
	ArchivePrefix string
	NotifyAddress string
}

type importService struct {
	orderRepo port.OrderRepository
	storage   port.ObjectStorage
	email     port.EmailSender
	cfg       ImportConfig
}

// NewImportService creates a new ImportService implementation. storage and
// email may be nil when archival or notification is disabled.
func NewImportService(orderRepo port.OrderRepository, storage port.ObjectStorage, email port.EmailSender, cfg ImportConfig) ImportService {
	return &importService{orderRepo: orderRepo, storage: storage, email: email, cfg: cfg}
}

// ImportCSV parses the uploaded file, persists valid rows as unresolved
// orders and reports per-line errors for the rest. Column headers are
// matched loosely so exports from different systems import cleanly.
func (s *importService) ImportCSV(ctx context.Context, fileName string, r io.Reader) (*domain.ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("importService.ImportCSV read: %w", err)
	}

	result := &domain.ImportResult{FileName: fileName}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, domain.ErrEmptyImport
	}

	latIdx := findColumn(header, "latitude", "lat")
	lonIdx := findColumn(header, "longitude", "lon", "lng")
	subIdx := findColumn(header, "subtotal", "amount", "price")
	tsIdx := findColumn(header, "timestamp", "date", "datetime", "created_at")

	if latIdx == -1 || lonIdx == -1 || subIdx == -1 {
		return nil, domain.ErrMissingCSVColumns
	}

	var orders []domain.Order
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		order, err := parseOrderRecord(record, latIdx, lonIdx, subIdx, tsIdx)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		orders = append(orders, *order)
	}

	if len(orders) > 0 {
		if err := s.orderRepo.CreateBatch(ctx, orders); err != nil {
			return nil, err
		}
	}
	result.Imported = len(orders)

	s.archive(ctx, fileName, raw)
	s.notify(ctx, result)

	return result, nil
}

func parseOrderRecord(record []string, latIdx, lonIdx, subIdx, tsIdx int) (*domain.Order, error) {
	latStr := field(record, latIdx)
	lonStr := field(record, lonIdx)
	subStr := field(record, subIdx)
	if latStr == "" || lonStr == "" || subStr == "" {
		return nil, fmt.Errorf("missing required fields")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q", lonStr)
	}
	subtotal, err := strconv.ParseFloat(subStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid subtotal %q", subStr)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, domain.ErrInvalidCoordinates
	}
	if subtotal < 0 {
		return nil, domain.ErrInvalidSubtotal
	}

	return &domain.Order{
		ID:               uuid.New(),
		Latitude:         lat,
		Longitude:        lon,
		Subtotal:         subtotal,
		Timestamp:        parseTimestamp(field(record, tsIdx)),
		ResolutionStatus: domain.ResolutionUnresolved,
	}, nil
}

// findColumn matches header names loosely: lowercased, spaces and dashes
// folded to underscores, substring match against the candidates.
func findColumn(header []string, names ...string) int {
	for i, h := range header {
		h = strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(h)))
		for _, n := range names {
			if strings.Contains(h, n) {
				return i
			}
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// archive uploads the raw file for audit. Failures are logged, not fatal.
func (s *importService) archive(ctx context.Context, fileName string, raw []byte) {
	if s.storage == nil {
		return
	}
	key := fmt.Sprintf("%s/%s/%s", s.cfg.ArchivePrefix, time.Now().UTC().Format("2006-01-02"), fileName)
	if _, err := s.storage.Upload(ctx, key, "text/csv", bytes.NewReader(raw)); err != nil {
		log.Printf("importService: archiving %s failed: %v", fileName, err)
	}
}

// notify emails the import summary. Failures are logged, not fatal.
func (s *importService) notify(ctx context.Context, result *domain.ImportResult) {
	if s.email == nil || s.cfg.NotifyAddress == "" {
		return
	}
	if err := s.email.SendImportSummary(ctx, s.cfg.NotifyAddress, result); err != nil {
		log.Printf("importService: sending import summary failed: %v", err)
	}
}
