package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotFound = errors.New("record not found")
)

// ReportKind identifies which flow produced a report.
type ReportKind string

const (
	ReportKindESGAnalysis    ReportKind = "esg_analysis"
	ReportKindPackagingScore ReportKind = "packaging_score"
)

// Report is an archived model answer.
type Report struct {
	ID        uuid.UUID  `json:"id"`
	Kind      ReportKind `json:"kind"`
	Source    string     `json:"source"`
	Content   string     `json:"content"`
	Pages     int        `json:"pages,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// DownloadName is the attachment file name offered for the report.
func (r *Report) DownloadName() string {
	base := strings.TrimSuffix(filepath.Base(r.Source), filepath.Ext(r.Source))
	base = strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			return c
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "_" {
		base = r.ID.String()
	}
	return fmt.Sprintf("%s_%s.txt", r.Kind, base)
}

// ReportRepository handles report persistence.
type ReportRepository struct {
	db DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save inserts a report, assigning an ID and timestamp when unset.
func (r *ReportRepository) Save(ctx context.Context, report *Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reports (id, kind, source, content, pages, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID.String(), string(report.Kind), report.Source, report.Content,
		report.Pages, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Get retrieves a report by ID.
func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	query := `
		SELECT id, kind, source, content, pages, created_at
		FROM reports WHERE id = $1
	`
	report, err := scanReport(r.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}

// List returns the most recent reports, newest first.
func (r *ReportRepository) List(ctx context.Context, limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, kind, source, content, pages, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(s scanner) (*Report, error) {
	var (
		report Report
		id     string
		kind   string
	)
	if err := s.Scan(&id, &kind, &report.Source, &report.Content, &report.Pages, &report.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid report id %q: %w", id, err)
	}
	report.ID = parsed
	report.Kind = ReportKind(kind)
	return &report, nil
}
