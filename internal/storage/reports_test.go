package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/esg-assistant/internal/config"
)

func openTestDB(t *testing.T) *ReportRepository {
	t.Helper()
	db, err := Open(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReportRepository(db)
}

func TestOpen_Disabled(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	repo := openTestDB(t)
	assert.NoError(t, Migrate(context.Background(), repo.db, "sqlite"))
}

func TestReportRepository_SaveAndGet(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	report := &Report{
		Kind:    ReportKindESGAnalysis,
		Source:  "acme-esg-2024.pdf",
		Content: "1. Summary: ...",
		Pages:   42,
	}
	require.NoError(t, repo.Save(ctx, report))
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.False(t, report.CreatedAt.IsZero())

	got, err := repo.Get(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
	assert.Equal(t, ReportKindESGAnalysis, got.Kind)
	assert.Equal(t, "acme-esg-2024.pdf", got.Source)
	assert.Equal(t, "1. Summary: ...", got.Content)
	assert.Equal(t, 42, got.Pages)
	assert.WithinDuration(t, report.CreatedAt, got.CreatedAt, time.Second)
}

func TestReportRepository_GetNotFound(t *testing.T) {
	repo := openTestDB(t)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportRepository_ListNewestFirst(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, src := range []string{"first.pdf", "second.pdf", "third.pdf"} {
		require.NoError(t, repo.Save(ctx, &Report{
			Kind:      ReportKindESGAnalysis,
			Source:    src,
			Content:   "analysis",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	reports, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "third.pdf", reports[0].Source)
	assert.Equal(t, "second.pdf", reports[1].Source)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReport_DownloadName(t *testing.T) {
	id := uuid.MustParse("6f1c3c6e-2f53-4bb8-9a7f-6a4f7a1c0d11")

	r := &Report{ID: id, Kind: ReportKindESGAnalysis, Source: "uploads/ACME ESG 2024.pdf"}
	assert.Equal(t, "esg_analysis_ACME_ESG_2024.txt", r.DownloadName())

	r = &Report{ID: id, Kind: ReportKindPackagingScore, Source: ""}
	assert.Equal(t, "packaging_score_"+id.String()+".txt", r.DownloadName())
}
