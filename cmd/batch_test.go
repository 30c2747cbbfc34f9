package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/orders-to-pdf/internal/config"
	"github.com/ginjaninja78/orders-to-pdf/pkg/logger"
	"github.com/ginjaninja78/orders-to-pdf/pkg/utils"
)

const (
	goodOrders = "customer,delivery_date,product,quantity\n" +
		"Alice,2024-05-01,carrot,3\n"
	badOrders = "customer,delivery_date,product,quantity\n" +
		"Alice,2024-05-01,carrot,abc\n"
)

// batchConfig returns a config whose batch directories all live under a
// temp dir.
func batchConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(dir, "output")
	cfg.Batch.InputDir = filepath.Join(dir, "input")
	cfg.Batch.ArchiveDir = filepath.Join(dir, "archive")
	require.NoError(t, os.MkdirAll(cfg.Batch.InputDir, 0755))
	return cfg
}

func writeOrder(t *testing.T, cfg *config.Config, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Batch.InputDir, name), []byte(content), 0644))
}

func countPDFs(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	n := 0
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".pdf") {
			n++
		}
	}
	return n
}

func TestProcessFiles_BadFileDoesNotStopOthers(t *testing.T) {
	cfg := batchConfig(t)
	cfg.Batch.MaxConcurrency = 2
	writeOrder(t, cfg, "a.csv", goodOrders)
	writeOrder(t, cfg, "b.csv", badOrders)
	writeOrder(t, cfg, "c.csv", goodOrders)

	files, err := utils.DiscoverOrderFiles(cfg.Batch.InputDir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	summary, firstErr := processFiles(files, cfg, logger.Nop(), false)

	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	require.Error(t, firstErr)
	require.Len(t, summary.FailedFiles, 1)
	assert.Equal(t, "b.csv", filepath.Base(summary.FailedFiles[0].InputFile))

	// Both good files converted despite the failure in between.
	assert.Equal(t, 2, countPDFs(t, cfg.Output.Dir))

	// Good files archived, the failed one left in place for a retry.
	_, err = os.Stat(filepath.Join(cfg.Batch.InputDir, "b.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.Batch.ArchiveDir, "a.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.Batch.ArchiveDir, "c.csv"))
	require.NoError(t, err)
}

func TestProcessFiles_StopOnErrorHaltsAtFirstFailure(t *testing.T) {
	cfg := batchConfig(t)
	cfg.Batch.StopOnError = true
	writeOrder(t, cfg, "a.csv", goodOrders)
	writeOrder(t, cfg, "b.csv", badOrders)
	writeOrder(t, cfg, "c.csv", goodOrders)

	files, err := utils.DiscoverOrderFiles(cfg.Batch.InputDir)
	require.NoError(t, err)

	summary, firstErr := processFiles(files, cfg, logger.Nop(), false)

	// Only a.csv and b.csv were attempted; the run stopped before c.csv.
	assert.Equal(t, 2, summary.TotalFiles)
	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	require.Error(t, firstErr)

	assert.Equal(t, 1, countPDFs(t, cfg.Output.Dir))
	_, err = os.Stat(filepath.Join(cfg.Batch.InputDir, "c.csv"))
	require.NoError(t, err, "the file after the failure must be left untouched")
}

func TestProcessFiles_DryRunWritesNothing(t *testing.T) {
	cfg := batchConfig(t)
	writeOrder(t, cfg, "a.csv", goodOrders)
	writeOrder(t, cfg, "b.csv", goodOrders)

	files, err := utils.DiscoverOrderFiles(cfg.Batch.InputDir)
	require.NoError(t, err)

	summary, firstErr := processFiles(files, cfg, logger.Nop(), true)

	require.NoError(t, firstErr)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 0, countPDFs(t, cfg.Output.Dir))

	// Dry runs archive nothing.
	_, err = os.Stat(filepath.Join(cfg.Batch.InputDir, "a.csv"))
	require.NoError(t, err)
}
