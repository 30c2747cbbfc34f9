// =============================================================================
// Orders to PDF - File Manager Utility
// =============================================================================
//
// This module provides the file-level plumbing around the converter:
//   - Discovery of order exports in the batch input directory
//   - Atomic writes (a failed run never leaves a partial PDF behind)
//   - Archival of processed exports
//   - Output file naming with placeholder patterns
//   - Batch summary logs
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to the archive after successful processing
//   - Failed files remain in place so the next run retries them
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// orderExtensions are the input formats the converter understands.
var orderExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// DiscoverOrderFiles scans a directory (non-recursively) for order exports.
// Returned paths are sorted so batch runs are deterministic.
func DiscoverOrderFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if orderExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to path via a temporary file in the same
// directory followed by a rename. Readers either see the old file or the
// complete new one, never a half-written PDF.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveFile moves a processed input file into the archive directory.
// Falls back to copy+delete when rename crosses filesystems.
func ArchiveFile(filePath, archiveDir string) (string, error) {
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory %s: %w", archiveDir, err)
	}

	archivePath := filepath.Join(archiveDir, filepath.Base(filePath))

	if err := os.Rename(filePath, archivePath); err != nil {
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// copyFile copies src to dst, preserving contents only.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a file-name pattern.
//
// Placeholders:
//
//	{uuid}      - a random UUID
//	{timestamp} - current timestamp (YYYYMMDD_HHMMSS)
//	{date}      - current date (YYYYMMDD)
//	{time}      - current time (HHMMSS)
//	{original}  - the input file name without extension
//
// The result always carries a .pdf extension.
//
// EXAMPLE:
//
//	pattern:  "{original}_{date}.pdf"
//	input:    "orders_may.csv"
//	output:   "orders_may_20240501.pdf"
func GenerateOutputFileName(pattern, inputPath string) string {
	now := time.Now()

	original := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
		"{original}":  original,
	}

	result := pattern
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ".pdf") {
		result += ".pdf"
	}

	return result
}

// =============================================================================
// BATCH SUMMARY
// =============================================================================

// BatchSummary describes the outcome of a batch run.
type BatchSummary struct {
	StartTime   time.Time
	EndTime     time.Time
	TotalFiles  int
	Successful  int
	Failed      int
	FailedFiles []FailedFile
}

// FailedFile records one failed input.
type FailedFile struct {
	InputFile string
	Error     string
}

// WriteSummaryLog writes the batch summary to a timestamped text file in the
// output directory and returns its path.
func WriteSummaryLog(summary BatchSummary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("batch_summary_%s.txt", time.Now().Format("20060102_150405")))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "Orders to PDF - Batch Summary\n")
	fmt.Fprintf(w, "=============================\n\n")
	fmt.Fprintf(w, "Start Time: %s\n", summary.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "End Time:   %s\n", summary.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Duration:   %s\n\n", summary.EndTime.Sub(summary.StartTime))
	fmt.Fprintf(w, "Total Files: %d\n", summary.TotalFiles)
	fmt.Fprintf(w, "Successful:  %d\n", summary.Successful)
	fmt.Fprintf(w, "Failed:      %d\n", summary.Failed)

	if len(summary.FailedFiles) > 0 {
		fmt.Fprintf(w, "\nFailed Files:\n")
		for _, ff := range summary.FailedFiles {
			fmt.Fprintf(w, "  %s: %s\n", ff.InputFile, ff.Error)
		}
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to write summary file: %w", err)
	}
	return path, nil
}
