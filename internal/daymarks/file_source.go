package daymarks

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileSource implements Source using a local text file
type FileSource struct {
	filePath string
	logger   *zap.Logger
	data     map[string]map[int]Mark // key: "YYYY-MM" -> day of month
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string]map[int]Mark),
	}
}

// Load loads marks from file
func (fs *FileSource) Load() error {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to open marks file: %w", err)
	}
	defer file.Close()

	if err := fs.read(file); err != nil {
		return err
	}

	fs.logger.Info("Marks file loaded",
		zap.String("file", fs.filePath),
		zap.Int("months", len(fs.data)))

	return nil
}

func (fs *FileSource) read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD kind [note]
		// Example: 2025-01-01 holiday New Year's Day
		parts := strings.Fields(line)
		if len(parts) < 2 {
			fs.logger.Warn("Invalid line format",
				zap.Int("line", lineNo),
				zap.String("text", line))
			continue
		}

		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			fs.logger.Warn("Failed to parse date",
				zap.Int("line", lineNo),
				zap.String("date", parts[0]),
				zap.Error(err))
			continue
		}

		kind, err := ParseKind(parts[1])
		if err != nil {
			fs.logger.Warn("Unknown day kind",
				zap.Int("line", lineNo),
				zap.String("kind", parts[1]))
			continue
		}

		monthKey := getMonthKey(date)
		days, ok := fs.data[monthKey]
		if !ok {
			days = make(map[int]Mark)
			fs.data[monthKey] = days
		}
		days[date.Day()] = Mark{
			Kind: kind,
			Note: strings.Join(parts[2:], " "),
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading marks file: %w", err)
	}
	return nil
}

// Lookup implements Source
func (fs *FileSource) Lookup(date time.Time) (Mark, bool) {
	days, ok := fs.data[getMonthKey(date)]
	if !ok {
		return Mark{}, false
	}
	mark, ok := days[date.Day()]
	return mark, ok
}

// Path returns the marks file path
func (fs *FileSource) Path() string {
	return fs.filePath
}

// Months returns the number of months that have at least one mark
func (fs *FileSource) Months() int {
	return len(fs.data)
}

func getMonthKey(date time.Time) string {
	return fmt.Sprintf("%d-%02d", date.Year(), date.Month())
}
