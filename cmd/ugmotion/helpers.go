// ABOUTME: Shared formatting and parsing helpers for CLI commands.
// ABOUTME: Covers column padding, progress bars, dates, durations and password input.
package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ugmotion/ugmotion/internal/models"
	"github.com/ugmotion/ugmotion/internal/storage"
)

const barWidth = 20

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// progressBar renders percent (0-100) as a fixed-width bar.
func progressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(percent / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount: %s", s)
	}
	return v, nil
}

// parseDate accepts YYYY-MM-DD and returns it normalized.
func parseDate(s string) (string, error) {
	t, err := time.Parse(storage.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", s)
	}
	return t.Format(storage.DateLayout), nil
}

// parsePosition converts a 1-based position argument to a 0-based index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position: %s (use 1, 2, ...)", s)
	}
	return n - 1, nil
}

// parseEquipmentList accepts comma-separated and repeated values.
func parseEquipmentList(values []string) ([]models.Equipment, error) {
	var out []models.Equipment
	seen := make(map[models.Equipment]bool)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			e, err := models.ParseEquipment(part)
			if err != nil {
				return nil, err
			}
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func formatEquipment(eq []models.Equipment) string {
	if len(eq) == 0 {
		return models.NotSet
	}
	names := make([]string, len(eq))
	for i, e := range eq {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	return fmt.Sprintf("%dh %02dm", h, m)
}

func optional(s *string) string {
	if s == nil || *s == "" {
		return models.NotSet
	}
	return *s
}

// readPassword returns flagValue, or reads one line from r when it is empty.
func readPassword(flagValue string, r io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", fmt.Errorf("password is required")
	}
	return pw, nil
}
