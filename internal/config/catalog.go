package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lornews/lord/internal/models"
)

// invalidGroupChars are excluded from newsgroup names.
const invalidGroupChars = " \t,[]\\*?"

// LoadCatalog reads the newsgroup catalog file: one line per group,
// "<name> <id> <description>". The catalog is authoritative: only
// listed groups exist.
func (c *GatewayConfig) LoadCatalog() ([]models.Newsgroup, error) {
	f, err := os.Open(c.CatalogPath())
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", c.CatalogPath(), err)
	}
	defer f.Close()

	var groups []models.Newsgroup
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, " ", 3)
		if len(fields) < 2 {
			return nil, fmt.Errorf("catalog line %d: malformed entry %q", lineNo, line)
		}
		name := fields[0]
		if strings.ContainsAny(name, invalidGroupChars) {
			return nil, fmt.Errorf("catalog line %d: invalid group name %q", lineNo, name)
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: invalid group id %q: %w", lineNo, fields[1], err)
		}
		desc := ""
		if len(fields) == 3 {
			desc = strings.TrimSpace(fields[2])
		}
		groups = append(groups, models.Newsgroup{Name: name, ForumID: id, Description: desc})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return groups, nil
}

// LookupGroup returns the catalog entry for name, if present.
func (c *GatewayConfig) LookupGroup(name string) (models.Newsgroup, bool, error) {
	groups, err := c.LoadCatalog()
	if err != nil {
		return models.Newsgroup{}, false, err
	}
	for _, g := range groups {
		if g.Name == name {
			return g, true, nil
		}
	}
	return models.Newsgroup{}, false, nil
}

// creationDateLayout is the on-disk format for the creation-date record:
// "YYYYMMDDhhmmss" in UTC.
const creationDateLayout = "20060102150405"

// LoadCreationDate reads the install's creation-date record.
func (c *GatewayConfig) LoadCreationDate() (time.Time, error) {
	data, err := os.ReadFile(c.CreationDatePath())
	if err != nil {
		return time.Time{}, fmt.Errorf("read creation date: %w", err)
	}
	t, err := time.ParseInLocation(creationDateLayout, strings.TrimSpace(string(data)), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed creation date: %w", err)
	}
	return t, nil
}

// WriteCreationDate writes the install's creation-date record, creating
// the root directory if needed. Called once, at install time.
func (c *GatewayConfig) WriteCreationDate(t time.Time) error {
	if err := os.MkdirAll(c.Root, 0755); err != nil {
		return fmt.Errorf("create root %s: %w", c.Root, err)
	}
	return os.WriteFile(c.CreationDatePath(), []byte(t.UTC().Format(creationDateLayout)), 0644)
}
