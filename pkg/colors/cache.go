// Package colors gives every project a stable terminal color. The palette
// is small, so the least recently used project gives its color up when a
// new one needs a slot.
package colors

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
)

const cacheFile = "project_colors.json"

// palette is indexed by slot. Slot 0 is reserved for tasks without a project.
var palette = []color.Attribute{
	color.FgHiBlack,
	color.FgCyan,
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgHiCyan,
	color.FgHiGreen,
	color.FgHiYellow,
	color.FgHiBlue,
	color.FgHiMagenta,
	color.FgRed,
}

type ProjectState struct {
	Slot     int       `json:"slot"`
	LastUsed time.Time `json:"last_used"`
}

type ColorCache struct {
	Path     string
	Projects map[string]*ProjectState

	fs    afero.Fs
	dirty bool
	now   func() time.Time
}

// CachePath returns the cache location inside dir.
func CachePath(dir string) string {
	return filepath.Join(dir, cacheFile)
}

// Open loads the cache at path, starting empty when there is none.
func Open(fs afero.Fs, path string) (*ColorCache, error) {
	c := &ColorCache{
		Path:     path,
		Projects: make(map[string]*ProjectState),
		fs:       fs,
		now:      time.Now,
	}
	b, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &c.Projects); err != nil {
		return nil, fmt.Errorf("failed to decode color cache %s: %w", path, err)
	}
	for p, s := range c.Projects {
		if s == nil || s.Slot <= 0 || s.Slot >= len(palette) {
			delete(c.Projects, p)
		}
	}
	return c, nil
}

// Save writes the cache back when anything changed.
func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	if err := c.fs.MkdirAll(filepath.Dir(c.Path), 0700); err != nil {
		return fmt.Errorf("error creating color cache directory: %w", err)
	}
	b, err := json.Marshal(c.Projects)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(c.fs, c.Path, b, 0600); err != nil {
		return fmt.Errorf("error writing color cache: %w", err)
	}
	c.dirty = false
	return nil
}

// Slot returns the palette slot of project, assigning one if needed.
func (c *ColorCache) Slot(project string) int {
	if project == "" {
		return 0
	}
	if state, ok := c.Projects[project]; ok {
		state.LastUsed = c.now()
		c.dirty = true
		return state.Slot
	}
	return c.assign(project)
}

// Color returns the terminal color for project.
func (c *ColorCache) Color(project string) *color.Color {
	return color.New(palette[c.Slot(project)])
}

func (c *ColorCache) assign(project string) int {
	used := make(map[int]bool, len(c.Projects))
	for _, s := range c.Projects {
		used[s.Slot] = true
	}

	slot := 0
	for i := 1; i < len(palette); i++ {
		if !used[i] {
			slot = i
			break
		}
	}

	if slot == 0 {
		var oldest string
		for p, s := range c.Projects {
			o := c.Projects[oldest]
			if oldest == "" || s.LastUsed.Before(o.LastUsed) || (s.LastUsed.Equal(o.LastUsed) && p < oldest) {
				oldest = p
			}
		}
		slot = c.Projects[oldest].Slot
		delete(c.Projects, oldest)
	}

	c.Projects[project] = &ProjectState{Slot: slot, LastUsed: c.now()}
	c.dirty = true
	return slot
}
