package ytdlp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const infoSuffix = ".info.json"

type infoPayload struct {
	Type        string  `json:"_type"`
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	WebpageURL  string  `json:"webpage_url"`
	Description string  `json:"description"`
	UploadDate  string  `json:"upload_date"`
	Duration    float64 `json:"duration"`
}

// readEntries parses every *.info.json file yt-dlp left in the working
// directory. Playlist container metadata is skipped; a malformed file skips
// only that file. Entries come back in filename order so repeated runs over
// the same channel enumerate deterministically.
func readEntries(workDir, subtitleLang string) ([]Entry, error) {
	names, err := filepath.Glob(filepath.Join(workDir, "*"+infoSuffix))
	if err != nil {
		return nil, fmt.Errorf("scan work dir: %w", err)
	}
	sort.Strings(names)

	lang := strings.TrimSpace(subtitleLang)
	if lang == "" {
		lang = "en"
	}

	var entries []Entry
	for _, name := range names {
		entry, ok := parseInfoFile(name, lang)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseInfoFile(path, lang string) (Entry, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, false
	}

	var payload infoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Entry{}, false
	}
	if payload.Type == "playlist" || payload.ID == "" {
		return Entry{}, false
	}

	entry := Entry{
		ID:              payload.ID,
		Title:           strings.TrimSpace(payload.Title),
		URL:             strings.TrimSpace(payload.WebpageURL),
		Description:     payload.Description,
		DurationSeconds: int(payload.Duration),
	}
	if entry.URL == "" {
		entry.URL = "https://www.youtube.com/watch?v=" + payload.ID
	}
	if payload.UploadDate != "" {
		if uploaded, err := time.Parse("20060102", payload.UploadDate); err == nil {
			entry.UploadDate = &uploaded
		}
	}

	vttPath := filepath.Join(filepath.Dir(path), payload.ID+"."+lang+".vtt")
	if captions, err := os.ReadFile(vttPath); err == nil {
		entry.Captions = string(captions)
	}

	return entry, true
}
