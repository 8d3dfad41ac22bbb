package main

//go:generate go run ../palaver-toolgen -path demo.go

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// getWeather returns the current weather for a city.
//
//palaver:tool
//palaver:param city the city to look up
//palaver:param unit temperature unit
//palaver:default unit "celsius"
//palaver:enum unit celsius,fahrenheit
func getWeather(ctx context.Context, city string, unit string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	temp := 19.5
	if unit == "fahrenheit" {
		temp = temp*9/5 + 32
	}
	b, err := json.Marshal(map[string]any{"city": city, "temperature": temp, "unit": unit, "conditions": "partly cloudy"})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// currentTime returns the current time in an IANA time zone.
//
//palaver:tool
//palaver:param zone IANA time zone name, e.g. Europe/Brussels
//palaver:default zone "UTC"
func currentTime(zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().In(loc), nil
}

var notes = struct {
	sync.Mutex
	byTitle map[string]string
}{byTitle: map[string]string{}}

// saveNote stores a note under a title, replacing any earlier note with that title.
//
//palaver:tool
//palaver:param title short title of the note
//palaver:param body note text
func saveNote(title, body string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("title is required")
	}
	notes.Lock()
	defer notes.Unlock()
	notes.byTitle[title] = body
	return fmt.Sprintf("saved %q", title), nil
}

// listNotes returns the titles of all saved notes.
//
//palaver:tool
func listNotes() []string {
	notes.Lock()
	defer notes.Unlock()
	titles := make([]string, 0, len(notes.byTitle))
	for t := range notes.byTitle {
		titles = append(titles, t)
	}
	slices.Sort(titles)
	return titles
}

// deleteNote removes a saved note.
//
//palaver:tool
//palaver:confirm
//palaver:param title title of the note to delete
func deleteNote(title string) error {
	notes.Lock()
	defer notes.Unlock()
	if _, ok := notes.byTitle[title]; !ok {
		return fmt.Errorf("no note titled %q", title)
	}
	delete(notes.byTitle, title)
	return nil
}
