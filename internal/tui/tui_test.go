package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/spotify-dl/internal/config"
	"github.com/handiism/spotify-dl/internal/download"
	"github.com/handiism/spotify-dl/internal/model"
)

type fakeProvider struct {
	collection *model.Collection
	err        error
}

func (f *fakeProvider) Resolve(context.Context, string) (*model.Collection, error) {
	return f.collection, f.err
}

func depsWith(p *fakeProvider) DepsFunc {
	return func(context.Context, *config.Settings) (download.Deps, error) {
		return download.Deps{Provider: p}, nil
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func initialized(t *testing.T, p *fakeProvider) Model {
	t.Helper()
	m := NewModel(config.DefaultSettings(), depsWith(p))
	m.urlInput.SetValue("https://open.spotify.com/track/abc")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateInitializing {
		t.Fatalf("state = %v, want StateInitializing", m.state)
	}

	msg := m.initialize()()
	return update(t, m, msg)
}

func TestModel_InitToFolderPrompt(t *testing.T) {
	m := initialized(t, &fakeProvider{collection: &model.Collection{
		Kind:   model.KindTrack,
		Name:   model.SingleSongsName,
		Tracks: []model.TrackMetadata{{Title: "Song", Artist: "Artist"}},
	}})

	if m.state != StateFolder {
		t.Fatalf("state = %v, want StateFolder", m.state)
	}
	if m.totalJobs != 1 {
		t.Errorf("totalJobs = %d, want 1", m.totalJobs)
	}
	if m.folderInput.Value() != m.settings.DownloadsPath {
		t.Errorf("folder prefill = %q", m.folderInput.Value())
	}
	if !strings.Contains(m.View(), "Single Songs (1 tracks)") {
		t.Error("view does not show the collection")
	}
}

func TestModel_EmptyCollectionSkipsFolderPrompt(t *testing.T) {
	m := initialized(t, &fakeProvider{collection: &model.Collection{
		Kind: model.KindPlaylist,
		Name: "Empty",
	}})

	if m.state != StateComplete {
		t.Fatalf("state = %v, want StateComplete", m.state)
	}
	if m.events != nil {
		t.Error("event channel not released")
	}
	if !strings.Contains(m.View(), "No tracks found.") {
		t.Error("view does not report the empty collection")
	}
}

func TestModel_FolderCancelled(t *testing.T) {
	m := initialized(t, &fakeProvider{collection: &model.Collection{
		Kind:   model.KindTrack,
		Name:   model.SingleSongsName,
		Tracks: []model.TrackMetadata{{Title: "Song", Artist: "Artist"}},
	}})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.state != StateError || !errors.Is(m.err, model.ErrNoFolder) {
		t.Errorf("state = %v, err = %v; want StateError, ErrNoFolder", m.state, m.err)
	}
	if m.events != nil {
		t.Error("event channel not released")
	}
}

func TestModel_InitError(t *testing.T) {
	m := initialized(t, &fakeProvider{err: model.ErrMetadataFetch})

	if m.state != StateError || !errors.Is(m.err, model.ErrMetadataFetch) {
		t.Errorf("state = %v, err = %v", m.state, m.err)
	}
}

func TestModel_InvalidLocator(t *testing.T) {
	m := NewModel(config.DefaultSettings(), depsWith(&fakeProvider{}))
	m.urlInput.SetValue("https://example.com/nothing")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, m.initialize()())

	if !errors.Is(m.err, model.ErrInvalidLocator) {
		t.Errorf("err = %v, want ErrInvalidLocator", m.err)
	}
}

func TestModel_HandleEvent(t *testing.T) {
	m := NewModel(nil, nil)
	m.totalJobs = 2

	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{JobID: "a", Message: "Searching YouTube: x", Level: download.LevelVerbose}})
	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{JobID: "a", Message: "Metadata added: x", Level: download.LevelSuccess, Done: true}})

	if m.doneJobs != 1 {
		t.Errorf("doneJobs = %d, want 1", m.doneJobs)
	}
	if len(m.logs) != 1 || m.logs[0].Message != "Metadata added: x" {
		t.Errorf("logs = %+v, want verbose line filtered", m.logs)
	}

	for i := 0; i < 2*maxLogs; i++ {
		m.handleEvent(download.ProgressEvent{Message: "line", Level: download.LevelInfo})
	}
	if len(m.logs) != maxLogs {
		t.Errorf("len(logs) = %d, want %d", len(m.logs), maxLogs)
	}
}

func TestModel_ViewShowsDisclaimer(t *testing.T) {
	if !strings.Contains(NewModel(nil, nil).View(), download.Disclaimer) {
		t.Error("disclaimer missing from view")
	}
}
