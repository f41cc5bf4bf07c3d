// Package songs adapts a directory of audio files into the song
// catalog get_songs surfaces, using github.com/go-audio/wav to read
// duration metadata the way the original's song_scraper.py read ID3
// tags from mp3s. Downloading new songs (song_downloader.py's
// pytubefix-based YouTube fetch) is out of this system's scope per
// spec.md §1 — only a narrow DownloadFunc hook is kept so a deployment
// can wire one in without this package depending on a scraping stack.
package songs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/austinm34563/treelights-go/internal/dispatcher"
)

// DownloadFunc fetches a new song (named by url/title/artist) into dir,
// returning its filename. Left as an injectable hook rather than an
// implementation: the original's YouTube-backed downloader is an
// external service integration this system does not reimplement.
type DownloadFunc func(dir, url, title, artist string) (string, error)

// DirectoryLibrary lists .wav files under a root directory as the song
// catalog, keyed by filename (the catalog "id" spec.md §6 describes).
// Each file is decoded once: a file whose duration cannot be computed
// is skipped, and the resulting entry (which does not carry the
// duration) is cached.
type DirectoryLibrary struct {
	dir string
	log *logrus.Entry

	// DownloadHook, if set, is invoked by Download to fetch a new song
	// into dir. A nil hook makes every download_song request fail,
	// matching a deployment with no download backend wired in.
	DownloadHook DownloadFunc

	mu    sync.Mutex
	cache map[string]dispatcher.SongInfo
}

// NewDirectoryLibrary constructs a library rooted at dir. dir is not
// scanned until List is first called.
func NewDirectoryLibrary(dir string, log *logrus.Entry) *DirectoryLibrary {
	return &DirectoryLibrary{dir: dir, log: log, cache: map[string]dispatcher.SongInfo{}}
}

// List scans dir for .wav files and returns one SongInfo per file
// keyed by filename, reusing cached entries for files already seen,
// matching spec.md §6's "{ id: { title, artist, album, file } }"
// shape.
func (l *DirectoryLibrary) List() map[string]dispatcher.SongInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		l.log.WithError(err).Warn("failed to read song directory")
		return nil
	}

	out := make(map[string]dispatcher.SongInfo, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			continue
		}
		if info, ok := l.cache[e.Name()]; ok {
			out[e.Name()] = info
			continue
		}
		info, err := l.readInfo(e.Name())
		if err != nil {
			l.log.WithError(err).WithField("file", e.Name()).Warn("failed to read song metadata")
			continue
		}
		l.cache[e.Name()] = info
		out[e.Name()] = info
	}
	return out
}

func (l *DirectoryLibrary) readInfo(name string) (dispatcher.SongInfo, error) {
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return dispatcher.SongInfo{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if _, err := dec.Duration(); err != nil {
		return dispatcher.SongInfo{}, err
	}

	return dispatcher.SongInfo{
		Title: strings.TrimSuffix(name, filepath.Ext(name)),
		File:  name,
	}, nil
}

// Download delegates to DownloadHook, if any, and invalidates the
// cached entry for the resulting filename so the next List call picks
// up the freshly fetched metadata. Implements the
// dispatcher.SongLibrary interface's download_song side effect
// (spec.md §4.6).
func (l *DirectoryLibrary) Download(url, title, artist string) error {
	if l.DownloadHook == nil {
		return fmt.Errorf("songs: no download hook configured")
	}
	name, err := l.DownloadHook(l.dir, url, title, artist)
	if err != nil {
		return err
	}
	l.mu.Lock()
	delete(l.cache, name)
	l.mu.Unlock()
	return nil
}
