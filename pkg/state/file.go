package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tilecraft/tilecraft/pkg/errors"
)

// Extension is the file extension state documents are stored under.
const Extension = ".json"

// Store reads and writes state documents in a single data directory.
type Store struct {
	mu      sync.RWMutex
	dataDir string
}

// NewStore creates a store rooted at dataDir, creating the directory if
// needed. An empty dataDir defaults to "data" under the working directory.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating state directory %s", dataDir)
	}
	return &Store{dataDir: dataDir}, nil
}

// Path returns the data directory the store writes to.
func (s *Store) Path() string {
	return s.dataDir
}

func (s *Store) filePath(name string) string {
	return filepath.Join(s.dataDir, name)
}

// normalizeName validates a user-supplied document name and appends the
// state extension if missing. An empty name produces a timestamped one, so
// repeated saves never overwrite each other.
func normalizeName(name string) (string, error) {
	if name == "" {
		return time.Now().Format("20060102_150405") + Extension, nil
	}
	if !strings.HasSuffix(strings.ToLower(name), Extension) {
		name += Extension
	}
	if err := errors.ValidateStateFilename(name); err != nil {
		return "", err
	}
	return name, nil
}

// Save writes doc under name and returns the file name actually used.
func (s *Store) Save(doc *Document, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := normalizeName(name)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeEncode, err, "encoding state document")
	}
	if err := os.WriteFile(s.filePath(name), data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "writing state file %s", name)
	}
	return name, nil
}

// Load reads and decodes the named document. A syntactically broken file is
// an invalid-state error; a missing one is state-not-found.
func (s *Store) Load(name string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.filePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeStateNotFound, "no saved state named %s", name)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading state file %s", name)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidState, err, "state file %s is not valid JSON", name)
	}
	return &doc, nil
}

// Delete removes the named document. Deleting a document that does not
// exist is not an error.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	if err := os.Remove(s.filePath(name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "removing state file %s", name)
	}
	return nil
}

// Info describes one stored document without decoding it.
type Info struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// List returns the stored documents, newest first.
func (s *Store) List() ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading state directory %s", s.dataDir)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), Extension) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{Name: entry.Name(), Size: fi.Size(), ModTime: fi.ModTime()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ModTime.After(infos[j].ModTime) })
	return infos, nil
}
