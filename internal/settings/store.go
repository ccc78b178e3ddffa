package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	dbFileName     = "photoreader.db"
	appName        = "photoreader"
	SettingsBucket = "Settings" // Bucket holding the preferences snapshot.
	RecentBucket   = "Recent"   // Bucket holding the recent documents list.
	settingsKey    = "photoReaderSettings"
	recentKey      = "documents"

	// lockTimeout bounds the wait for a database held by another process.
	lockTimeout = 2 * time.Second
)

// Store manages the settings database.
type Store struct {
	db   *bolt.DB
	path string
	log  *zap.Logger
}

// DefaultDir is the per-user directory holding the database.
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// Open creates or opens the settings database in dir. An empty dir selects
// the user config directory, falling back to the current directory.
func Open(dir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			log.Warn("Could not get user config dir, using current dir", zap.Error(err))
			d = "."
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	log.Debug("Using settings database", zap.String("path", dbPath))

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{SettingsBucket, RecentBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: dbPath, log: log}, nil
}

// Path of the database file.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores the snapshot.
func (s *Store) Save(snap Snapshot) error {
	data, err := json.Marshal(snap.Normalize())
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SettingsBucket)).Put([]byte(settingsKey), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Load returns the stored snapshot. Missing or unreadable data yields the
// defaults and false. Fields absent from the stored record keep their
// defaults.
func (s *Store) Load() (Snapshot, bool) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(SettingsBucket)).Get([]byte(settingsKey)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Unable to read settings", zap.Error(err))
		return Defaults(), false
	}
	if data == nil {
		return Defaults(), false
	}
	snap := Defaults()
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn("Ignoring malformed settings", zap.Error(err))
		return Defaults(), false
	}
	return snap.Normalize(), true
}

// Reset removes stored settings and the recent list.
func (s *Store) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(SettingsBucket)).Delete([]byte(settingsKey)); err != nil {
			return err
		}
		return tx.Bucket([]byte(RecentBucket)).Delete([]byte(recentKey))
	})
}

// SaveRecent stores the recent documents list.
func (s *Store) SaveRecent(paths []string) error {
	data, err := json.Marshal(paths)
	if err != nil {
		return fmt.Errorf("failed to encode recent list: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(RecentBucket)).Put([]byte(recentKey), data)
	})
}

// LoadRecent returns the stored recent documents, most recent first.
func (s *Store) LoadRecent() []string {
	var list []string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(RecentBucket)).Get([]byte(recentKey))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &list)
	})
	if err != nil {
		s.log.Warn("Ignoring malformed recent list", zap.Error(err))
		return nil
	}
	return list
}

// putRaw writes an arbitrary value under the settings key.
func (s *Store) putRaw(data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SettingsBucket)).Put([]byte(settingsKey), data)
	})
}
