package database

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fulldump/transformdb/scene"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

type Config struct {
	Dir    string
	MaxAge time.Duration
}

// Database is the set of scenes stored under a directory, one journal
// file per scene.
type Database struct {
	config *Config
	status string
	Scenes map[string]*scene.Scene
	exit   chan struct{}
}

func NewDatabase(config *Config) *Database {
	s := &Database{
		config: config,
		status: StatusOpening,
		Scenes: map[string]*scene.Scene{},
		exit:   make(chan struct{}),
	}

	return s
}

func (db *Database) GetStatus() string {
	return db.status
}

func (db *Database) CreateScene(name string) (*scene.Scene, error) {

	_, exists := db.Scenes[name]
	if exists {
		return nil, fmt.Errorf("scene '%s' already exists", name)
	}

	filename := path.Join(db.config.Dir, name)
	s, err := scene.OpenScene(filename, db.config.MaxAge)
	if err != nil {
		return nil, err
	}

	db.Scenes[name] = s

	return s, nil
}

func (db *Database) DropScene(name string) error {

	s, exists := db.Scenes[name]
	if !exists {
		return fmt.Errorf("scene '%s' not found", name)
	}

	delete(db.Scenes, name)

	return s.Drop()
}

func (db *Database) Load() error {

	fmt.Printf("Loading database %s...\n", db.config.Dir) // todo: move to logger
	dir := db.config.Dir
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	err = filepath.WalkDir(dir, func(filename string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := filename
		name = strings.TrimPrefix(name, dir)
		name = strings.TrimPrefix(name, "/")

		t0 := time.Now()
		s, err := scene.OpenScene(filename, db.config.MaxAge)
		if err != nil {
			fmt.Printf("ERROR: open scene '%s': %s\n", filename, err.Error()) // todo: move to logger
			return err
		}
		fmt.Println(name, len(s.Registry.Edges()), time.Since(t0)) // todo: move to logger

		db.Scenes[name] = s

		return nil
	})

	if err != nil {
		db.status = StatusClosing
		return err
	}

	db.status = StatusOperating

	return nil

}

func (db *Database) Start() error {

	go db.Load()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	defer close(db.exit)

	db.status = StatusClosing

	var lastErr error
	for name, s := range db.Scenes {
		fmt.Printf("Closing '%s'...\n", name)
		err := s.Close()
		if err != nil {
			fmt.Printf("ERROR: close(%s): %s", name, err.Error())
			lastErr = err
		}
	}

	return lastErr
}
