package scene

import (
	"fmt"
	"io"
	"os"
	"time"

	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"

	"github.com/fulldump/transformdb/geometry"
	"github.com/fulldump/transformdb/registry"
)

// Scene is a transform registry persisted to an append-only journal of
// commands. Opening a scene replays its journal to rebuild the registry
// in memory.
type Scene struct {
	filename string // Just informative...
	file     *os.File
	Registry *registry.Registry
}

func OpenScene(filename string, maxAge time.Duration) (*Scene, error) {

	f, err := os.OpenFile(filename, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for read: %w", err)
	}

	scene := &Scene{
		filename: filename,
		Registry: registry.New(maxAge),
	}

	jsonDecoder := jsontext.NewDecoder(f)
	for {
		command := &Command{}
		err := json2.UnmarshalDecode(jsonDecoder, command)
		if err == io.EOF {
			break
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("decode json: %w", err)
		}

		switch command.Name {
		case "add":
			t := geometry.Transform{}
			err := json2.Unmarshal(command.Payload, &t)
			if err != nil {
				fmt.Printf("WARNING: decode transform: %s\n", err.Error())
				continue
			}
			err = scene.Registry.AddTransform(t)
			if err != nil {
				fmt.Printf("WARNING: add transform '%s'->'%s': %s\n", t.Parent, t.Child, err.Error())
			}
		}
	}
	f.Close()

	// Open file for append only
	scene.file, err = os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for write: %w", err)
	}

	return scene, nil
}

// AddTransform records the sample in memory and appends it to the
// journal. Samples rejected by the registry are not journaled.
func (s *Scene) AddTransform(t geometry.Transform) error {
	if s.file == nil {
		return fmt.Errorf("scene is closed")
	}

	err := s.Registry.AddTransform(t)
	if err != nil {
		return err
	}

	payload, err := json2.Marshal(t)
	if err != nil {
		return fmt.Errorf("json encode payload: %w", err)
	}

	command := &Command{
		Name:      "add",
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		Payload:   payload,
	}

	err = json2.MarshalWrite(s.file, command)
	if err != nil {
		return fmt.Errorf("json encode command: %w", err)
	}
	_, err = s.file.Write([]byte("\n"))
	if err != nil {
		return fmt.Errorf("write journal: %w", err)
	}

	return nil
}

func (s *Scene) Close() error {
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *Scene) Drop() error {
	err := s.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	err = os.Remove(s.filename)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	return nil
}
