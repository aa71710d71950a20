package filestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"todod/internal/service"
)

// PersistError reports a failed write of the task file.
// The in-memory mutation that triggered it has been rolled back.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// errMalformedState marks a task file that could not be parsed at all.
var errMalformedState = errors.New("malformed task file")

// load populates the store from disk. It never fails: an unreadable or
// malformed file leaves the store empty.
func (s *Store) load() {
	tasks, err := readTaskFile(s.path)
	if err != nil {
		if errors.Is(err, errMalformedState) {
			s.logger.Printf("warning: %v; starting with no tasks", err)
		} else if !errors.Is(err, os.ErrNotExist) {
			s.logger.Printf("warning: read %s: %v; starting with no tasks", s.path, err)
		}
		s.tasks = nil
		s.nextID = 1
		return
	}

	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	s.tasks = tasks
	s.nextID = maxID + 1
}

// readTaskFile parses path and returns its valid records in file order.
// Invalid records are skipped; only a file that is not a JSON array at all
// yields errMalformedState.
func readTaskFile(path string) ([]service.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errMalformedState, path, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: %s: trailing content", errMalformedState, path)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: not an array", errMalformedState, path)
	}

	tasks := make([]service.Task, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		t, ok := decodeRecord(item)
		if !ok || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// decodeRecord converts one persisted record, reporting false when it must
// be discarded.
func decodeRecord(item any) (service.Task, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return service.Task{}, false
	}
	id, ok := positiveInt(obj["id"])
	if !ok {
		return service.Task{}, false
	}
	title := strings.TrimSpace(recordText(obj, "title"))
	if title == "" {
		return service.Task{}, false
	}
	p, ok := service.ParsePriority(recordText(obj, "priority"))
	if !ok {
		return service.Task{}, false
	}
	return service.Task{ID: id, Title: title, Priority: p, IsDone: truthy(obj["isDone"])}, true
}

// recordText renders a scalar record field as text. An absent field is empty.
func recordText(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok {
		return ""
	}
	return service.FieldText(v)
}

// positiveInt accepts an integral JSON number or a decimal string.
func positiveInt(v any) (int, bool) {
	var n int64
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			n = i
		} else if f, err := x.Float64(); err == nil && f == math.Trunc(f) && f > 0 && f < math.MaxInt64 {
			n = int64(f)
		} else {
			return 0, false
		}
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n <= 0 || n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return false
}

// persist rewrites the whole task file. Caller must hold the write lock.
func (s *Store) persist() error {
	data, err := encodeTasks(s.tasks)
	if err != nil {
		return &PersistError{Path: s.path, Err: err}
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return &PersistError{Path: s.path, Err: err}
	}
	return nil
}

func encodeTasks(tasks []service.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []service.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// writeFileAtomic replaces path with data via a synced temp file and rename.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
