package records

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
)

// FileConfig contains configuration for the JSON file repository.
type FileConfig struct {
	// Path is the JSON array document holding the whole collection
	Path string
}

// Validate validates the FileConfig.
func (cfg *FileConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Path == "" {
		return errors.InvalidArgument("path cannot be empty")
	}
	return nil
}

// fileRepository keeps a collection as one JSON array and rewrites the
// whole document on every mutation. The highest id ever stored lives in a
// "<path>.seq" sidecar so deleted ids are not handed out again.
// The mutex only serializes writers inside this process; a second process
// sharing the file can still lose updates.
type fileRepository[T Record] struct {
	path    string
	seqPath string
	mu      sync.Mutex
}

// NewFile creates a repository backed by a JSON array document.
// A missing file reads as an empty collection.
func NewFile[T Record](cfg *FileConfig) (Repository[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &fileRepository[T]{path: cfg.Path, seqPath: cfg.Path + ".seq"}, nil
}

func (r *fileRepository[T]) List(ctx context.Context, _ ListInput) (*ListOutput[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	return &ListOutput[T]{Records: recs}, nil
}

func (r *fileRepository[T]) Get(ctx context.Context, input GetInput) (*GetOutput[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	if i := indexOf(recs, input.ID); i >= 0 {
		return &GetOutput[T]{Record: recs[i], Found: true}, nil
	}
	return &GetOutput[T]{}, nil
}

func (r *fileRepository[T]) Insert(ctx context.Context, input InsertInput[T]) (*InsertOutput[T], error) {
	if isNil(input.Record) {
		return nil, errors.InvalidArgument(errRecordNil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	if indexOf(recs, input.Record.RecordID()) >= 0 {
		return nil, errors.AlreadyExistsf("record with ID %d already exists", input.Record.RecordID())
	}

	recs = append(recs, input.Record)
	if err := r.save(ctx, recs); err != nil {
		return nil, err
	}
	if err := r.raiseSeq(recs); err != nil {
		return nil, err
	}

	return &InsertOutput[T]{Record: input.Record}, nil
}

func (r *fileRepository[T]) Update(ctx context.Context, input UpdateInput) (*UpdateOutput[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(recs, input.ID)
	if i < 0 {
		return &UpdateOutput[T]{}, nil
	}

	merged, err := merge(recs[i], input.Fields)
	if err != nil {
		return nil, err
	}
	recs[i] = merged

	if err := r.save(ctx, recs); err != nil {
		return nil, err
	}

	return &UpdateOutput[T]{Record: merged, Found: true}, nil
}

func (r *fileRepository[T]) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(recs, input.ID)
	if i < 0 {
		return &DeleteOutput{Deleted: false}, nil
	}

	// record the id before it disappears from the document
	if err := r.raiseSeq(recs); err != nil {
		return nil, err
	}

	recs = append(recs[:i], recs[i+1:]...)
	if err := r.save(ctx, recs); err != nil {
		return nil, err
	}

	return &DeleteOutput{Deleted: true}, nil
}

func (r *fileRepository[T]) MaxID(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	seq, err := r.loadSeq()
	if err != nil {
		return 0, err
	}

	return max(seq, maxID(recs)), nil
}

// load reads the whole collection. Callers hold r.mu.
func (r *fileRepository[T]) load(ctx context.Context) ([]T, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.DebugContext(ctx, "collection file missing, treating as empty",
				"path", r.path)
			return []T{}, nil
		}
		return nil, errors.StoreUnavailablef(err, "failed to read collection %s", r.path)
	}

	if len(data) == 0 {
		return []T{}, nil
	}

	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, errors.StoreUnavailablef(err, "collection %s is not a JSON array", r.path)
	}
	if recs == nil {
		recs = []T{}
	}
	for i, rec := range recs {
		if isNil(rec) {
			return nil, errors.Newf(errors.CodeUnavailable,
				"collection %s contains null at index %d", r.path, i)
		}
	}

	return recs, nil
}

// loadSeq reads the sidecar high-water mark. A missing sidecar reads as 0.
func (r *fileRepository[T]) loadSeq() (int64, error) {
	data, err := os.ReadFile(r.seqPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, errors.StoreUnavailablef(err, "failed to read id sequence %s", r.seqPath)
	}

	seq, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, errors.StoreUnavailablef(err, "id sequence %s is not a number", r.seqPath)
	}
	return seq, nil
}

// raiseSeq moves the high-water mark up to the highest id in recs.
// Callers hold r.mu.
func (r *fileRepository[T]) raiseSeq(recs []T) error {
	seq, err := r.loadSeq()
	if err != nil {
		return err
	}
	highest := maxID(recs)
	if highest <= seq {
		return nil
	}

	return writeAtomic(r.seqPath, []byte(strconv.FormatInt(highest, 10)+"\n"))
}

// save rewrites the collection. Callers hold r.mu.
func (r *fileRepository[T]) save(ctx context.Context, recs []T) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal collection")
	}

	if err := writeAtomic(r.path, data); err != nil {
		return err
	}

	slog.DebugContext(ctx, "collection file rewritten",
		"path", r.path,
		"count", len(recs))

	return nil
}

// writeAtomic goes through a temp file and rename so a crash mid-write
// leaves the previous document in place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.StoreUnavailablef(err, "failed to create data directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.StoreUnavailablef(err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.StoreUnavailablef(err, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.StoreUnavailablef(err, "failed to write %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.StoreUnavailablef(err, "failed to replace %s", path)
	}

	return nil
}

func indexOf[T Record](recs []T, id int64) int {
	for i, rec := range recs {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

func maxID[T Record](recs []T) int64 {
	var highest int64
	for _, rec := range recs {
		if id := rec.RecordID(); id > highest {
			highest = id
		}
	}
	return highest
}
