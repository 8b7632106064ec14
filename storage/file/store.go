package file

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/storage"
)

// File names inside the index directory.
const (
	IndexFile    = "resume_index.bin"
	MetadataFile = "resume_metadata.bin"
	MirrorFile   = "resume_metadata.json"
)

const formatVersion uint16 = 1

var (
	indexMagic    = [4]byte{'R', 'M', 'V', 'X'}
	metadataMagic = [4]byte{'R', 'M', 'M', 'D'}
)

// Store implements storage.IndexStore on the local filesystem.
type Store struct {
	dir    string
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

var _ storage.IndexStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewStore opens a file store rooted at dir, creating the directory if needed.
func NewStore(dir string, opts ...Option) (storage.IndexStore, error) {
	return newStore(dir, opts...)
}

func newStore(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("index directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &Store{dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "file-store", "dir", dir)
	return s, nil
}

// Load reads both halves and verifies they describe the same entries.
func (s *Store) Load(ctx context.Context) (*core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	indexPath := filepath.Join(s.dir, IndexFile)
	metaPath := filepath.Join(s.dir, MetadataFile)
	indexExists, err := exists(indexPath)
	if err != nil {
		return nil, err
	}
	metaExists, err := exists(metaPath)
	if err != nil {
		return nil, err
	}
	switch {
	case !indexExists && !metaExists:
		return nil, storage.ErrNotFound
	case !indexExists:
		return nil, fmt.Errorf("%w: %s present without %s", core.ErrIndexCorrupted, MetadataFile, IndexFile)
	case !metaExists:
		return nil, fmt.Errorf("%w: %s present without %s", core.ErrIndexCorrupted, IndexFile, MetadataFile)
	}

	dim, vectors, err := readVectors(indexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrIndexCorrupted, IndexFile, err)
	}
	records, err := readRecords(metaPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrIndexCorrupted, MetadataFile, err)
	}
	if len(vectors) != len(records) {
		return nil, fmt.Errorf("%w: %d vectors but %d records", core.ErrIndexCorrupted, len(vectors), len(records))
	}

	snap := &core.Snapshot{Dimension: dim, Entries: make([]core.Entry, len(records))}
	for i, r := range records {
		if r.Position != i {
			return nil, fmt.Errorf("%w: record %d has position %d", core.ErrIndexCorrupted, i, r.Position)
		}
		snap.Entries[i] = core.Entry{Record: r, Vector: vectors[i]}
	}

	s.logger.Debug("loaded index", "entries", len(records), "dimension", dim)
	return snap, nil
}

// Save rewrites all three files.
func (s *Store) Save(ctx context.Context, snap *core.Snapshot) error {
	return s.write(ctx, snap)
}

// Replace rewrites all three files. For this backend it is the same as Save.
func (s *Store) Replace(ctx context.Context, snap *core.Snapshot) error {
	return s.write(ctx, snap)
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) write(ctx context.Context, snap *core.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, e := range snap.Entries {
		if len(e.Vector) != snap.Dimension {
			return fmt.Errorf("%w: entry %d has %d dimensions, snapshot %d",
				core.ErrDimensionMismatch, i, len(e.Vector), snap.Dimension)
		}
	}

	steps := []struct {
		name  string
		write func(w io.Writer) error
	}{
		{IndexFile, func(w io.Writer) error { return writeVectors(w, snap) }},
		{MetadataFile, func(w io.Writer) error { return writeRecords(w, snap) }},
		{MirrorFile, func(w io.Writer) error { return writeMirror(w, snap) }},
	}
	temps := make([]string, 0, len(steps))
	defer func() {
		for _, tmp := range temps {
			os.Remove(tmp)
		}
	}()
	for _, step := range steps {
		tmp, err := writeTemp(s.dir, step.name, step.write)
		if err != nil {
			return fmt.Errorf("writing %s: %w", step.name, err)
		}
		temps = append(temps, tmp)
	}
	for i, step := range steps {
		if err := os.Rename(temps[i], filepath.Join(s.dir, step.name)); err != nil {
			return fmt.Errorf("replacing %s: %w", step.name, err)
		}
	}
	temps = temps[:0]

	s.logger.Debug("saved index", "entries", snap.Len(), "dimension", snap.Dimension)
	return nil
}

func writeTemp(dir, name string, write func(w io.Writer) error) (string, error) {
	f, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return "", err
	}
	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Vector file layout: magic[4] version:u16 dimension:u32 count:u32, then
// count*dimension float32 values, all little-endian.
type vectorHeader struct {
	Magic     [4]byte
	Version   uint16
	Dimension uint32
	Count     uint32
}

func writeVectors(w io.Writer, snap *core.Snapshot) error {
	hdr := vectorHeader{
		Magic:     indexMagic,
		Version:   formatVersion,
		Dimension: uint32(snap.Dimension),
		Count:     uint32(snap.Len()),
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	row := make([]byte, 4*snap.Dimension)
	for _, e := range snap.Entries {
		for j, v := range e.Vector {
			binary.LittleEndian.PutUint32(row[j*4:], math.Float32bits(v))
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func readVectors(path string) (int, [][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var hdr vectorHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return 0, nil, fmt.Errorf("header: %w", err)
	}
	if hdr.Magic != indexMagic {
		return 0, nil, errors.New("bad magic")
	}
	if hdr.Version != formatVersion {
		return 0, nil, fmt.Errorf("unsupported version %d", hdr.Version)
	}
	dim := int(hdr.Dimension)
	if dim < 1 {
		return 0, nil, fmt.Errorf("invalid dimension %d", dim)
	}
	info, err := f.Stat()
	if err != nil {
		return 0, nil, err
	}
	want := int64(binary.Size(hdr)) + int64(hdr.Count)*int64(dim)*4
	if info.Size() != want {
		return 0, nil, fmt.Errorf("%w: size %d, expected %d", storage.ErrTruncatedData, info.Size(), want)
	}

	vectors := make([][]float32, hdr.Count)
	row := make([]byte, 4*dim)
	for i := range vectors {
		if _, err := io.ReadFull(r, row); err != nil {
			return 0, nil, fmt.Errorf("row %d: %w", i, err)
		}
		v := make([]float32, dim)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(row[j*4:]))
		}
		vectors[i] = v
	}
	return dim, vectors, nil
}

// Metadata file layout: magic[4] version:u16, varint count, then count
// length-prefixed records.
func writeRecords(w io.Writer, snap *core.Snapshot) error {
	if _, err := w.Write(metadataMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := writeVarint(w, snap.Len()); err != nil {
		return err
	}
	for _, e := range snap.Entries {
		data := storage.MarshalDocumentRecord(e.Record)
		if err := writeVarint(w, len(data)); err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func readRecords(path string) ([]*core.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 6 || [4]byte(data[:4]) != metadataMagic {
		return nil, errors.New("bad magic")
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != formatVersion {
		return nil, fmt.Errorf("unsupported version %d", v)
	}
	data = data[6:]

	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("record count: %w", err)
	}
	data = data[n:]
	if count < 0 || count > len(data) {
		return nil, fmt.Errorf("%w: %d records", storage.ErrTruncatedData, count)
	}

	records := make([]*core.DocumentRecord, count)
	for i := range records {
		size, n, err := varint.Int.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("record %d length: %w", i, err)
		}
		data = data[n:]
		if size < 0 || size > len(data) {
			return nil, fmt.Errorf("%w: record %d", storage.ErrTruncatedData, i)
		}
		r, err := storage.UnmarshalDocumentRecord(data[:size])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records[i] = r
		data = data[size:]
	}
	if len(data) != 0 {
		return nil, fmt.Errorf("%d trailing bytes", len(data))
	}
	return records, nil
}

func writeVarint(w io.Writer, v int) error {
	buf := make([]byte, varint.Int.Size(v))
	varint.Int.Marshal(v, buf)
	_, err := w.Write(buf)
	return err
}

type mirrorSkills struct {
	TechnicalSkills []string `json:"technical_skills"`
	SoftSkills      []string `json:"soft_skills"`
	Certifications  []string `json:"certifications"`
	YearsExperience string   `json:"years_experience"`
}

type mirrorRecord struct {
	Position   int          `json:"position"`
	Filename   string       `json:"filename"`
	Text       string       `json:"text"`
	Skills     mirrorSkills `json:"skills"`
	IngestedAt time.Time    `json:"ingested_at"`
}

type mirror struct {
	Dimension int            `json:"dimension"`
	Total     int            `json:"total"`
	Records   []mirrorRecord `json:"records"`
}

func writeMirror(w io.Writer, snap *core.Snapshot) error {
	m := mirror{
		Dimension: snap.Dimension,
		Total:     snap.Len(),
		Records:   make([]mirrorRecord, 0, snap.Len()),
	}
	for _, e := range snap.Entries {
		r := e.Record
		m.Records = append(m.Records, mirrorRecord{
			Position: r.Position,
			Filename: r.Identifier,
			Text:     r.Text,
			Skills: mirrorSkills{
				TechnicalSkills: r.Skills.TechnicalSkills,
				SoftSkills:      r.Skills.SoftSkills,
				Certifications:  r.Skills.Certifications,
				YearsExperience: r.Skills.YearsExperience,
			},
			IngestedAt: r.IngestedAt,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
