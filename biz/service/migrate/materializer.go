package migrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/yi-nology/satimage_bridge/pkg/imaging"
	"github.com/yi-nology/satimage_bridge/pkg/storage"
)

// Payloads are the binary columns of a scene record.
type Payloads struct {
	Metadata  []byte
	Quickview []byte
	Thumbnail []byte
	Footprint []byte
}

// WrittenAsset is a handle to an object the materializer has written.
type WrittenAsset struct {
	Key      string
	Location string
}

// AssetSet lists the derived files of one scene. A nil field means the file was not written.
type AssetSet struct {
	BaseDir   string
	Metadata  *WrittenAsset
	Quickview *WrittenAsset
	Thumbnail *WrittenAsset
	Footprint *WrittenAsset
}

// Complete reports whether all four files were written.
func (a *AssetSet) Complete() bool {
	return a != nil && a.Metadata != nil && a.Quickview != nil && a.Thumbnail != nil && a.Footprint != nil
}

// Materializer writes scene payloads below the output root.
type Materializer struct {
	store   storage.Storage
	boxSize int
}

func NewMaterializer(store storage.Storage, boxSize int) *Materializer {
	if boxSize <= 0 {
		boxSize = imaging.DefaultBox
	}
	return &Materializer{store: store, boxSize: boxSize}
}

// Read returns the bytes of a written asset.
func (m *Materializer) Read(ctx context.Context, asset *WrittenAsset) ([]byte, error) {
	if asset == nil {
		return nil, errors.New("asset was not written")
	}
	return storage.ReadAll(ctx, m.store, asset.Key)
}

// Materialize writes <base>.xml, <base>_pre.jpg, <base>_thumb.jpg and a resized
// <base>.png under baseDir. Existing files are overwritten. It stops at the first
// failure and returns what was written so far together with the error.
func (m *Materializer) Materialize(ctx context.Context, baseDir, baseFilename string, p Payloads) (*AssetSet, error) {
	set := &AssetSet{BaseDir: baseDir}

	if dm, ok := m.store.(storage.DirMaker); ok {
		if err := dm.EnsureDir(ctx, baseDir); err != nil {
			return set, fmt.Errorf("prepare %s: %w", baseDir, err)
		}
	}

	steps := []struct {
		suffix      string
		contentType string
		data        func() ([]byte, error)
		slot        **WrittenAsset
	}{
		{".xml", "application/xml", raw(p.Metadata), &set.Metadata},
		{"_pre.jpg", "image/jpeg", raw(p.Quickview), &set.Quickview},
		{"_thumb.jpg", "image/jpeg", raw(p.Thumbnail), &set.Thumbnail},
		{".png", "image/png", func() ([]byte, error) { return imaging.FitPNG(p.Footprint, m.boxSize) }, &set.Footprint},
	}

	for _, step := range steps {
		key := path.Join(baseDir, baseFilename+step.suffix)
		data, err := step.data()
		if err != nil {
			return set, fmt.Errorf("render %s: %w", key, err)
		}
		if err := m.store.PutObject(ctx, key, bytes.NewReader(data), step.contentType, int64(len(data))); err != nil {
			return set, fmt.Errorf("write %s: %w", key, err)
		}
		*step.slot = &WrittenAsset{Key: key, Location: m.store.Location(key)}
	}
	return set, nil
}

func raw(b []byte) func() ([]byte, error) {
	return func() ([]byte, error) { return b, nil }
}
