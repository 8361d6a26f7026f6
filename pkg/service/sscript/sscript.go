// Package sscript persists script definitions in sqlite. Rows hold the
// canonical JSON form of each definition, compressed and optionally
// sealed, next to the owner columns the loader filters on.
package sscript

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/questwright/scriptgraph/pkg/compress"
	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/model/mnodedef"
	"github.com/questwright/scriptgraph/pkg/model/mscript"
	"github.com/questwright/scriptgraph/pkg/scriptvault"
	"github.com/questwright/scriptgraph/pkg/translate/jsonscript"
)

var ErrNoScriptFound = sql.ErrNoRows

// ServiceOption configures a ScriptService.
type ServiceOption func(*ScriptService)

// WithVault swaps the sealing vault; pass a keyed vault to protect
// shipped content.
func WithVault(v *scriptvault.Vault) ServiceOption {
	return func(s *ScriptService) {
		s.vault = v
	}
}

// WithCompression sets the codec for newly written rows. Reads always
// honor the kind stored on the row.
func WithCompression(kind compress.Kind) ServiceOption {
	return func(s *ScriptService) {
		s.compression = kind
	}
}

// WithEncryption seals newly written rows with the given type.
func WithEncryption(encType scriptvault.EncryptionType) ServiceOption {
	return func(s *ScriptService) {
		s.encryption = encType
	}
}

// ScriptService provides definition CRUD over a script database.
type ScriptService struct {
	db          DBTX
	vault       *scriptvault.Vault
	compression compress.Kind
	encryption  scriptvault.EncryptionType
}

// New creates a service writing zstd-compressed, unsealed rows.
func New(db DBTX, opts ...ServiceOption) ScriptService {
	s := ScriptService{
		db:          db,
		vault:       scriptvault.NewDefault(),
		compression: compress.KindZstd,
		encryption:  scriptvault.EncryptionNone,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// TX returns the same service scoped to the transaction.
func (s ScriptService) TX(tx *sql.Tx) ScriptService {
	if tx == nil {
		return s
	}
	clone := s
	clone.db = tx
	return clone
}

func (s ScriptService) Get(ctx context.Context, id idwrap.IDWrap) (*mscript.Definition, error) {
	row, err := getScript(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return s.decode(row)
}

func (s ScriptService) ListByOwner(ctx context.Context, owner mnodedef.OwnerMask, ownerID string) ([]*mscript.Definition, error) {
	rows, err := listScriptsByOwner(ctx, s.db, int64(owner), ownerID)
	if err != nil {
		return nil, err
	}
	return s.decodeAll(rows)
}

// List returns every stored definition, the loader's path when a world
// boots.
func (s ScriptService) List(ctx context.Context) ([]*mscript.Definition, error) {
	rows, err := listScripts(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return s.decodeAll(rows)
}

func (s ScriptService) Create(ctx context.Context, def *mscript.Definition) error {
	row, err := s.encode(def)
	if err != nil {
		return err
	}
	return insertScript(ctx, s.db, row)
}

// CreateBulk inserts many definitions. Encoding dominates import time,
// so it fans out; the writes stay serial for sqlite's single writer.
func (s ScriptService) CreateBulk(ctx context.Context, defs []*mscript.Definition) error {
	rows := make([]scriptRow, len(defs))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, def := range defs {
		g.Go(func() error {
			row, err := s.encode(def)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, row := range rows {
		if err := insertScript(ctx, s.db, row); err != nil {
			return err
		}
	}
	return nil
}

func (s ScriptService) Update(ctx context.Context, def *mscript.Definition) error {
	row, err := s.encode(def)
	if err != nil {
		return err
	}
	return updateScript(ctx, s.db, row)
}

func (s ScriptService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	return deleteScript(ctx, s.db, id)
}

func (s ScriptService) encode(def *mscript.Definition) (scriptRow, error) {
	if def == nil {
		return scriptRow{}, fmt.Errorf("sscript: nil definition")
	}
	if def.ID.IsZero() {
		return scriptRow{}, fmt.Errorf("sscript: definition %q has no id", def.Name)
	}
	data, err := jsonscript.Marshal(def)
	if err != nil {
		return scriptRow{}, err
	}
	data, err = compress.Compress(data, s.compression)
	if err != nil {
		return scriptRow{}, err
	}
	data, err = s.vault.Seal(data, s.encryption)
	if err != nil {
		return scriptRow{}, err
	}
	return scriptRow{
		ID:           def.ID,
		OwnerType:    int64(def.OwnerType),
		OwnerID:      def.OwnerID,
		Name:         def.Name,
		Data:         data,
		CompressKind: int64(s.compression),
		Encryption:   int64(s.encryption),
	}, nil
}

func (s ScriptService) decode(row scriptRow) (*mscript.Definition, error) {
	data, err := s.vault.Open(row.Data, scriptvault.EncryptionType(row.Encryption))
	if err != nil {
		return nil, err
	}
	data, err = compress.Decompress(data, compress.Kind(row.CompressKind))
	if err != nil {
		return nil, err
	}
	return jsonscript.Unmarshal(data)
}

func (s ScriptService) decodeAll(rows []scriptRow) ([]*mscript.Definition, error) {
	defs := make([]*mscript.Definition, 0, len(rows))
	for _, row := range rows {
		def, err := s.decode(row)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
