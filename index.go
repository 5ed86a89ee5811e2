package plink

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
	"github.com/zeebo/blake3"
)

// ErrVariantNotFound is returned when an index has no entry for a variant.
var ErrVariantNotFound = errors.New("plink: variant not found in index")

const indexSchema = `
DROP TABLE IF EXISTS Variant;
DROP TABLE IF EXISTS Metadata;
CREATE TABLE Variant (
	variant_index INTEGER PRIMARY KEY,
	chromosome TEXT NOT NULL,
	position INTEGER NOT NULL,
	rsid TEXT NOT NULL,
	allele1 TEXT NOT NULL,
	allele2 TEXT NOT NULL,
	file_start_position INTEGER NOT NULL,
	size_in_bytes INTEGER NOT NULL
);
CREATE INDEX variant_locus ON Variant (chromosome, position);
CREATE TABLE Metadata (
	filename TEXT NOT NULL,
	file_size INTEGER NOT NULL,
	bim_digest TEXT NOT NULL,
	index_creation_time INTEGER NOT NULL
);
`

// Index is a SQLite database locating every variant of a trio by locus, so
// that single variants and regions can be read without scanning the .bed.
type Index struct {
	DB       *sqlx.DB
	Metadata *IndexMetadata
}

// VariantIndex conforms to the rows of the SQLite table "Variant" and can be
// parsed with sqlx. Chromosome is stored in the normalized form returned by
// Chromosome.
type VariantIndex struct {
	VariantIndex      int    `db:"variant_index"`
	Chromosome        string `db:"chromosome"`
	Position          uint32 `db:"position"`
	RSID              string `db:"rsid"`
	Allele1           Allele `db:"allele1"`
	Allele2           Allele `db:"allele2"`
	FileStartPosition uint   `db:"file_start_position"`
	SizeInBytes       uint   `db:"size_in_bytes"`
}

func (vi VariantIndex) Variant() Variant {
	return Variant{
		Name:       vi.RSID,
		Chromosome: vi.Chromosome,
		Position:   vi.Position,
		Allele1:    vi.Allele1,
		Allele2:    vi.Allele2,
	}
}

// IndexMetadata conforms to the single row of the SQLite table "Metadata".
// BimDigest is the hex BLAKE3 digest of the (decompressed) .bim contents.
type IndexMetadata struct {
	Filename          string `db:"filename"`
	FileSize          uint   `db:"file_size"`
	BimDigest         string `db:"bim_digest"`
	IndexCreationTime Time   `db:"index_creation_time"`
}

func (idx *Index) Close() error {
	return idx.DB.Close()
}

func connectIndex(path string) (*sqlx.DB, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html . It seems that sqlite3 permitted
	// URI filenames without the file: prefix, but that is not standard.
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect(whichSQLiteDriver, path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if err := configureIndexDB(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenIndex opens an index previously written by BuildIndex.
func OpenIndex(path string) (*Index, error) {
	db, err := connectIndex(path)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		DB:       db,
		Metadata: &IndexMetadata{},
	}

	if err := idx.DB.Get(idx.Metadata, "SELECT * FROM Metadata LIMIT 1"); err != nil {
		db.Close()
		return nil, pfx.Err(fmt.Errorf("%s is not a PLINK index: %w", path, err))
	}

	return idx, nil
}

// BuildIndex writes an index of every variant in p to a SQLite database at
// path, replacing any index already there.
func BuildIndex(p *PLINK, path string) (*Index, error) {
	digest, err := bimDigest(p)
	if err != nil {
		return nil, err
	}

	db, err := connectIndex(path)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		DB: db,
		Metadata: &IndexMetadata{
			Filename:          p.BedPath,
			BimDigest:         digest,
			IndexCreationTime: Time(time.Now()),
		},
	}
	if p.bed != nil && p.bed.size > 0 {
		idx.Metadata.FileSize = uint(p.bed.size)
	}

	if err := idx.populate(p); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

func (idx *Index) populate(p *PLINK) error {
	tx, err := idx.DB.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(indexSchema); err != nil {
		return pfx.Err(err)
	}

	stmt, err := tx.Preparex(`INSERT INTO Variant
	(variant_index, chromosome, position, rsid, allele1, allele2, file_start_position, size_in_bytes)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return pfx.Err(err)
	}
	defer stmt.Close()

	blockSize := int64(p.decoder.BlockSize())
	for i, v := range p.variants {
		_, err := stmt.Exec(
			int64(i),
			Chromosome(v.Chromosome),
			int64(v.Position),
			v.Name,
			string(v.Allele1),
			string(v.Allele2),
			p.blockOffset(i),
			blockSize,
		)
		if err != nil {
			return pfx.Err(fmt.Errorf("indexing %s: %w", v, err))
		}
	}

	m := idx.Metadata
	if _, err := tx.Exec("INSERT INTO Metadata (filename, file_size, bim_digest, index_creation_time) VALUES (?, ?, ?, ?)",
		m.Filename, int64(m.FileSize), m.BimDigest, time.Time(m.IndexCreationTime).Unix()); err != nil {
		return pfx.Err(err)
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// Matches reports whether the index was built from the same .bim as p.
func (idx *Index) Matches(p *PLINK) (bool, error) {
	digest, err := bimDigest(p)
	if err != nil {
		return false, err
	}

	return digest == idx.Metadata.BimDigest, nil
}

// Lookup finds the index entry for v. Alleles are matched in either order
// and on either strand. ErrVariantNotFound is returned when nothing matches.
func (idx *Index) Lookup(v Variant) (VariantIndex, error) {
	var rows []VariantIndex
	if err := idx.DB.Select(&rows, "SELECT * FROM Variant WHERE chromosome = ? AND position = ? ORDER BY variant_index", Chromosome(v.Chromosome), int64(v.Position)); err != nil {
		return VariantIndex{}, pfx.Err(err)
	}

	var matches []VariantIndex
	for _, row := range rows {
		if row.Variant().Equal(v) {
			matches = append(matches, row)
		}
	}

	switch len(matches) {
	case 0:
		return VariantIndex{}, ErrVariantNotFound
	case 1:
		return matches[0], nil
	}

	return VariantIndex{}, pfx.Err(fmt.Errorf("%d variants in the index match %s", len(matches), v))
}

// Region returns the entries with start <= position <= end on chrom, ordered
// by position.
func (idx *Index) Region(chrom string, start, end uint32) ([]VariantIndex, error) {
	var rows []VariantIndex
	if err := idx.DB.Select(&rows, "SELECT * FROM Variant WHERE chromosome = ? AND position BETWEEN ? AND ? ORDER BY position, variant_index", Chromosome(chrom), int64(start), int64(end)); err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}

// ReadVariant reads the genotypes of v located through idx, without moving
// the Read cursor.
func (p *PLINK) ReadVariant(idx *Index, v Variant) (*Genotypes, error) {
	vi, err := idx.Lookup(v)
	if err != nil {
		return nil, err
	}

	return p.ReadAt(vi.VariantIndex)
}

// ReadRegion reads the genotypes of every variant on chrom between start and
// end inclusive. The caller owns, and should release, each record.
func (p *PLINK) ReadRegion(idx *Index, chrom string, start, end uint32) ([]*Genotypes, error) {
	rows, err := idx.Region(chrom, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]*Genotypes, 0, len(rows))
	for _, row := range rows {
		g, err := p.ReadAt(row.VariantIndex)
		if err != nil {
			for _, prev := range out {
				prev.Release()
			}
			return nil, err
		}
		out = append(out, g)
	}

	return out, nil
}

func bimDigest(p *PLINK) (string, error) {
	src, err := p.opener.openText(p.BimPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	h := blake3.New()
	if _, err := io.Copy(h, src); err != nil {
		return "", pfx.Err(err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
