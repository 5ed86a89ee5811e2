package plink

import (
	"bytes"
	"os"
	"testing"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func xzBytes(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestCompressionFor(t *testing.T) {
	assert.Equal(t, CompressionGZIP, CompressionFor("a.bim.gz"))
	assert.Equal(t, CompressionZStandard, CompressionFor("a.fam.zst"))
	assert.Equal(t, CompressionXZ, CompressionFor("a.bim.xz"))
	assert.Equal(t, CompressionDisabled, CompressionFor("a.bim"))
	assert.Equal(t, "CompressionGZIP", CompressionGZIP.String())
}

func TestOpenCompressedTextFiles(t *testing.T) {
	tt := newTestTrio()

	compressors := map[string]func([]byte) []byte{
		".gz": func(b []byte) []byte { return gzipBytes(t, b) },
		".xz": func(b []byte) []byte { return xzBytes(t, b) },
		".zst": func(b []byte) []byte {
			out, err := zstd.Compress(nil, b)
			require.NoError(t, err)
			return out
		},
	}

	for suffix, compress := range compressors {
		t.Run(suffix, func(t *testing.T) {
			prefix := tt.write(t, t.TempDir())

			for _, ext := range []string{".bim", ".fam"} {
				plain, err := os.ReadFile(prefix + ext)
				require.NoError(t, err)
				require.NoError(t, os.WriteFile(prefix+ext+suffix, compress(plain), 0644))
				require.NoError(t, os.Remove(prefix+ext))
			}

			p, err := Open(prefix)
			require.NoError(t, err)
			defer p.Close()

			assert.Equal(t, prefix+".bim"+suffix, p.BimPath)
			assert.Equal(t, tt.variants, p.Variants())
			assert.Equal(t, len(tt.samples), p.NSamples())

			n := 0
			for g := p.Read(); g != nil; g = p.Read() {
				n++
			}
			require.NoError(t, p.Error())
			assert.Equal(t, len(tt.variants), n)
		})
	}
}

func TestReadCatalogFileGzip(t *testing.T) {
	tt := newTestTrio()
	prefix := tt.write(t, t.TempDir())
	require.NoError(t, os.WriteFile(prefix+".bim.gz", gzipBytes(t, []byte(bimText(tt.variants))), 0644))

	variants, err := ReadCatalogFile(prefix + ".bim.gz")
	require.NoError(t, err)
	assert.Equal(t, tt.variants, variants)

	samples, err := ReadSamplesFile(prefix + ".fam")
	require.NoError(t, err)
	assert.Len(t, samples, len(tt.samples))
}
