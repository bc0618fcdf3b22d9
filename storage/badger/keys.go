package badger

import (
	"encoding/binary"

	"github.com/poiesic/petmatch/core"
)

// Key prefixes for different data types. Each ends in a separator so that
// no prefix is a byte prefix of another.
const (
	reportPrefix     = "petrep:"
	reportTypePrefix = "petrept:"
	embeddingPrefix  = "petemb:"
)

// makeReportKey generates a key for a report by ID.
func makeReportKey(id string) []byte {
	return []byte(reportPrefix + id)
}

// reportIDFromKey extracts the report ID from a primary or type-index key.
func reportIDFromKey(key []byte, prefix []byte) string {
	return string(key[len(prefix):])
}

// makeReportTypeKey generates a composite key for the type index.
// Format: prefix:type:id
func makeReportTypeKey(reportType core.ReportType, id string) []byte {
	return append(makePartialReportTypeKey(reportType), id...)
}

// makePartialReportTypeKey generates the scan prefix for one report type.
// Format: prefix:type:
func makePartialReportTypeKey(reportType core.ReportType) []byte {
	return []byte(reportTypePrefix + string(reportType) + ":")
}

// makeEmbeddingKey generates a key for a cached embedding.
// Format: prefix + 8-byte content hash
func makeEmbeddingKey(id core.ID) []byte {
	buf := make([]byte, len(embeddingPrefix)+8)
	offset := copy(buf, embeddingPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
