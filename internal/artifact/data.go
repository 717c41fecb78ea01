package artifact

import "time"

// Kind names one of the three artifact kinds the store persists.
type Kind string

const (
	KindRawHTML       Kind = "raw_html"
	KindProcessedText Kind = "processed_text"
	KindMetadata      Kind = "metadata"
)

// extensions maps each Kind to its key-scheme file extension.
var extensions = map[Kind]string{
	KindRawHTML:       "html",
	KindProcessedText: "txt",
	KindMetadata:      "json",
}

func (k Kind) Extension() string {
	if ext, ok := extensions[k]; ok {
		return ext
	}
	return "bin"
}

// StorageType reports which backend ultimately served a Put or Get.
type StorageType string

const (
	StorageTypeObject StorageType = "object"
	StorageTypeLocal  StorageType = "local"
	StorageTypeNone   StorageType = "none"
)

// PutResult is the outcome of one Put call.
type PutResult struct {
	Success     bool
	Location    string
	Kind        Kind
	StorageType StorageType
	Error       string
}

// clock is swappable for tests; defaults to time.Now.
var clock = time.Now
