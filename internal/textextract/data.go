package textextract

// Extraction is the cleaned textual content of one fetched document.
type Extraction struct {
	Title string
	Text  string
}

// stripTags names element kinds removed before root selection, per the
// ingestion pipeline's text-extraction step.
var stripTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"header": true,
	"footer": true,
	"meta":   true,
	"link":   true,
}

// rootSelectors is tried in order; the first selector matching a node in
// the stripped document becomes the text root.
var rootSelectors = []string{"main", "article", "body"}
