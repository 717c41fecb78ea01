package artifact

import (
	"fmt"
	"time"

	"github.com/distcrawl/distcrawl/pkg/hashutil"
)

// Key computes the object-store key for (kind, url) on the given day:
// <kind>/YYYY/MM/DD/md5(url).ext. It is deterministic in url, kind, and
// calendar day, so two writes of the same (url, kind) on the same day
// produce the same key.
func Key(kind Kind, url string, at time.Time) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s.%s",
		kind, at.Year(), at.Month(), at.Day(), hashutil.MD5Hex([]byte(url)), kind.Extension())
}

// LocalKey computes the local-fallback path for (kind, url), mirroring
// the same kind hierarchy as Key but without date partitions.
func LocalKey(kind Kind, url string) string {
	return fmt.Sprintf("%s/%s.%s", kind, hashutil.MD5Hex([]byte(url)), kind.Extension())
}
