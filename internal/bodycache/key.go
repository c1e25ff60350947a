// Package bodycache holds the optional proxied-body cache: cache keys plus
// the L1/L2 backends layered under internal/bodycache.
package bodycache

import (
	"crypto/md5"
	"fmt"
)

// Key builds a cache key for one proxied request. The target URL already
// encodes project, folder and asset path, so hashing it keeps keys short and
// uniform regardless of path length.
func Key(method, targetURL string) string {
	return fmt.Sprintf("asset:%s:%x", method, md5.Sum([]byte(targetURL)))
}
