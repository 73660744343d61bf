// Package guard forces test mode for packages that import it, so test
// binaries never start the real runtime by accident.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("GIGLEDGER_TEST_MODE") == "" {
			_ = os.Setenv("GIGLEDGER_TEST_MODE", "1")
		}
	})
}
