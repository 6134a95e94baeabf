// Package guard switches the process into test mode when imported, so that
// entrypoints exercised from tests return before opening connections.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("MEDREF_TEST_MODE") == "" {
			_ = os.Setenv("MEDREF_TEST_MODE", "1")
		}
	})
}
