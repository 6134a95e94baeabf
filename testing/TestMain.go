package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("MEDREF_TEST_MODE", "1")
		if os.Getenv("RBAC_SOURCE") == "" {
			_ = os.Setenv("RBAC_SOURCE", "defaults")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
