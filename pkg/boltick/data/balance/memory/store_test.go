package memory

import (
	"testing"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/balance/tests"
)

func TestBalanceMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
