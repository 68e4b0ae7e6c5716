package memory

import (
	"testing"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event/tests"
)

func TestEventMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
