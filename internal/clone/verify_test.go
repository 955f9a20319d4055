package clone

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/graphclone/internal/value"
)

func TestOverlap(t *testing.T) {
	shared := value.NewSequence(value.Number(1))
	fn := value.NewOpaque("fn", nil)
	original := value.NewObject(value.F("list", shared), value.F("fn", fn))

	t.Run("deep clone has none", func(t *testing.T) {
		assert.Empty(t, Overlap(original, Clone(original)))
	})

	t.Run("shallow copy shares children", func(t *testing.T) {
		shallow := value.NewObject(value.F("list", shared), value.F("fn", fn))
		got := Overlap(original, shallow)
		assert.Len(t, got, 1)
		assert.Same(t, shared, got[0])
	})

	t.Run("identity", func(t *testing.T) {
		got := Overlap(original, original)
		assert.Len(t, got, 2, "root and list, opaque excluded")
	})

	t.Run("primitives", func(t *testing.T) {
		assert.Empty(t, Overlap(value.Number(1), value.Number(1)))
	})
}
