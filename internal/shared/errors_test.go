package shared

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	err := Errorf(ErrorNotAllowed, "bid must be below %d", 950)
	assert.ErrorIs(t, err, ErrorNotAllowed)
	assert.Equal(t, "bid must be below 950", Message(err))

	wrapped := fmt.Errorf("place bid: %w", err)
	assert.ErrorIs(t, wrapped, ErrorNotAllowed)
	assert.Equal(t, "bid must be below 950", Message(wrapped))

	assert.Equal(t, "not found", Message(ErrorNotFound))
	assert.False(t, errors.Is(err, ErrorValidation))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.org", NormalizeEmail("  Alice@Example.ORG "))
}

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(0.01))
	assert.False(t, ValidAmount(0))
	assert.False(t, ValidAmount(-1))
	assert.False(t, ValidAmount(math.NaN()))
	assert.False(t, ValidAmount(math.Inf(1)))
}
