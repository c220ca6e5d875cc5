package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{}, NormalizeTags(nil))
	assert.Equal(t, []string{"Jazz", "live music"}, NormalizeTags([]string{" Jazz", "", "jazz", "live music ", "  "}))
}
