package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"intelwatch/internal/domain/entity"
)

func TestArticle_HasPublishedAt(t *testing.T) {
	a := entity.Article{Title: "No date"}
	assert.False(t, a.HasPublishedAt())

	a.PublishedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, a.HasPublishedAt())
}
