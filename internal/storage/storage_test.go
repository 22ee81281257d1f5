package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExerciseVideoKey(t *testing.T) {
	key := ExerciseVideoKey(12, "Squat Demo.MP4")

	assert.True(t, strings.HasPrefix(key, "exercises/12/"), key)
	assert.True(t, strings.HasSuffix(key, ".mp4"), key)
	assert.NotEqual(t, key, ExerciseVideoKey(12, "Squat Demo.MP4"))
}

func TestExerciseVideoKey_NoExtension(t *testing.T) {
	key := ExerciseVideoKey(3, "clip")
	assert.False(t, strings.Contains(strings.TrimPrefix(key, "exercises/3/"), "."))
}
