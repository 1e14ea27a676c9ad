package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateReportID(), "rpt_"))
	assert.True(t, strings.HasPrefix(GenerateEnhanceJobID(), "enh_"))
	assert.NotEqual(t, GenerateRequestID(), GenerateRequestID())
}

func TestContentHash_StableAndDistinct(t *testing.T) {
	a := ContentHash("python engineer")
	b := ContentHash("python engineer")
	c := ContentHash("python engineer ")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.5m", FormatDuration(150*time.Second))
	assert.Equal(t, "100ms", FormatDuration(100*time.Millisecond))
}

func TestCustomError_Error(t *testing.T) {
	err := NewUnsupportedFormatError("mime type: image/png")
	assert.Contains(t, err.Error(), "image/png")
	assert.Equal(t, CodeUnsupportedFormat, err.ErrorCode)
	assert.Equal(t, 415, err.Code)

	bare := NewBadRequestError("bad")
	assert.Equal(t, "bad", bare.Error())
}
