package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/core"
)

func sampleRecord() *core.DocumentRecord {
	return &core.DocumentRecord{
		Identifier:  "jane_doe.pdf",
		Text:        "Jane Doe. Python, Docker. 5 years of experience. Ünïcode ✓",
		ContentHash: "9f86d081884c7d65",
		Skills: core.SkillProfile{
			TechnicalSkills: []string{"docker", "python"},
			SoftSkills:      []string{},
			Certifications:  []string{"aws certified"},
			YearsExperience: "5+ years",
		},
		Position:   17,
		IngestedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestMarshalUnmarshalDocumentRecord(t *testing.T) {
	record := sampleRecord()

	data := MarshalDocumentRecord(record)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalDocumentRecord(data)
	require.NoError(t, err)

	assert.Equal(t, record.Identifier, decoded.Identifier)
	assert.Equal(t, record.Text, decoded.Text)
	assert.Equal(t, record.ContentHash, decoded.ContentHash)
	assert.Equal(t, record.Position, decoded.Position)
	assert.Equal(t, record.Skills, decoded.Skills)
	assert.True(t, record.IngestedAt.Equal(decoded.IngestedAt))
}

func TestUnmarshalDocumentRecord_Invalid(t *testing.T) {
	data := MarshalDocumentRecord(sampleRecord())

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", data[:len(data)/2]},
		{"missing timestamp", data[:len(data)-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDocumentRecord(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalVector(t *testing.T) {
	t.Run("values preserved exactly", func(t *testing.T) {
		vector := []float32{0, -1.5, 3.1415927, 1e-30, 42}
		decoded, err := UnmarshalVector(MarshalVector(vector))
		require.NoError(t, err)
		assert.Equal(t, vector, decoded)
	})

	t.Run("empty vector", func(t *testing.T) {
		decoded, err := UnmarshalVector(MarshalVector(nil))
		require.NoError(t, err)
		assert.Empty(t, decoded)
	})

	t.Run("truncated", func(t *testing.T) {
		data := MarshalVector([]float32{1, 2, 3})
		_, err := UnmarshalVector(data[:len(data)-2])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalVector(nil)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}
