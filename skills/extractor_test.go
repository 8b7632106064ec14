package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/core"
)

func TestExtract_ShortText(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, core.EmptySkillProfile(), Extract(""))
	})

	t.Run("below minimum after normalization", func(t *testing.T) {
		assert.Equal(t, core.EmptySkillProfile(), Extract("   python   "))
	})

	t.Run("whitespace only", func(t *testing.T) {
		assert.Equal(t, core.EmptySkillProfile(), Extract("\n\t   \n"))
	})
}

func TestExtract_TechnicalSkills(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		p := Extract("Python and Docker expert")
		assert.Equal(t, []string{"docker", "python"}, p.TechnicalSkills)
	})

	t.Run("whole words only", func(t *testing.T) {
		p := Extract("Senior JavaScript engineer")
		assert.Contains(t, p.TechnicalSkills, "javascript")
		assert.NotContains(t, p.TechnicalSkills, "java")
	})

	t.Run("punctuation inside skills", func(t *testing.T) {
		p := Extract("Expert in C# and .NET Core, some Node.js")
		assert.Contains(t, p.TechnicalSkills, "c#")
		assert.Contains(t, p.TechnicalSkills, ".net core")
		assert.Contains(t, p.TechnicalSkills, "node.js")
	})

	t.Run("phrases span collapsed whitespace", func(t *testing.T) {
		p := Extract("Worked on machine\n   learning and Spring   Boot services")
		assert.Contains(t, p.TechnicalSkills, "machine learning")
		assert.Contains(t, p.TechnicalSkills, "spring boot")
		assert.Contains(t, p.TechnicalSkills, "spring")
	})

	t.Run("deduplicated across categories", func(t *testing.T) {
		p := Extract("Swift and Kotlin mobile developer")
		assert.Equal(t, []string{"kotlin", "swift"}, p.TechnicalSkills)
	})
}

func TestExtract_SoftSkills(t *testing.T) {
	p := Extract("Strong   problem\nsolving skills and Leadership")
	assert.Equal(t, []string{"leadership", "problem solving"}, p.SoftSkills)
}

func TestExtract_Certifications(t *testing.T) {
	p := Extract("AWS Certified, PMP and an MBA")
	assert.Equal(t, []string{"aws certified", "mba", "pmp"}, p.Certifications)
	assert.Equal(t, []string{"aws"}, p.TechnicalSkills)
}

func TestExtract_Years(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "years of experience", text: "I have 5+ years of experience in Go", want: "5+ years"},
		{name: "experience colon", text: "Experience: 7 years building APIs", want: "7+ years"},
		{name: "abbreviated", text: "About 3 yrs experience overall", want: "3+ years"},
		{name: "first pattern wins", text: "10 years experience; experience: 2 years", want: "10+ years"},
		{name: "none", text: "Recent graduate looking for work", want: core.YearsUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text).YearsExperience)
		})
	}
}

func TestNewExtractor_Options(t *testing.T) {
	t.Run("custom vocabulary", func(t *testing.T) {
		e, err := NewExtractor(WithTechnicalSkills([]string{"Zig", " zig ", "Odin"}), WithSoftSkills(nil))
		require.NoError(t, err)

		p := e.Extract("Zig and Python programmer, great leadership")
		assert.Equal(t, []string{"zig"}, p.TechnicalSkills)
		assert.Empty(t, p.SoftSkills)
	})

	t.Run("invalid certification pattern", func(t *testing.T) {
		_, err := NewExtractor(WithCertificationPatterns([]string{"("}))
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("negative minimum length", func(t *testing.T) {
		_, err := NewExtractor(WithMinTextLength(-1))
		assert.ErrorIs(t, err, ErrInvalidMinLength)
	})

	t.Run("zero minimum length", func(t *testing.T) {
		e, err := NewExtractor(WithMinTextLength(0))
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, e.Extract("go").TechnicalSkills)
	})
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("go developer", "go"))
	assert.True(t, containsWord("we use go", "go"))
	assert.True(t, containsWord("(go)", "go"))
	assert.False(t, containsWord("google", "go"))
	assert.False(t, containsWord("ago", "go"))
	assert.True(t, containsWord("ago and go", "go"))
	assert.False(t, containsWord("go", ""))
	assert.False(t, containsWord("my_go", "go"))
}

func TestTechnicalSkills_Unique(t *testing.T) {
	all := TechnicalSkills()
	seen := make(map[string]bool, len(all))
	for _, s := range all {
		assert.False(t, seen[s], "duplicate skill %q", s)
		seen[s] = true
	}
	assert.True(t, seen["ci/cd"])
	assert.True(t, seen["postman"])
}
