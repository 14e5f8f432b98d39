package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	t.Run("known domain carries role preamble", func(t *testing.T) {
		prompt := Build("finance", "trading desk")
		assert.Contains(t, prompt, "quantitative analyst")
		assert.True(t, strings.HasSuffix(prompt,
			"Analyze this finance data from external system 'trading desk' and provide comprehensive insights:"))
	})

	t.Run("unknown domain still builds", func(t *testing.T) {
		prompt := Build("astrology", "star charts")
		assert.Equal(t,
			"Analyze this astrology data from external system 'star charts' and provide comprehensive insights:",
			prompt)
	})

	t.Run("domain lookup is case insensitive", func(t *testing.T) {
		assert.Contains(t, Build("Healthcare", "clinic"), "medical AI assistant")
	})
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("generic"))
	assert.True(t, IsKnown("ECOMMERCE"))
	assert.False(t, IsKnown("astrology"))
}

func TestKnownDomains(t *testing.T) {
	domains := KnownDomains()
	assert.Contains(t, domains, "generic")
	assert.Contains(t, domains, "finance")
	assert.Len(t, domains, 9)
}
