package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKebabCase(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"build-mcp-server", true},
		{"a", true},
		{"kafka2-setup", true},
		{"", false},
		{"Build-MCP-Server", false},
		{"double--hyphen", false},
		{"-leading", false},
		{"trailing-", false},
		{"under_score", false},
		{"with space", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsKebabCase(tt.slug))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Automate PDF invoice intake", "automate-pdf-invoice-intake"},
		{"Kafka: topic onboarding!", "kafka-topic-onboarding"},
		{"  Trim me  ", "trim-me"},
		{"already-kebab", "already-kebab"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Slugify(tt.title)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsKebabCase(got))
		})
	}
}
