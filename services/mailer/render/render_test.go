package render

import (
	"testing"

	"novamailer/services/mailer/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	ctx := map[string]interface{}{
		"name":    "Alice",
		"company": "Acme Corp",
	}

	tests := []struct {
		name     string
		template string
		ctx      map[string]interface{}
		expected string
	}{
		{
			name:     "simple substitution",
			template: "Hello {{ name }}!",
			ctx:      ctx,
			expected: "Hello Alice!",
		},
		{
			name:     "multiple placeholders",
			template: "{{ name }} works at {{ company }}",
			ctx:      ctx,
			expected: "Alice works at Acme Corp",
		},
		{
			name:     "placeholder without spaces",
			template: "Hi {{name}}",
			ctx:      ctx,
			expected: "Hi Alice",
		},
		{
			name:     "missing key renders empty",
			template: "Dear {{ name }}, your code is {{ discount }}.",
			ctx:      ctx,
			expected: "Dear Alice, your code is .",
		},
		{
			name:     "no placeholders",
			template: "Plain text body",
			ctx:      ctx,
			expected: "Plain text body",
		},
		{
			name:     "empty template",
			template: "",
			ctx:      ctx,
			expected: "",
		},
		{
			name:     "nil context renders all placeholders empty",
			template: "Hello {{ name }}",
			ctx:      nil,
			expected: "Hello ",
		},
		{
			name:     "repeated placeholder",
			template: "{{ name }} and {{ name }}",
			ctx:      ctx,
			expected: "Alice and Alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Render(tt.template, tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRenderUnbalancedDelimiters(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"unclosed opening", "Hello {{ name"},
		{"stray closing", "Hello name }}"},
		{"closing before opening", "}} {{ name }}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.template, map[string]interface{}{"name": "Alice"})
			require.Error(t, err)

			var templateErr *apperrors.TemplateError
			assert.ErrorAs(t, err, &templateErr)
		})
	}
}

func TestRenderValueFormatting(t *testing.T) {
	ctx := map[string]interface{}{
		"str":   "text",
		"yes":   true,
		"no":    false,
		"count": 42,
		"big":   int64(9000000000),
		"price": 19.9,
		"nil":   nil,
	}

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"string", "{{ str }}", "text"},
		{"bool true", "{{ yes }}", "true"},
		{"bool false", "{{ no }}", "false"},
		{"int", "{{ count }}", "42"},
		{"int64", "{{ big }}", "9000000000"},
		{"float without exponent", "{{ price }}", "19.9"},
		{"nil value", "{{ nil }}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Render(tt.template, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
