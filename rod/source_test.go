package rod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageIndicator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		current int
		total   int
		ok      bool
	}{
		{
			name:    "plain indicator",
			html:    `<span class="paginator-info">Página 3 de 42</span>`,
			current: 3,
			total:   42,
			ok:      true,
		},
		{
			name:    "indicator embedded in surrounding markup",
			html:    `<div><p>resultados</p><span>Página 1 de 7</span><button>Sig.</button></div>`,
			current: 1,
			total:   7,
			ok:      true,
		},
		{
			name: "no indicator",
			html: `<html><body><h1>Error</h1></body></html>`,
		},
		{
			name: "indicator without numbers",
			html: `<span>Página de</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			current, total, ok := parsePageIndicator(tt.html)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.current, current)
			assert.Equal(t, tt.total, total)
		})
	}
}
